package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessrelay/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.Username, retrieved.Username)
	s.Equal(player.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePlayerStoresCopy() {
	player := &model.Player{Username: "alice", PasswordHash: "hash123"}
	_ = s.storage.SavePlayer(s.ctx, player)

	player.PasswordHash = "mutated"

	retrieved, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hash123", retrieved.PasswordHash)
}

func (s *StorageSuite) TestSavePlayerOverwrites() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{Username: "alice", PasswordHash: "old"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{Username: "alice", PasswordHash: "new"})

	retrieved, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("new", retrieved.PasswordHash)
}

func (s *StorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{Username: "alice"})

	err := s.storage.DeletePlayer(s.ctx, "alice")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayerNoopForUnknown() {
	s.NoError(s.storage.DeletePlayer(s.ctx, "nobody"))
}

func (s *StorageSuite) TestPlayerExists() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{Username: "alice"})

	exists, err := s.storage.PlayerExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.PlayerExists(s.ctx, "bob")
	s.Require().NoError(err)
	s.False(exists)
}
