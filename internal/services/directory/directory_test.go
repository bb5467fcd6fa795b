package directory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessrelay/internal/model"
)

type DirectorySuite struct {
	suite.Suite
	dir *Directory
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.dir = New()
}

func (s *DirectorySuite) TestRegisterIsKnownNotLive() {
	s.dir.Register("alice", "tok")

	s.True(s.dir.Known("alice"))
	s.False(s.dir.IsLive("alice"))

	b, ok := s.dir.Lookup("alice")
	s.Require().True(ok)
	s.Equal("tok", b.Credential)
	s.Empty(b.Conn)
}

func (s *DirectorySuite) TestBindUnknownIdentity() {
	err := s.dir.Bind("ghost", "c1")
	s.ErrorIs(err, model.ErrUnknownIdentity)

	_, err = s.dir.Resolve("c1")
	s.ErrorIs(err, model.ErrNotBound)
}

func (s *DirectorySuite) TestBindAndResolve() {
	s.dir.Register("alice", "tok")
	s.Require().NoError(s.dir.Bind("alice", "c1"))

	identity, err := s.dir.Resolve("c1")
	s.Require().NoError(err)
	s.Equal(model.Identity("alice"), identity)
	s.True(s.dir.IsLive("alice"))

	conn, ok := s.dir.ConnOf("alice")
	s.True(ok)
	s.Equal(model.ConnID("c1"), conn)
}

func (s *DirectorySuite) TestRebindReplacesConnection() {
	s.dir.Register("alice", "tok")
	_ = s.dir.Bind("alice", "c1")
	s.Require().NoError(s.dir.Bind("alice", "c2"))

	_, err := s.dir.Resolve("c1")
	s.ErrorIs(err, model.ErrNotBound)

	identity, err := s.dir.Resolve("c2")
	s.Require().NoError(err)
	s.Equal(model.Identity("alice"), identity)
}

func (s *DirectorySuite) TestUnbindKeepsRecord() {
	s.dir.Register("alice", "tok")
	_ = s.dir.Bind("alice", "c1")

	identity, ok := s.dir.Unbind("c1")
	s.True(ok)
	s.Equal(model.Identity("alice"), identity)
	s.False(s.dir.IsLive("alice"))
	s.True(s.dir.Known("alice"))

	s.Require().NoError(s.dir.Bind("alice", "c2"))
	s.True(s.dir.IsLive("alice"))
}

func (s *DirectorySuite) TestUnbindUnknownConnIsNoop() {
	_, ok := s.dir.Unbind("nope")
	s.False(ok)
}

func (s *DirectorySuite) TestUnbindStaleConnKeepsNewer() {
	s.dir.Register("alice", "tok")
	_ = s.dir.Bind("alice", "c1")
	_ = s.dir.Bind("alice", "c2")

	_, ok := s.dir.Unbind("c1")
	s.False(ok)
	s.True(s.dir.IsLive("alice"))

	conn, _ := s.dir.ConnOf("alice")
	s.Equal(model.ConnID("c2"), conn)
}

func (s *DirectorySuite) TestRegisterKeepsLiveConnection() {
	s.dir.Register("alice", "tok1")
	_ = s.dir.Bind("alice", "c1")

	s.dir.Register("alice", "tok2")

	b, _ := s.dir.Lookup("alice")
	s.Equal("tok2", b.Credential)
	s.Equal(model.ConnID("c1"), b.Conn)
}

func (s *DirectorySuite) TestConnReusedByAnotherIdentity() {
	s.dir.Register("alice", "a")
	s.dir.Register("bob", "b")
	_ = s.dir.Bind("alice", "c1")
	_ = s.dir.Bind("bob", "c1")

	s.False(s.dir.IsLive("alice"))
	identity, _ := s.dir.Resolve("c1")
	s.Equal(model.Identity("bob"), identity)
}
