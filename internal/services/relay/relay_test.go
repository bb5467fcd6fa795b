package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessrelay/internal/dependencies/mocks"
	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/services/directory"
	"github.com/mcoot/chessrelay/internal/services/registry"
	"github.com/mcoot/chessrelay/internal/testutil"
)

type RelaySuite struct {
	suite.Suite
	random   *mocks.MockRandom
	sender   *mocks.MockSender
	dir      *directory.Directory
	registry *registry.Registry
	relay    *Relay
	session  model.Session
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.sender = mocks.NewMockSender()
	s.dir = directory.New()
	s.registry = registry.New(clk, s.random, testutil.NopLogger())
	s.relay = New(s.dir, s.registry, s.sender, testutil.NopLogger())

	for _, name := range []model.Identity{"alice", "bob", "carol"} {
		s.dir.Register(name, "tok-"+string(name))
	}
	s.Require().NoError(s.dir.Bind("alice", "ca"))
	s.Require().NoError(s.dir.Bind("bob", "cb"))
	s.Require().NoError(s.dir.Bind("carol", "cc"))
}

// startGame seats alice White and bob Black
func (s *RelaySuite) startGame() {
	s.random.QueueBool(true)
	created := s.registry.Create("alice")
	session, filled, err := s.registry.Join(created.ID, "bob")
	s.Require().NoError(err)
	s.Require().True(filled)
	s.session = session
}

func (s *RelaySuite) stateOf() model.TurnState {
	session, ok := s.registry.FindBySessionID(s.session.ID)
	s.Require().True(ok)
	return session.State()
}

func (s *RelaySuite) TestFilledBroadcastsWhiteTurn() {
	s.startGame()
	s.relay.Filled(s.session.ID)

	s.Equal([]model.Event{model.GameStateEvent(model.TurnStateWhite)}, s.sender.SentTo("ca"))
	s.Equal([]model.Event{model.GameStateEvent(model.TurnStateWhite)}, s.sender.SentTo("cb"))
}

func (s *RelaySuite) TestFilledIgnoresWaitingSession() {
	created := s.registry.Create("alice")
	s.relay.Filled(created.ID)
	s.relay.Filled("missing")

	s.Empty(s.sender.Sent())
}

func (s *RelaySuite) TestFilledBroadcastsCurrentTurnOnRefill() {
	s.startGame()
	s.Require().NoError(s.relay.HandleMove("ca", "e2e4"))
	s.registry.Leave("bob")
	_, filled, err := s.registry.Join(s.session.ID, "carol")
	s.Require().NoError(err)
	s.Require().True(filled)
	s.sender.Reset()

	s.relay.Filled(s.session.ID)

	s.Equal([]model.Event{model.GameStateEvent(model.TurnStateBlack)}, s.sender.SentTo("ca"))
	s.Equal([]model.Event{model.GameStateEvent(model.TurnStateBlack)}, s.sender.SentTo("cc"))
}

func (s *RelaySuite) TestMoveForwardsAndFlipsTurn() {
	s.startGame()

	err := s.relay.HandleMove("ca", "e2e4")
	s.Require().NoError(err)

	s.Equal([]model.Event{model.GameStateEvent(model.TurnStateBlack)}, s.sender.SentTo("ca"))
	s.Equal([]model.Event{
		model.OpponentMoveEvent("e2e4"),
		model.GameStateEvent(model.TurnStateBlack),
	}, s.sender.SentTo("cb"))
	s.Equal(model.TurnStateBlack, s.stateOf())
}

func (s *RelaySuite) TestStrictAlternation() {
	s.startGame()

	s.Require().NoError(s.relay.HandleMove("ca", "e2e4"))
	s.Require().NoError(s.relay.HandleMove("cb", "e7e5"))
	s.Require().NoError(s.relay.HandleMove("ca", "g1f3"))

	s.Equal(model.TurnStateBlack, s.stateOf())
	s.Contains(s.sender.SentTo("ca"), model.OpponentMoveEvent("e7e5"))
}

func (s *RelaySuite) TestOutOfTurnRejected() {
	s.startGame()

	err := s.relay.HandleMove("cb", "e7e5")
	s.ErrorIs(err, model.ErrOutOfTurn)

	s.Equal(model.TurnStateWhite, s.stateOf())
	s.Empty(s.sender.SentTo("ca"))
	s.Equal([]model.Event{
		model.ErrorEvent(CodeOutOfTurn, model.ErrOutOfTurn.Error()),
	}, s.sender.SentTo("cb"))
}

func (s *RelaySuite) TestRepeatedMoveRejected() {
	s.startGame()

	s.Require().NoError(s.relay.HandleMove("ca", "e2e4"))
	err := s.relay.HandleMove("ca", "d2d4")
	s.ErrorIs(err, model.ErrOutOfTurn)
	s.Equal(model.TurnStateBlack, s.stateOf())
}

func (s *RelaySuite) TestMoveBeforeStartRejected() {
	s.registry.Create("alice")

	err := s.relay.HandleMove("ca", "e2e4")
	s.ErrorIs(err, model.ErrSessionNotRunning)
}

func (s *RelaySuite) TestMoveWithoutSessionRejected() {
	err := s.relay.HandleMove("cc", "e2e4")
	s.ErrorIs(err, model.ErrNoActiveSession)
	s.Equal([]model.Event{
		model.ErrorEvent(CodeNoActiveSession, model.ErrNoActiveSession.Error()),
	}, s.sender.SentTo("cc"))
}

func (s *RelaySuite) TestMoveFromUnboundConnDropped() {
	s.startGame()

	err := s.relay.HandleMove("stranger", "e2e4")
	s.ErrorIs(err, model.ErrNotBound)
	s.Empty(s.sender.Sent())
	s.Equal(model.TurnStateWhite, s.stateOf())
}

func (s *RelaySuite) TestMoveToOfflineOpponentStillAccepted() {
	s.startGame()
	s.dir.Unbind("cb")

	err := s.relay.HandleMove("ca", "e2e4")
	s.Require().NoError(err)

	s.Empty(s.sender.SentTo("cb"))
	s.Equal(model.TurnStateBlack, s.stateOf())
}

func (s *RelaySuite) TestMoveAfterOpponentLeftIsNotOutOfTurn() {
	s.startGame()
	s.registry.Leave("bob")

	// The session stays running with one seat; white may still move.
	err := s.relay.HandleMove("ca", "e2e4")
	s.Require().NoError(err)
	s.Equal([]model.Event{model.GameStateEvent(model.TurnStateBlack)}, s.sender.SentTo("ca"))
}

func (s *RelaySuite) TestReconnectedOpponentReceivesMove() {
	s.startGame()
	s.Require().NoError(s.dir.Bind("bob", "cb2"))

	s.Require().NoError(s.relay.HandleMove("ca", "e2e4"))

	s.Empty(s.sender.SentTo("cb"))
	s.Contains(s.sender.SentTo("cb2"), model.OpponentMoveEvent("e2e4"))
}

func (s *RelaySuite) TestDisconnectedForfeitsSeat() {
	s.startGame()

	s.relay.Disconnected("ca")

	s.False(s.dir.IsLive("alice"))
	s.True(s.dir.Known("alice"))
	session, ok := s.registry.FindBySessionID(s.session.ID)
	s.Require().True(ok)
	s.Empty(session.White)
	s.Equal(model.Identity("bob"), session.Black)
}

func (s *RelaySuite) TestDisconnectedUnknownConnIsNoop() {
	s.startGame()

	s.relay.Disconnected("stranger")
	s.relay.Disconnected("stranger")

	session, _ := s.registry.FindBySessionID(s.session.ID)
	s.True(session.IsFull())
}

func (s *RelaySuite) TestDisconnectedStaleConnKeepsSeat() {
	s.startGame()
	s.Require().NoError(s.dir.Bind("alice", "ca2"))

	s.relay.Disconnected("ca")

	s.True(s.dir.IsLive("alice"))
	session, _ := s.registry.FindBySessionID(s.session.ID)
	s.Equal(model.Identity("alice"), session.White)
}

func (s *RelaySuite) TestCodeMapping() {
	s.Equal(CodeOutOfTurn, Code(model.ErrOutOfTurn))
	s.Equal(CodeNotBound, Code(model.ErrNotBound))
	s.Equal(CodeInvalidEvent, Code(ErrInvalidEvent))
	s.Equal(CodeInternalError, Code(model.ErrSessionFull))
}
