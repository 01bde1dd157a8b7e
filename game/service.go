package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cardczar/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config carries the gameplay knobs that vary per deployment.
type Config struct {
	// MinPlayers is how many non-host players must join before the host
	// can start.
	MinPlayers int
	// AdvanceDelay is how long the winner announcement stays up before
	// the next round starts automatically.
	AdvanceDelay time.Duration
}

// Service resolves inbound packets to a game via the registry, applies
// them and emits the resulting notifications. It also owns the live
// session set.
type Service struct {
	store     GameStore
	registry  *Registry
	codes     UniqueCodeGenerator
	scheduler RoundScheduler
	config    Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(store GameStore, registry *Registry, codes UniqueCodeGenerator, scheduler RoundScheduler, config Config) *Service {
	return &Service{
		store:     store,
		registry:  registry,
		codes:     codes,
		scheduler: scheduler,
		config:    config,
		sessions:  make(map[string]*Session),
	}
}

// Connect registers a new session for the connection and starts its
// pumps.
func (svc *Service) Connect(conn NetworkSession) *Session {
	session := NewSession(conn)

	svc.mu.Lock()
	svc.sessions[session.id] = session
	svc.mu.Unlock()

	go session.ReadPump(svc.HandlePacket, svc.Disconnect)
	go session.WritePump()

	log.Debug().Str("session", session.id).Msg("session connected")
	return session
}

func (svc *Service) sessionById(id string) (*Session, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	session, ok := svc.sessions[id]
	return session, ok
}

// send delivers to a session if it is still connected. A missing session
// just means that player is gone; their roster entry remains.
func (svc *Service) send(sessionId string, p ServerPacket) {
	if session, ok := svc.sessionById(sessionId); ok {
		session.Send(p)
	}
}

// broadcast reaches the host and every roster player.
func (svc *Service) broadcast(g *Game, p ServerPacket) {
	svc.send(g.HostSession(), p)
	for _, sessionId := range g.PlayerSessions() {
		svc.send(sessionId, p)
	}
}

func (svc *Service) sendError(s *Session, message string) {
	s.Send(MakePacketError(message))
}

// rejection logs at debug for expected rule violations and at error when
// the store itself failed.
func rejection(err error) *zerolog.Event {
	if domain.IsPersistence(err) {
		return log.Error()
	}
	return log.Debug()
}

// HandlePacket is the single entry point for inbound events. One packet
// is handled to completion before the session reads the next.
func (svc *Service) HandlePacket(s *Session, p ClientPacket) {
	ctx := context.Background()

	switch p.Type {
	case TypeCreateGame:
		svc.createGame(ctx, s)
	case TypeJoinGame:
		svc.joinGame(ctx, s, p)
	case TypeStartGame:
		svc.startGame(ctx, s)
	case TypeNewRound:
		svc.newRound(ctx, s)
	case TypeCardSelected:
		svc.cardSelected(ctx, s, p)
	case TypeWinnerSelected:
		svc.winnerSelected(ctx, s, p)
	case TypeEndGame:
		svc.endGame(ctx, s, p.GameCode)
	case TypeReconnectGame:
		svc.reconnectGame(s, p)
	default:
		svc.sendError(s, "Unknown action.")
	}
}

func (svc *Service) createGame(ctx context.Context, s *Session) {
	if svc.registry.HasSession(s.id) {
		svc.sendError(s, "You are already connected to a game.")
		return
	}

	code := svc.codes.Generate()
	gameId, err := svc.store.CreateGame(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("could not persist game")
		svc.codes.Dispose(code)
		svc.sendError(s, "Could not create the game.")
		return
	}

	g := NewGame(svc.store, gameId, code, s.id)
	svc.registry.Register(g)
	s.Send(MakePacketGameCreated(code))
}

func (svc *Service) joinGame(ctx context.Context, s *Session, p ClientPacket) {
	if svc.registry.HasSession(s.id) {
		svc.sendError(s, "You are already connected to a game.")
		return
	}

	if len(p.Code) != CodeLength {
		svc.sendError(s, "Invalid game code.")
		return
	}

	g, ok := svc.registry.FindByCode(p.Code)
	if !ok {
		svc.sendError(s, "Game does not exist.")
		return
	}
	// Join-after-start is a matchmaking rule, so it is enforced here and
	// not re-validated inside the aggregate.
	if g.Started() {
		svc.sendError(s, "Game is already started.")
		return
	}

	playerId, err := g.AddPlayer(ctx, s.id, p.Nickname)
	if err != nil {
		log.Error().Err(err).Str("game", g.Id()).Msg("could not add player")
		svc.sendError(s, "Could not add player to game.")
		return
	}

	svc.send(g.HostSession(), MakePacketPlayerConnected(g.PlayerCount()))
	s.Send(MakePacketGameJoined(g.Code(), playerId, p.Nickname))
}

func (svc *Service) startGame(ctx context.Context, s *Session) {
	g, ok := svc.registry.FindByHost(s.id)
	if !ok {
		svc.sendError(s, "You are not hosting any games.")
		return
	}

	if g.PlayerCount() < svc.config.MinPlayers {
		svc.sendError(s, fmt.Sprintf("At least %d players need to join the game.", svc.config.MinPlayers))
		return
	}

	if err := g.Start(ctx); err != nil {
		log.Error().Err(err).Str("game", g.Id()).Msg("could not start game")
		svc.sendError(s, "Could not start the game.")
		return
	}

	svc.broadcast(g, MakePacketGameStarted())
	svc.startRound(ctx, g)
}

func (svc *Service) newRound(ctx context.Context, s *Session) {
	g, ok := svc.registry.FindByHost(s.id)
	if !ok {
		svc.sendError(s, "Could not start new round.")
		return
	}
	svc.startRound(ctx, g)
}

// startRound runs the aggregate's round creation and fans out the
// announcements: prompt to the host, each private hand to its owner.
func (svc *Service) startRound(ctx context.Context, g *Game) {
	start, err := g.StartRound(ctx)
	if err != nil {
		log.Error().Err(err).Str("game", g.Id()).Msg("could not start round")
		svc.send(g.HostSession(), MakePacketError("Could not start new round."))
		return
	}

	svc.send(g.HostSession(), MakePacketNewRoundHost(start.Prompt))
	for _, hand := range start.Hands {
		svc.send(hand.SessionId, MakePacketNewRound(hand.Cards, start.JudgeSession))
	}
}

func (svc *Service) cardSelected(ctx context.Context, s *Session, p ClientPacket) {
	g, ok := svc.registry.FindByPlayerSession(s.id)
	if !ok {
		svc.sendError(s, "Failed to select card.")
		return
	}

	result, err := g.PlayCard(ctx, s.id, p.CardId)
	if err != nil {
		rejection(err).Err(err).Str("game", g.Id()).Str("session", s.id).Msg("rejected move")
		svc.sendError(s, "Failed to select card.")
		return
	}

	s.Send(MakePacketCardPlayed(result.CardId))
	svc.send(g.HostSession(), MakePacketCardPlayedHost(result.PlayedCards))

	if result.AllMoved {
		svc.broadcast(g, MakePacketFindWinner(result.PlayedCards))
	}
}

func (svc *Service) winnerSelected(ctx context.Context, s *Session, p ClientPacket) {
	g, ok := svc.registry.FindByCode(p.GameCode)
	if !ok {
		svc.sendError(s, "Failed to select winner.")
		return
	}

	winningCard, err := g.PickWinner(ctx, p.CardId)
	if err != nil {
		rejection(err).Err(err).Str("game", g.Id()).Msg("rejected winner pick")
		svc.sendError(s, "Failed to select winner.")
		return
	}

	svc.broadcast(g, MakePacketWinnerFound(winningCard))

	// The delayed advance must not touch a game that ended while the
	// timer was pending, so the callback re-resolves the game through
	// the registry first.
	code := g.Code()
	cancel := svc.scheduler.Schedule(svc.config.AdvanceDelay, func() {
		current, stillActive := svc.registry.FindByCode(code)
		if !stillActive || current != g {
			return
		}
		svc.startRound(context.Background(), g)
	})
	g.ArmAdvanceTimer(cancel)
}

func (svc *Service) endGame(ctx context.Context, s *Session, gameCode string) {
	g, ok := svc.registry.FindByCode(gameCode)
	if !ok {
		svc.sendError(s, "Could not end the game.")
		return
	}

	g.StopAdvanceTimer()

	if !g.Started() {
		svc.broadcast(g, MakePacketGameEndedEarly())
		svc.unregister(g)
		return
	}

	summary, err := g.End(ctx)
	if err != nil {
		log.Error().Err(err).Str("game", g.Id()).Msg("could not end game")
		svc.sendError(s, "Could not end the game.")
		return
	}

	svc.broadcast(g, MakePacketGameEnded(summary.PlayerId, summary.Wins))
	svc.unregister(g)
}

func (svc *Service) unregister(g *Game) {
	svc.registry.Unregister(g)
	svc.codes.Dispose(g.Code())
}

func (svc *Service) reconnectGame(s *Session, p ClientPacket) {
	g, ok := svc.registry.FindByCode(p.GameCode)
	if !ok {
		s.Send(MakePacketReconnected(false))
		return
	}

	if err := g.Reconnect(p.PlayerId, s.id); err != nil {
		s.Send(MakePacketReconnected(false))
		return
	}

	s.Send(MakePacketReconnected(true))
}

// Disconnect handles a dropped connection. A leaving host takes the game
// down with them; a leaving player is only flagged so their identity and
// rotation slot survive for reconnect.
func (svc *Service) Disconnect(s *Session) {
	svc.mu.Lock()
	delete(svc.sessions, s.id)
	svc.mu.Unlock()

	if g, hosting := svc.registry.FindByHost(s.id); hosting {
		log.Info().Str("game", g.Id()).Msg("host disconnected, ending game")
		svc.endGame(context.Background(), s, g.Code())
		return
	}

	if g, playing := svc.registry.FindByPlayerSession(s.id); playing {
		if err := g.MarkDisconnected(s.id); err != nil {
			log.Warn().Err(err).Str("game", g.Id()).Msg("could not flag disconnected player")
		}
	}
}
