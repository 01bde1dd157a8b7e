package game

import (
	"context"
	"fmt"
	"sync"

	"cardczar/domain"
)

// Game is the top-level aggregate: roster, lifecycle, dealing and judge
// rotation. One mutex per game serializes all aggregate operations; the
// registry never locks games itself.
type Game struct {
	mu sync.Mutex

	id           string
	code         string
	hostSession  string
	started      bool
	players      []*Player
	currentRound *Round

	store GameStore

	// Pending delayed advance to the next round, armed after a winner is
	// picked and stopped when the game ends.
	advanceCancel func()
}

func NewGame(store GameStore, id, code, hostSession string) *Game {
	return &Game{
		id:          id,
		code:        code,
		hostSession: hostSession,
		store:       store,
	}
}

func (g *Game) Id() string {
	return g.id
}

func (g *Game) Code() string {
	return g.code
}

func (g *Game) HostSession() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hostSession
}

func (g *Game) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started
}

func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// PlayerSessions returns the current session of every roster player,
// disconnected or not.
func (g *Game) PlayerSessions() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	sessions := make([]string, 0, len(g.players))
	for _, player := range g.players {
		sessions = append(sessions, player.sessionId)
	}
	return sessions
}

// Start marks the game started. The timestamp is persisted first; the
// in-memory flag flips only once the write succeeded. A second call
// fails the same way, it never re-runs the transition.
func (g *Game) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return domain.ErrAlreadyStarted
	}

	if err := g.store.MarkGameStarted(ctx, g.id); err != nil {
		return err
	}

	g.started = true
	return nil
}

// AddPlayer persists the player row and appends to the roster in join
// order. Join order is append-only, it defines judge rotation.
func (g *Game) AddPlayer(ctx context.Context, sessionId, nickname string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	playerId, err := g.store.InsertPlayer(ctx, sessionId, g.id, nickname)
	if err != nil {
		return "", err
	}

	g.players = append(g.players, NewPlayer(playerId, sessionId, nickname))
	return playerId, nil
}

// NextJudge returns the first player in join order for the first round,
// then rotates circularly from the previous round's judge.
func (g *Game) NextJudge() (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextJudge()
}

func (g *Game) nextJudge() (*Player, error) {
	if len(g.players) == 0 {
		return nil, domain.ErrJudgeNotFound
	}

	if g.currentRound == nil {
		return g.players[0], nil
	}

	for i, player := range g.players {
		if player.id == g.currentRound.judgeId {
			return g.players[(i+1)%len(g.players)], nil
		}
	}

	// Unreachable as long as disconnects flag players instead of
	// removing them, which is exactly the invariant that keeps rotation
	// well-defined.
	return nil, domain.ErrJudgeNotFound
}

// HandDeal is one player's private refilled hand for a new round.
type HandDeal struct {
	SessionId string
	Cards     []domain.Card
}

// RoundStart is everything the transport layer announces when a round
// begins.
type RoundStart struct {
	Prompt       domain.Card
	JudgeSession string
	Hands        []HandDeal
}

// StartRound creates the next round, draws its prompt, persists it and
// refills every hand to CardMax. The new round is installed only after
// both the round start and the dealing succeed; on failure the previous
// round reference is left untouched and the failed instance discarded.
func (g *Game) StartRound(ctx context.Context) (*RoundStart, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	judge, err := g.nextJudge()
	if err != nil {
		return nil, err
	}

	round := NewRound(g.store, g.id, judge.id, g.players)
	if err := round.Start(ctx); err != nil {
		return nil, err
	}

	if err := g.dealCardsToPlayers(ctx); err != nil {
		return nil, err
	}

	for _, player := range g.players {
		player.reconnected = false
	}
	g.currentRound = round

	start := &RoundStart{
		Prompt:       round.prompt,
		JudgeSession: judge.sessionId,
		Hands:        make([]HandDeal, 0, len(g.players)),
	}
	for _, player := range g.players {
		start.Hands = append(start.Hands, HandDeal{
			SessionId: player.sessionId,
			Cards:     player.Hand(),
		})
	}
	return start, nil
}

// DealCardsToPlayers refills every hand to CardMax white cards, drawing
// the whole shortfall from the store in a single batch. One batch keeps
// the store round-trips at one regardless of player count.
func (g *Game) DealCardsToPlayers(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dealCardsToPlayers(ctx)
}

func (g *Game) dealCardsToPlayers(ctx context.Context) error {
	if !g.started {
		return domain.ErrNotStarted
	}

	shortfall := 0
	for _, player := range g.players {
		shortfall += CardMax - len(player.cards)
	}
	if shortfall == 0 {
		return nil
	}

	drawn, err := g.store.DrawCards(ctx, g.id, domain.CategoryWhite, shortfall)
	if err != nil {
		return err
	}
	// Distribute nothing when the supply cannot fill every hand, so a
	// failed deal never shows up as a short but valid hand.
	if len(drawn) < shortfall {
		return fmt.Errorf("%w: need %d white cards, got %d", domain.ErrNoCardsAvailable, shortfall, len(drawn))
	}

	for _, player := range g.players {
		missing := CardMax - len(player.cards)
		player.cards = append(player.cards, drawn[:missing]...)
		drawn = drawn[missing:]
	}
	return nil
}

// PlayResult is what the transport layer announces after a valid move.
type PlayResult struct {
	CardId      string
	PlayedCards []domain.Card
	AllMoved    bool
}

// PlayCard applies one player's move to the current round.
func (g *Game) PlayCard(ctx context.Context, sessionId, cardId string) (*PlayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player := g.playerBySession(sessionId)
	if player == nil {
		return nil, domain.ErrPlayerNotFound
	}
	if g.currentRound == nil {
		return nil, domain.ErrNoActiveRound
	}

	if err := g.currentRound.MakeMove(ctx, cardId, player); err != nil {
		return nil, err
	}

	return &PlayResult{
		CardId:      cardId,
		PlayedCards: g.currentRound.PlayedCards(),
		AllMoved:    g.currentRound.AllMovesMade(),
	}, nil
}

// PickWinner resolves the winning card back to its player, marks the
// round judged and returns the winning card.
func (g *Game) PickWinner(ctx context.Context, cardId string) (domain.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.currentRound == nil {
		return domain.Card{}, domain.ErrNoActiveRound
	}

	playerId, found := g.currentRound.playerByPlayedCard(cardId)
	if !found {
		return domain.Card{}, domain.ErrPlayerNotFound
	}
	winner := g.playerById(playerId)
	if winner == nil {
		return domain.Card{}, domain.ErrPlayerNotFound
	}

	if err := g.currentRound.SetWinner(ctx, winner); err != nil {
		return domain.Card{}, err
	}

	return g.store.GetCardById(ctx, cardId)
}

// WinnerSummary is the result of ending a started game.
type WinnerSummary struct {
	PlayerId    string
	DisplayName string
	Wins        int
}

// End persists the end timestamp and returns the player with the most
// round wins. Fails with ErrNoWinner when no round was ever won.
func (g *Game) End(ctx context.Context) (WinnerSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return WinnerSummary{}, domain.ErrNotStarted
	}

	if err := g.store.MarkGameEnded(ctx, g.id); err != nil {
		return WinnerSummary{}, err
	}

	top, err := g.currentWinner(ctx)
	if err != nil {
		return WinnerSummary{}, err
	}

	winner := g.playerById(top.PlayerId)
	if winner == nil {
		return WinnerSummary{}, domain.ErrPlayerNotFound
	}

	return WinnerSummary{
		PlayerId:    winner.id,
		DisplayName: winner.DisplayName(),
		Wins:        top.Wins,
	}, nil
}

// CurrentWinner returns the player id with the most rounds won so far.
// Ties break on the store's descending-count ordering; which of two tied
// players comes first is deliberately left to the store.
func (g *Game) CurrentWinner(ctx context.Context) (WinCount, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentWinner(ctx)
}

func (g *Game) currentWinner(ctx context.Context) (WinCount, error) {
	counts, err := g.store.WinCountsByPlayer(ctx, g.id)
	if err != nil {
		return WinCount{}, err
	}
	if len(counts) == 0 {
		return WinCount{}, domain.ErrNoWinner
	}
	return counts[0], nil
}

func (g *Game) PlayerById(playerId string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerById(playerId)
}

func (g *Game) playerById(playerId string) *Player {
	for _, player := range g.players {
		if player.id == playerId {
			return player
		}
	}
	return nil
}

func (g *Game) PlayerBySession(sessionId string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerBySession(sessionId)
}

func (g *Game) playerBySession(sessionId string) *Player {
	for _, player := range g.players {
		if player.sessionId == sessionId {
			return player
		}
	}
	return nil
}

// PlayerByPlayedCard resolves a card id back to the player whose current
// round move holds it. Nil when there is no current round or no such
// move.
func (g *Game) PlayerByPlayedCard(cardId string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.currentRound == nil {
		return nil
	}
	playerId, found := g.currentRound.playerByPlayedCard(cardId)
	if !found {
		return nil
	}
	return g.playerById(playerId)
}

// HasConnectedSocket reports whether the session belongs to the host or
// any roster player, regardless of the disconnected flag.
func (g *Game) HasConnectedSocket(sessionId string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hostSession == sessionId {
		return true
	}
	return g.playerBySession(sessionId) != nil
}

// Reconnect rebinds an existing player identity to a new session.
func (g *Game) Reconnect(playerId, sessionId string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	player := g.playerById(playerId)
	if player == nil {
		return domain.ErrPlayerNotFound
	}

	player.sessionId = sessionId
	player.disconnected = false
	player.reconnected = true
	return nil
}

// MarkDisconnected flags the player behind the session. The roster entry
// stays, so rotation and move attribution keep working.
func (g *Game) MarkDisconnected(sessionId string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	player := g.playerBySession(sessionId)
	if player == nil {
		return domain.ErrPlayerNotFound
	}
	player.disconnected = true
	return nil
}

// ArmAdvanceTimer replaces any pending round-advance timer with cancel.
func (g *Game) ArmAdvanceTimer(cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.advanceCancel != nil {
		g.advanceCancel()
	}
	g.advanceCancel = cancel
}

// StopAdvanceTimer cancels a pending round advance, if any.
func (g *Game) StopAdvanceTimer() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.advanceCancel != nil {
		g.advanceCancel()
		g.advanceCancel = nil
	}
}
