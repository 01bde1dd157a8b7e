package game

import (
	"context"
	"math/rand/v2"

	"cardczar/domain"
)

type RoundPhase int

const (
	PHASE_PENDING RoundPhase = iota // constructed, prompt not yet drawn
	PHASE_ACTIVE                    // prompt drawn and persisted, moves collecting
	PHASE_JUDGED                    // winner set, terminal
)

// Round is one judged turn. A new round is always a new instance; a
// Round never leaves PHASE_JUDGED.
type Round struct {
	id      string
	gameId  string
	judgeId string
	prompt  domain.Card
	phase   RoundPhase

	// One entry per non-judge player at construction time, nil until
	// that player moves. The judge is never a key, so a move attempt by
	// the judge surfaces as not-participant. Each entry transitions
	// nil -> set exactly once.
	moves map[string]*domain.Card

	winnerId string

	store GameStore
}

func NewRound(store GameStore, gameId, judgeId string, players []*Player) *Round {
	moves := make(map[string]*domain.Card, len(players))
	for _, player := range players {
		if player.id == judgeId {
			continue
		}
		moves[player.id] = nil
	}

	return &Round{
		gameId:  gameId,
		judgeId: judgeId,
		phase:   PHASE_PENDING,
		moves:   moves,
		store:   store,
	}
}

// Start draws the prompt card and persists the round. Any failure leaves
// the round unusable; callers must discard the instance, never retry it.
func (r *Round) Start(ctx context.Context) error {
	drawn, err := r.store.DrawCards(ctx, r.gameId, domain.CategoryBlack, 1)
	if err != nil {
		return err
	}
	if len(drawn) < 1 {
		return domain.ErrNoCardsAvailable
	}

	id, err := r.store.CreateRound(ctx, r.gameId, drawn[0].Id, r.judgeId)
	if err != nil {
		return err
	}

	r.id = id
	r.prompt = drawn[0]
	r.phase = PHASE_ACTIVE
	return nil
}

func (r *Round) Prompt() domain.Card {
	return r.prompt
}

func (r *Round) JudgeId() string {
	return r.judgeId
}

func (r *Round) WinnerId() string {
	return r.winnerId
}

// MakeMove records the player's card for this round and takes it out of
// their hand. Persistence and the ownership transfer are one logical
// step: if the store write fails, neither the move nor the hand changes.
func (r *Round) MakeMove(ctx context.Context, cardId string, player *Player) error {
	move, participates := r.moves[player.id]
	if !participates {
		return domain.ErrNotParticipant
	}
	if move != nil {
		return domain.ErrAlreadyMoved
	}

	card, held := player.cardInHand(cardId)
	if !held {
		return domain.ErrCardNotHeld
	}

	if err := r.store.RecordMove(ctx, r.id, player.id, cardId); err != nil {
		return err
	}

	r.moves[player.id] = &card
	player.removeCard(cardId)
	return nil
}

// AllMovesMade reports whether every expected mover has played. A round
// with no non-judge players is vacuously complete.
func (r *Round) AllMovesMade() bool {
	for _, move := range r.moves {
		if move == nil {
			return false
		}
	}
	return true
}

// SetWinner is write-once and only legal once every move is in.
func (r *Round) SetWinner(ctx context.Context, player *Player) error {
	if r.winnerId != "" {
		return domain.ErrWinnerAlreadySet
	}
	if !r.AllMovesMade() {
		return domain.ErrRoundNotComplete
	}

	if err := r.store.SetRoundWinner(ctx, r.id, player.id); err != nil {
		return err
	}

	r.winnerId = player.id
	r.phase = PHASE_JUDGED
	return nil
}

// PlayedCards returns the cards played so far, shuffled so the order the
// judge sees cannot leak who played what.
func (r *Round) PlayedCards() []domain.Card {
	played := make([]domain.Card, 0, len(r.moves))
	for _, move := range r.moves {
		if move != nil {
			played = append(played, *move)
		}
	}
	rand.Shuffle(len(played), func(i, j int) {
		played[i], played[j] = played[j], played[i]
	})
	return played
}

// JudgeSession resolves the judge to their current session via the live
// roster, so it reflects reconnects.
func (r *Round) JudgeSession(players []*Player) (string, error) {
	for _, player := range players {
		if player.id == r.judgeId {
			return player.sessionId, nil
		}
	}
	return "", domain.ErrJudgeNotFound
}

func (r *Round) playerByPlayedCard(cardId string) (playerId string, found bool) {
	for id, move := range r.moves {
		if move != nil && move.Id == cardId {
			return id, true
		}
	}
	return "", false
}
