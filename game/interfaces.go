package game

import (
	"context"
	"time"

	"cardczar/domain"
)

// GameStore is the durable store collaborator. In-memory state is the
// source of truth; the store is kept eventually consistent with it, so
// every mutation persists first and applies in memory only on success.
type GameStore interface {
	CreateGame(ctx context.Context, code string) (string, error)
	MarkGameStarted(ctx context.Context, gameId string) error
	MarkGameEnded(ctx context.Context, gameId string) error
	InsertPlayer(ctx context.Context, sessionId, gameId, nickname string) (string, error)
	// DrawCards returns up to count random cards of the given category
	// that have not yet been dealt in this game.
	DrawCards(ctx context.Context, gameId string, category domain.CardCategory, count int) ([]domain.Card, error)
	GetCardById(ctx context.Context, cardId string) (domain.Card, error)
	CreateRound(ctx context.Context, gameId, promptCardId, judgeId string) (string, error)
	RecordMove(ctx context.Context, roundId, playerId, cardId string) error
	SetRoundWinner(ctx context.Context, roundId, playerId string) error
	// WinCountsByPlayer is ordered by wins descending.
	WinCountsByPlayer(ctx context.Context, gameId string) ([]WinCount, error)
}

type WinCount struct {
	PlayerId string
	Wins     int
}

type NetworkSession interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type UniqueCodeGenerator interface {
	Generate() string
	Dispose(code string)
}

// RoundScheduler runs fn once after the delay. The returned cancel stops
// a not-yet-fired timer.
type RoundScheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}
