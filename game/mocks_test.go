package game

import (
	"context"
	"time"

	"cardczar/domain"

	"github.com/stretchr/testify/mock"
)

// --- GameStore ---

type MockGameStore struct {
	mock.Mock
}

func (m *MockGameStore) CreateGame(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockGameStore) MarkGameStarted(ctx context.Context, gameId string) error {
	args := m.Called(ctx, gameId)
	return args.Error(0)
}

func (m *MockGameStore) MarkGameEnded(ctx context.Context, gameId string) error {
	args := m.Called(ctx, gameId)
	return args.Error(0)
}

func (m *MockGameStore) InsertPlayer(ctx context.Context, sessionId, gameId, nickname string) (string, error) {
	args := m.Called(ctx, sessionId, gameId, nickname)
	return args.String(0), args.Error(1)
}

func (m *MockGameStore) DrawCards(ctx context.Context, gameId string, category domain.CardCategory, count int) ([]domain.Card, error) {
	args := m.Called(ctx, gameId, category, count)
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockGameStore) GetCardById(ctx context.Context, cardId string) (domain.Card, error) {
	args := m.Called(ctx, cardId)
	return args.Get(0).(domain.Card), args.Error(1)
}

func (m *MockGameStore) CreateRound(ctx context.Context, gameId, promptCardId, judgeId string) (string, error) {
	args := m.Called(ctx, gameId, promptCardId, judgeId)
	return args.String(0), args.Error(1)
}

func (m *MockGameStore) RecordMove(ctx context.Context, roundId, playerId, cardId string) error {
	args := m.Called(ctx, roundId, playerId, cardId)
	return args.Error(0)
}

func (m *MockGameStore) SetRoundWinner(ctx context.Context, roundId, playerId string) error {
	args := m.Called(ctx, roundId, playerId)
	return args.Error(0)
}

func (m *MockGameStore) WinCountsByPlayer(ctx context.Context, gameId string) ([]WinCount, error) {
	args := m.Called(ctx, gameId)
	return args.Get(0).([]WinCount), args.Error(1)
}

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(reason string) {
	m.Called(reason)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- UniqueCodeGenerator ---

type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCodeGenerator) Dispose(code string) {
	m.Called(code)
}

// --- RoundScheduler ---

// fakeScheduler captures the scheduled callback so tests can fire or
// cancel it deterministically.
type fakeScheduler struct {
	delay    time.Duration
	fn       func()
	canceled bool
}

func (f *fakeScheduler) Schedule(delay time.Duration, fn func()) (cancel func()) {
	f.delay = delay
	f.fn = fn
	f.canceled = false
	return func() { f.canceled = true }
}

func (f *fakeScheduler) fire() {
	if f.canceled || f.fn == nil {
		return
	}
	f.fn()
}
