package domain

import "errors"

var UnexpectedDatabaseError = errors.New("database-error")

// Validation errors: bad input or failed lookups. Reported to the
// originating connection only.
var (
	ErrInvalidGameCode   = errors.New("invalid-game-code")
	ErrDuplicateGameCode = errors.New("duplicate-game-code")
	ErrGameNotFound      = errors.New("game-not-found")
	ErrPlayerNotFound    = errors.New("player-not-found")
	ErrCardNotFound      = errors.New("card-not-found")
	ErrAlreadyInGame     = errors.New("already-in-game")
	ErrNotHosting        = errors.New("not-hosting")
	ErrNotParticipant    = errors.New("not-participant")
	ErrJudgeNotFound     = errors.New("judge-not-found")
)

// State conflicts: the action is well-formed but the aggregate is not in
// a state that permits it. State is left unchanged.
var (
	ErrAlreadyStarted   = errors.New("game-already-started")
	ErrNotStarted       = errors.New("game-not-started")
	ErrNotEnoughPlayers = errors.New("not-enough-players")
	ErrNoWinner         = errors.New("no-winner")
	ErrAlreadyMoved     = errors.New("already-moved")
	ErrCardNotHeld      = errors.New("card-not-held")
	ErrRoundNotComplete = errors.New("round-not-complete")
	ErrWinnerAlreadySet = errors.New("winner-already-set")
	ErrNoActiveRound    = errors.New("no-active-round")
	ErrNoCardsAvailable = errors.New("no-cards-available")
)

var validationErrors = []error{
	ErrInvalidGameCode,
	ErrDuplicateGameCode,
	ErrGameNotFound,
	ErrPlayerNotFound,
	ErrCardNotFound,
	ErrAlreadyInGame,
	ErrNotHosting,
	ErrNotParticipant,
	ErrJudgeNotFound,
}

var stateConflictErrors = []error{
	ErrAlreadyStarted,
	ErrNotStarted,
	ErrNotEnoughPlayers,
	ErrNoWinner,
	ErrAlreadyMoved,
	ErrCardNotHeld,
	ErrRoundNotComplete,
	ErrWinnerAlreadySet,
	ErrNoActiveRound,
	ErrNoCardsAvailable,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsValidation(err error) bool {
	return isAny(err, validationErrors)
}

func IsStateConflict(err error) bool {
	return isAny(err, stateConflictErrors)
}

func IsPersistence(err error) bool {
	return errors.Is(err, UnexpectedDatabaseError)
}
