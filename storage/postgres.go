package storage

import (
	"context"
	"errors"
	"fmt"

	"cardczar/domain"
	"cardczar/game"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// "23505" is the PostgreSQL error code for unique_violation
const pgUniqueViolation = "23505"

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (pgs *PostgresStore) Close() {
	pgs.pool.Close()
}

func wrapQueryError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
}

func (pgs *PostgresStore) CreateGame(ctx context.Context, code string) (string, error) {
	row := pgs.pool.QueryRow(ctx, "INSERT INTO games(code) VALUES($1) RETURNING id", code)

	var id string
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", domain.ErrDuplicateGameCode
		}
		return "", wrapQueryError(err)
	}

	return id, nil
}

func (pgs *PostgresStore) MarkGameStarted(ctx context.Context, gameId string) error {
	return pgs.stampGame(ctx, "UPDATE games SET started_at = NOW() WHERE id = $1", gameId)
}

func (pgs *PostgresStore) MarkGameEnded(ctx context.Context, gameId string) error {
	return pgs.stampGame(ctx, "UPDATE games SET ended_at = NOW() WHERE id = $1", gameId)
}

func (pgs *PostgresStore) stampGame(ctx context.Context, query, gameId string) error {
	tag, err := pgs.pool.Exec(ctx, query, gameId)
	if err != nil {
		return wrapQueryError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (pgs *PostgresStore) InsertPlayer(ctx context.Context, sessionId, gameId, nickname string) (string, error) {
	row := pgs.pool.QueryRow(ctx,
		"INSERT INTO players(session_id, game_id, nickname) VALUES($1, $2, $3) RETURNING id",
		sessionId, gameId, nickname)

	var id string
	if err := row.Scan(&id); err != nil {
		return "", wrapQueryError(err)
	}

	return id, nil
}

// DrawCards picks random cards of the category that have not been dealt
// in this game yet and records them as dealt, all in one statement, so a
// card can never be drawn twice for the same game. Returns fewer than
// count when the remaining supply is short.
func (pgs *PostgresStore) DrawCards(ctx context.Context, gameId string, category domain.CardCategory, count int) ([]domain.Card, error) {
	query := `
		WITH picked AS (
			SELECT c.id, c.text, c.category
			FROM cards c
			WHERE c.category = $2
			  AND NOT EXISTS (
			    SELECT 1 FROM deals d WHERE d.game_id = $1 AND d.card_id = c.id
			  )
			ORDER BY RANDOM()
			LIMIT $3
		), recorded AS (
			INSERT INTO deals (game_id, card_id) SELECT $1, id FROM picked
		)
		SELECT id, text, category FROM picked`

	rows, err := pgs.pool.Query(ctx, query, gameId, string(category), count)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	defer rows.Close()

	cards := make([]domain.Card, 0, count)
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(&card.Id, &card.Text, &card.Category); err != nil {
			return nil, wrapQueryError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err)
	}

	return cards, nil
}

func (pgs *PostgresStore) GetCardById(ctx context.Context, cardId string) (domain.Card, error) {
	row := pgs.pool.QueryRow(ctx, "SELECT id, text, category FROM cards WHERE id = $1", cardId)

	var card domain.Card
	if err := row.Scan(&card.Id, &card.Text, &card.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Card{}, domain.ErrCardNotFound
		}
		return domain.Card{}, wrapQueryError(err)
	}

	return card, nil
}

func (pgs *PostgresStore) CreateRound(ctx context.Context, gameId, promptCardId, judgeId string) (string, error) {
	row := pgs.pool.QueryRow(ctx,
		"INSERT INTO rounds(game_id, card_id, czar_id) VALUES($1, $2, $3) RETURNING id",
		gameId, promptCardId, judgeId)

	var id string
	if err := row.Scan(&id); err != nil {
		return "", wrapQueryError(err)
	}

	return id, nil
}

func (pgs *PostgresStore) RecordMove(ctx context.Context, roundId, playerId, cardId string) error {
	_, err := pgs.pool.Exec(ctx,
		"INSERT INTO moves(round_id, player_id, card_id) VALUES($1, $2, $3)",
		roundId, playerId, cardId)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrAlreadyMoved
		}
		return wrapQueryError(err)
	}

	return nil
}

func (pgs *PostgresStore) SetRoundWinner(ctx context.Context, roundId, playerId string) error {
	tag, err := pgs.pool.Exec(ctx, "UPDATE rounds SET winner_id = $1 WHERE id = $2", playerId, roundId)
	if err != nil {
		return wrapQueryError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (pgs *PostgresStore) WinCountsByPlayer(ctx context.Context, gameId string) ([]game.WinCount, error) {
	rows, err := pgs.pool.Query(ctx, `
		SELECT winner_id, COUNT(*) AS wins
		FROM rounds
		WHERE game_id = $1 AND winner_id IS NOT NULL
		GROUP BY winner_id
		ORDER BY wins DESC`, gameId)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	defer rows.Close()

	counts := []game.WinCount{}
	for rows.Next() {
		var count game.WinCount
		if err := rows.Scan(&count.PlayerId, &count.Wins); err != nil {
			return nil, wrapQueryError(err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err)
	}

	return counts, nil
}
