// Package storage persists games in SQLite with a total-order index over
// canonical movetext and an inverted index over position digests.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/errors"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/index"
	"github.com/lgbarn/chessdb-go/internal/sqlfunc"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options configures Open.
type Options struct {
	// WAL enables write-ahead logging for file databases.
	WAL bool
	// LegacyMatch trusts digest matches in FindByPosition without the exact
	// placement recheck.
	LegacyMatch bool
	Logger      *slog.Logger
}

// Store handles SQLite database operations for games.
type Store struct {
	db          *sql.DB
	path        string
	legacyMatch bool
	logger      *slog.Logger
}

// Open connects to the database at path through the chess-aware driver.
func Open(path string, opts Options) (*Store, error) {
	sqlfunc.Register()

	db, err := sql.Open(sqlfunc.DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(8)
		db.SetMaxIdleConns(4)
	}

	if opts.WAL && path != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{db: db, path: path, legacyMatch: opts.LegacyMatch, logger: logger}, nil
}

// DB returns the underlying handle for ad hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitDB creates the database schema.
func (s *Store) InitDB(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

// DeleteDB closes the store and removes the database file.
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if s.path == MemoryPath {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}
	return nil
}

// InsertGame stores g and its positions, returning the new game id.
func (s *Store) InsertGame(ctx context.Context, g *game.Game) (string, error) {
	ids, err := s.InsertGames(ctx, []*game.Game{g})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertGames stores games in one transaction. Either all are stored or
// none are.
func (s *Store) InsertGames(ctx context.Context, games []*game.Game) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	gameStmt, err := tx.PrepareContext(ctx, `INSERT INTO games (game_id, movetext, half_moves, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer gameStmt.Close()

	posStmt, err := tx.PrepareContext(ctx, `INSERT INTO game_positions (game_id, ply, digest, fen) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer posStmt.Close()

	now := time.Now().UTC()
	ids := make([]string, 0, len(games))
	for _, g := range games {
		id := uuid.New().String()
		if _, err := gameStmt.ExecContext(ctx, id, g.String(), g.Len(), now); err != nil {
			return nil, fmt.Errorf("insert game: %w", err)
		}
		for _, key := range index.ExtractKeys(g) {
			if _, err := posStmt.ExecContext(ctx, id, key.Ply, int64(key.Digest), engine.BoardToFEN(key.Position)); err != nil {
				return nil, fmt.Errorf("insert position %d: %w", key.Ply, err)
			}
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.logger.Debug("games stored", "count", len(ids))
	return ids, nil
}

// GetGame loads a game by id. A missing id is errors.ErrNotFound.
func (s *Store) GetGame(ctx context.Context, id string) (*GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT game_id, movetext, half_moves, created_at FROM games WHERE game_id = ?`, id)
	rec, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", id, errors.ErrNotFound)
	}
	return rec, err
}

// Positions returns the stored positions of a game in ply order.
func (s *Store) Positions(ctx context.Context, id string) ([]PositionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT game_id, ply, digest, fen FROM game_positions WHERE game_id = ? ORDER BY ply`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PositionRecord
	for rows.Next() {
		var p PositionRecord
		var digest int64
		if err := rows.Scan(&p.GameID, &p.Ply, &digest, &p.FEN); err != nil {
			return nil, err
		}
		p.Digest = uint32(digest)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of stored games.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*GameRecord, error) {
	var (
		rec  GameRecord
		text string
	)
	if err := row.Scan(&rec.ID, &text, &rec.HalfMoves, &rec.CreatedAt); err != nil {
		return nil, err
	}
	g, err := game.Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "stored game %s", rec.ID)
	}
	rec.Game = g
	return &rec, nil
}

func collectGames(rows *sql.Rows) ([]GameRecord, error) {
	defer rows.Close()
	var out []GameRecord
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// digestOf returns the inverted-index lookup key for board.
func digestOf(board *chess.Board) (uint32, error) {
	keys, err := index.ExtractQueryKeys(board, index.StrategyContains)
	if err != nil {
		return 0, err
	}
	return keys[0].Digest, nil
}
