package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/index"
)

// FindByPosition returns the games in which board's placement occurs within
// the first maxHalfMove half-moves, in game order. Candidates come from the
// digest index and are refined with index.MatchRefine.
func (s *Store) FindByPosition(ctx context.Context, board *chess.Board, maxHalfMove int) ([]GameRecord, error) {
	if maxHalfMove < 0 {
		return nil, nil
	}
	digest, err := digestOf(board)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.game_id, p.ply, p.fen
		FROM game_positions p
		WHERE p.digest = ? AND p.ply <= ?
		ORDER BY p.game_id, p.ply`, int64(digest), maxHalfMove)
	if err != nil {
		return nil, err
	}

	candidates := make(map[string][]index.Key)
	var order []string
	for rows.Next() {
		var (
			id  string
			ply int
			fen string
		)
		if err := rows.Scan(&id, &ply, &fen); err != nil {
			rows.Close()
			return nil, err
		}
		pos, err := engine.ParsePosition(fen)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("stored position %s/%d: %w", id, ply, err)
		}
		if _, seen := candidates[id]; !seen {
			order = append(order, id)
		}
		candidates[id] = append(candidates[id], index.Key{Ply: ply, Digest: digest, Position: pos})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refine := index.LegacyTrust(s.legacyMatch)
	var out []GameRecord
	for _, id := range order {
		keys := candidates[id]
		if !index.MatchRefine(index.MatchDigest(keys, digest), keys, board, refine) {
			continue
		}
		rec, err := s.GetGame(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	sortByGame(out)

	s.logger.Debug("position lookup",
		"digest", digest,
		"candidates", len(order),
		"matches", len(out))
	return out, nil
}

// ScanByBoard answers the same question as FindByPosition with a sequential
// scan through the hasBoard SQL function. Matching compares digests only.
func (s *Store) ScanByBoard(ctx context.Context, board *chess.Board, maxHalfMove int) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, movetext, half_moves, created_at
		FROM games
		WHERE hasBoard(movetext, ?, ?)
		ORDER BY movetext`, engine.BoardToFEN(board), maxHalfMove)
	if err != nil {
		return nil, err
	}
	return collectGames(rows)
}

// FindByOpening returns the games whose opening moves match opening, via the
// hasOpening SQL function.
func (s *Store) FindByOpening(ctx context.Context, opening *game.Game) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, movetext, half_moves, created_at
		FROM games
		WHERE hasOpening(movetext, ?)
		ORDER BY movetext`, opening.String())
	if err != nil {
		return nil, err
	}
	return collectGames(rows)
}

// ListRange returns games g with from <= g < to in the total order, using
// the movetext index. A nil bound is open. limit <= 0 means no limit.
func (s *Store) ListRange(ctx context.Context, from, to *game.Game, limit int) ([]GameRecord, error) {
	query := `SELECT game_id, movetext, half_moves, created_at FROM games WHERE 1 = 1`
	var args []any
	if from != nil {
		query += ` AND movetext >= ?`
		args = append(args, from.String())
	}
	if to != nil {
		query += ` AND movetext < ?`
		args = append(args, to.String())
	}
	query += ` ORDER BY movetext`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectGames(rows)
}

// sortByGame orders records by the game total order, ties by id.
func sortByGame(recs []GameRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if c := game.Compare(recs[i].Game, recs[j].Game); c != 0 {
			return c < 0
		}
		return recs[i].ID < recs[j].ID
	})
}
