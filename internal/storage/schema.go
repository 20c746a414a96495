package storage

import (
	"time"

	"github.com/lgbarn/chessdb-go/internal/game"
)

// GameRecord is a row of the games table.
type GameRecord struct {
	ID        string
	Game      *game.Game
	HalfMoves int
	CreatedAt time.Time
}

// PositionRecord is a row of the game_positions table: the position after
// Ply half-moves of a stored game.
type PositionRecord struct {
	GameID string
	Ply    int
	Digest uint32
	FEN    string
}

// Schema defines the SQLite database structure. The movetext column sorts
// under the CHESSGAME collation, so its index is the total-order index;
// game_positions is the digest-keyed inverted index.
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	movetext TEXT NOT NULL COLLATE CHESSGAME,
	half_moves INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_games_movetext ON games(movetext);

CREATE TABLE IF NOT EXISTS game_positions (
	game_id TEXT NOT NULL,
	ply INTEGER NOT NULL,
	digest INTEGER NOT NULL,
	fen TEXT NOT NULL,
	PRIMARY KEY (game_id, ply),
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_game_positions_digest ON game_positions(digest);
`
