// Package output renders stored games as text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chessdb-go/internal/errors"
	"github.com/lgbarn/chessdb-go/internal/storage"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// GameWriter is the interface for writing stored games to output.
type GameWriter interface {
	// WriteGame writes a single game to the output.
	WriteGame(rec storage.GameRecord) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error
}

// NewWriter returns a writer for format. withMoves adds the per-move detail
// to JSON output.
func NewWriter(format string, w io.Writer, withMoves bool) (GameWriter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTextWriter(w), nil
	case FormatJSON:
		jw := NewJSONWriter(w)
		jw.withMoves = withMoves
		return jw, nil
	default:
		return nil, fmt.Errorf("output format %q: %w", format, errors.ErrInvalidConfig)
	}
}

// WriteAll writes recs with gw and closes it.
func WriteAll(gw GameWriter, recs []storage.GameRecord) error {
	for _, rec := range recs {
		if err := gw.WriteGame(rec); err != nil {
			return err
		}
	}
	return gw.Close()
}

// TextWriter writes one "id<TAB>movetext" line per game.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteGame writes a game line.
func (tw *TextWriter) WriteGame(rec storage.GameRecord) error {
	_, err := fmt.Fprintf(tw.w, "%s\t%s\n", rec.ID, rec.Game.String())
	return err
}

// Flush is a no-op; text lines are written immediately.
func (tw *TextWriter) Flush() error {
	return nil
}

// Close closes the text writer.
func (tw *TextWriter) Close() error {
	return nil
}

// JSONWriter writes games in JSON format.
// It buffers games and writes them as a JSON array on Close or Flush.
type JSONWriter struct {
	w         io.Writer
	games     []storage.GameRecord
	single    bool // If true, write each game immediately instead of batching
	withMoves bool
}

// NewJSONWriter creates a new JSON writer.
// By default, it batches games and writes them as an array on Close().
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// NewJSONWriterSingle creates a JSON writer that writes each game immediately.
func NewJSONWriterSingle(w io.Writer, withMoves bool) *JSONWriter {
	return &JSONWriter{w: w, single: true, withMoves: withMoves}
}

// WriteGame buffers a game for JSON output (or writes immediately in single mode).
func (jw *JSONWriter) WriteGame(rec storage.GameRecord) error {
	if jw.single {
		return jw.encode(GameToJSON(rec, jw.withMoves))
	}
	jw.games = append(jw.games, rec)
	return nil
}

// Flush writes all buffered games as a JSON array. An empty buffer writes
// an empty array.
func (jw *JSONWriter) Flush() error {
	if jw.single {
		return nil
	}

	out := &JSONOutput{Games: make([]*JSONGame, 0, len(jw.games))}
	for _, rec := range jw.games {
		out.Games = append(out.Games, GameToJSON(rec, jw.withMoves))
	}
	jw.games = jw.games[:0]
	return jw.encode(out)
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}

func (jw *JSONWriter) encode(v any) error {
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
