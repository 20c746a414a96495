// Package loader bulk-loads movetext into a store: rows are parsed in
// parallel by a worker pool, optionally deduplicated, and inserted in
// batches.
package loader

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lgbarn/chessdb-go/internal/errors"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/hashing"
	"github.com/lgbarn/chessdb-go/internal/worker"
)

// maxReportedErrors caps Stats.Errors.
const maxReportedErrors = 100

// Inserter stores a batch of games.
type Inserter interface {
	InsertGames(ctx context.Context, games []*game.Game) ([]string, error)
}

// Options configures a Loader.
type Options struct {
	Workers   int
	BatchSize int
	// Dedupe skips games whose canonical movetext was already loaded by
	// this Loader.
	Dedupe bool
	Logger *slog.Logger
}

// Stats summarises a load.
type Stats struct {
	Loaded     int
	Failed     int
	Duplicates int
	// Errors holds the first per-row failures as *errors.RowError values.
	Errors []error
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Loaded += other.Loaded
	s.Failed += other.Failed
	s.Duplicates += other.Duplicates
	for _, err := range other.Errors {
		if len(s.Errors) >= maxReportedErrors {
			break
		}
		s.Errors = append(s.Errors, err)
	}
}

// Loader parses movetext rows and inserts the resulting games.
type Loader struct {
	store     Inserter
	workers   int
	batchSize int
	dupes     *hashing.ThreadSafeDuplicateDetector
	logger    *slog.Logger
}

// New creates a loader writing to store.
func New(store Inserter, opts Options) *Loader {
	l := &Loader{
		store:     store,
		workers:   max(opts.Workers, 1),
		batchSize: opts.BatchSize,
		logger:    opts.Logger,
	}
	if l.batchSize < 1 {
		l.batchSize = 500
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Dedupe {
		l.dupes = hashing.NewThreadSafeDuplicateDetector(0)
	}
	return l
}

// Load parses and stores texts. Rows that fail to parse are counted and
// skipped; a store failure or cancellation aborts the load and is returned
// with the stats so far.
func (l *Loader) Load(ctx context.Context, texts []string) (Stats, error) {
	return l.load(ctx, "", texts)
}

// LoadFile reads movetext from path, as PGN when pgn is set and otherwise as
// a one-column CSV with a header, and loads it. limit > 0 caps the rows read.
func (l *Loader) LoadFile(ctx context.Context, path string, pgn bool, limit int) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	var texts []string
	if pgn || strings.EqualFold(filepath.Ext(path), ".pgn") {
		texts, err = ExtractMovetext(f)
		if limit > 0 && len(texts) > limit {
			texts = texts[:limit]
		}
	} else {
		texts, err = ReadCSV(f, limit)
	}
	if err != nil {
		return Stats{}, errors.Wrapf(err, "reading %s", path)
	}
	return l.load(ctx, filepath.Base(path), texts)
}

func (l *Loader) load(ctx context.Context, source string, texts []string) (Stats, error) {
	var stats Stats
	l.logger.Info("load started", "source", source, "rows", len(texts), "workers", l.workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := worker.NewPoolWithOptions(worker.ParseRow,
		worker.WithWorkers(l.workers),
		worker.WithBufferSize(l.batchSize))
	pool.Start()

	go func() {
		defer pool.Close()
		for i, text := range texts {
			if err := pool.SubmitContext(ctx, worker.WorkItem{Text: text, Index: i}); err != nil {
				return
			}
		}
	}()

	var (
		batch   []*game.Game
		loadErr error
	)
	flush := func() {
		if len(batch) == 0 || loadErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			loadErr = err
			return
		}
		ids, err := l.store.InsertGames(ctx, batch)
		if err != nil {
			loadErr = errors.Wrapf(err, "inserting batch of %d", len(batch))
			pool.Stop()
			cancel()
			return
		}
		stats.Loaded += len(ids)
		batch = nil
	}

	handle := func(r worker.ProcessResult) {
		if r.Error != nil {
			stats.Failed++
			rowErr := &errors.RowError{Err: r.Error, Row: r.Index + 1, File: source}
			if len(stats.Errors) < maxReportedErrors {
				stats.Errors = append(stats.Errors, rowErr)
			}
			l.logger.Warn("row skipped", "error", rowErr)
			return
		}
		if l.isDuplicate(r.Game) {
			stats.Duplicates++
			return
		}
		batch = append(batch, r.Game)
		if len(batch) >= l.batchSize {
			flush()
		}
	}

	// Results are handled in input order.
	pending := make(map[int]worker.ProcessResult)
	next := 0
	for r := range pool.Results() {
		if loadErr != nil {
			continue
		}
		pending[r.Index] = r
		for {
			ready, ok := pending[next]
			if !ok || loadErr != nil {
				break
			}
			delete(pending, next)
			next++
			handle(ready)
		}
	}
	flush()

	if loadErr == nil {
		loadErr = ctx.Err()
	}
	l.logger.Info("load finished",
		"source", source,
		"loaded", stats.Loaded,
		"failed", stats.Failed,
		"duplicates", stats.Duplicates)
	return stats, loadErr
}

func (l *Loader) isDuplicate(g *game.Game) bool {
	if l.dupes == nil {
		return false
	}
	final, err := g.Board(g.Len())
	if err != nil {
		return false
	}
	return l.dupes.CheckAndAdd(hashing.NewGameSignature(final, g.Len(), g.String()))
}
