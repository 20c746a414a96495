package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessdb-go/internal/config"
	"github.com/lgbarn/chessdb-go/internal/output"
	"github.com/lgbarn/chessdb-go/internal/storage"
)

// app is the state shared by every command of one invocation. Nested
// invocations from batch reuse the parent's app, so they see the same
// configuration and the same open store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *storage.Store
	// outputFormat is the --format value captured at setup.
	outputFormat string

	// depth counts batch nesting; only the outermost root closes the store.
	depth int

	dbPath      string
	logLevel    string
	logFormat   string
	wal         bool
	legacyMatch bool
	format      string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "chessdb",
		Short: "Store chess games in SQLite and query them by position and opening",
		Long: `chessdb loads chess games into a SQLite database and answers questions
about them: the position after N half-moves, whether a game starts with an
opening, which stored games reach a position.

The database connection registers the chess functions (getBoard,
getFirstMoves, hasOpening, hasBoard, the chessgame ordering operators) and
the CHESSGAME collation, so the same operations are available from SQL
through the query command.

Configuration comes from CHESSDB_* environment variables, overridden by
flags.`,
		Version:           programVersion,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.depth > 0 {
				return nil
			}
			return a.closeStore()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dbPath, "db", "", "database file (default from CHESSDB_PATH)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVar(&a.wal, "wal", true, "enable write-ahead logging for file databases")
	pf.BoolVar(&a.legacyMatch, "legacy-match", false, "trust position digests without rechecking the placement")
	pf.StringVar(&a.format, "format", output.FormatText, "game listing format: text or json")

	root.AddCommand(
		newInitCmd(a),
		newLoadCmd(a),
		newExtractCmd(a),
		newGetCmd(a),
		newListCmd(a),
		newSearchPositionCmd(a),
		newSearchOpeningCmd(a),
		newQueryCmd(a),
		newBoardCmd(a),
		newFirstMovesCmd(a),
		newHasOpeningCmd(a),
		newHasBoardCmd(a),
		newCompareCmd(a),
		newClassifyCmd(a),
		newAnalyzeCmd(a),
		newFunctionsCmd(a),
		newBatchCmd(a),
	)
	return root
}

// setup builds the configuration and logger once per app.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	b := config.NewConfigBuilderFrom(cfg)
	flags := cmd.Flags()
	if flags.Changed("db") {
		b.WithDatabase(a.dbPath)
	}
	if flags.Changed("log-level") {
		b.WithLogLevel(a.logLevel)
	}
	if flags.Changed("log-format") {
		b.WithLogFormat(a.logFormat)
	}
	if flags.Changed("wal") {
		b.WithWAL(a.wal)
	}
	if flags.Changed("legacy-match") {
		b.WithLegacyMatch(a.legacyMatch)
	}
	cfg = b.Build()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.outputFormat = strings.ToLower(a.format)
	return nil
}

// openStore returns the app's store, opening it and creating the schema on
// first use.
func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := storage.Open(a.cfg.Storage.Path, storage.Options{
		WAL:         a.cfg.Storage.WAL,
		LegacyMatch: a.cfg.Storage.LegacyMatch,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}
	if err := s.InitDB(ctx); err != nil {
		s.Close()
		return nil, err
	}
	a.logger.Debug("database opened", "path", a.cfg.Storage.Path)
	a.store = s
	return s, nil
}

func (a *app) closeStore() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
