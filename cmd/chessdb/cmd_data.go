package main

import (
	"database/sql"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/loader"
	"github.com/lgbarn/chessdb-go/internal/output"
	"github.com/lgbarn/chessdb-go/internal/storage"
)

func newInitCmd(a *app) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if reset {
				a.store = nil
				if err := s.DeleteDB(); err != nil {
					return err
				}
				if _, err := a.openStore(ctx); err != nil {
					return err
				}
				a.logger.Info("database reset", "path", a.cfg.Storage.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", a.cfg.Storage.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the database file before creating the schema")
	return cmd
}

func newLoadCmd(a *app) *cobra.Command {
	var (
		pgn       bool
		limit     int
		workers   int
		batchSize int
		dedupe    bool
	)
	cmd := &cobra.Command{
		Use:   "load FILE...",
		Short: "Load games from CSV or PGN files",
		Long: `Load parses every game in the given files and stores it with its positions.

Files ending in .pgn (or any file with --pgn) are read as PGN; the tag
sections are skipped and each movetext block becomes one game. Other files
are read as CSV with a header row and the movetext in the first column.
Rows that fail to parse are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			opts := loader.Options{
				Workers:   a.cfg.Load.Workers,
				BatchSize: a.cfg.Load.BatchSize,
				Dedupe:    a.cfg.Load.Dedupe,
				Logger:    a.logger,
			}
			flags := cmd.Flags()
			if flags.Changed("workers") {
				opts.Workers = workers
			}
			if flags.Changed("batch-size") {
				opts.BatchSize = batchSize
			}
			if flags.Changed("dedupe") {
				opts.Dedupe = dedupe
			}
			l := loader.New(s, opts)

			var total loader.Stats
			for _, path := range args {
				stats, err := l.LoadFile(ctx, path, pgn, limit)
				total.Add(stats)
				if err != nil {
					return fmt.Errorf("load %s: %w", path, err)
				}
			}
			for _, rowErr := range total.Errors {
				a.logger.Warn("row skipped", "error", rowErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d, failed %d, duplicates %d\n",
				total.Loaded, total.Failed, total.Duplicates)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&pgn, "pgn", false, "read every file as PGN")
	f.IntVar(&limit, "limit", 0, "read at most this many games per file (0 for all)")
	f.IntVar(&workers, "workers", 0, "parser goroutines (default from CHESSDB_WORKERS)")
	f.IntVar(&batchSize, "batch-size", 0, "games per insert transaction (default from CHESSDB_BATCH_SIZE)")
	f.BoolVar(&dedupe, "dedupe", false, "skip games already loaded in this run")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		outPath   string
		limit     int
		canonical bool
	)
	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Convert PGN files to a one-column movetext CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var texts []string
			for _, path := range args {
				got, err := extractFile(path)
				if err != nil {
					return err
				}
				texts = append(texts, got...)
			}
			if canonical {
				texts = canonicalize(a, texts)
			}
			if limit > 0 && len(texts) > limit {
				texts = texts[:limit]
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := loader.WriteCSV(w, "movetext", texts); err != nil {
				return err
			}
			a.logger.Info("movetext extracted", "files", len(args), "games", len(texts))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&outPath, "output", "o", "", "write the CSV to this file instead of stdout")
	f.IntVar(&limit, "limit", 0, "write at most this many games (0 for all)")
	f.BoolVar(&canonical, "canonical", false, "rewrite movetext in canonical form and drop games that fail to parse")
	return cmd
}

func extractFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loader.ExtractMovetext(f)
}

func canonicalize(a *app, texts []string) []string {
	out := texts[:0]
	for i, text := range texts {
		g, err := game.Parse(text)
		if err != nil {
			a.logger.Warn("game dropped", "game", i+1, "error", err)
			continue
		}
		out = append(out, g.String())
	}
	return out
}

func newGetCmd(a *app) *cobra.Command {
	var positions bool
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Print a stored game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			rec, err := s.GetGame(ctx, args[0])
			if err != nil {
				return err
			}
			if a.outputFormat == output.FormatJSON {
				return output.NewJSONWriterSingle(cmd.OutOrStdout(), positions).WriteGame(*rec)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, rec.Game.String())
			if !positions {
				return nil
			}
			recs, err := s.Positions(ctx, rec.ID)
			if err != nil {
				return err
			}
			for _, p := range recs {
				fmt.Fprintf(out, "%d\t%08x\t%s\n", p.Ply, p.Digest, p.FEN)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&positions, "positions", false, "also print every stored position (every move with --format json)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		from  string
		to    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored games in game order",
		Long: `List prints stored games in the total game order. --from and --to take
movetext and bound the listing to games g with from <= g < to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			lo, err := optionalGame(from)
			if err != nil {
				return err
			}
			hi, err := optionalGame(to)
			if err != nil {
				return err
			}
			recs, err := s.ListRange(ctx, lo, hi, limit)
			if err != nil {
				return err
			}
			return a.writeRecords(cmd, recs, false)
		},
	}
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "inclusive lower bound")
	f.StringVar(&to, "to", "", "exclusive upper bound")
	f.IntVar(&limit, "limit", 0, "print at most this many games (0 for all)")
	return cmd
}

func newSearchPositionCmd(a *app) *cobra.Command {
	var (
		maxHalfMove int
		scan        bool
	)
	cmd := &cobra.Command{
		Use:   "search-position FEN",
		Short: "List stored games that reach a position",
		Long: `Search-position lists the stored games whose piece placement matches FEN
at some ply. --max bounds the ply; without it every ply is searched.

By default the digest index narrows the candidates and each one is checked
against the exact placement. --scan evaluates hasBoard over every game
instead, which compares digests only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			board, err := engine.ParsePosition(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max") {
				maxHalfMove = math.MaxInt32
			}
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			var recs []storage.GameRecord
			if scan {
				recs, err = s.ScanByBoard(ctx, board, maxHalfMove)
			} else {
				recs, err = s.FindByPosition(ctx, board, maxHalfMove)
			}
			if err != nil {
				return err
			}
			return a.writeRecords(cmd, recs, false)
		},
	}
	f := cmd.Flags()
	f.IntVar(&maxHalfMove, "max", 0, "only match positions within this many half-moves")
	f.BoolVar(&scan, "scan", false, "scan every game instead of using the position index")
	return cmd
}

func newSearchOpeningCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search-opening OPENING",
		Short: "List stored games that start with an opening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opening, err := game.Parse(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			recs, err := s.FindByOpening(ctx, opening)
			if err != nil {
				return err
			}
			return a.writeRecords(cmd, recs, false)
		},
	}
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query SQL [ARG...]",
		Short: "Run SQL against the database with the chess functions registered",
		Example: `  chessdb query "SELECT getBoard(movetext, 2) FROM games"
  chessdb query "SELECT game_id FROM games WHERE hasOpening(movetext, ?)" "1. e4 c5"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			params := make([]any, 0, len(args)-1)
			for _, p := range args[1:] {
				params = append(params, p)
			}
			rows, err := s.DB().QueryContext(ctx, args[0], params...)
			if err != nil {
				return err
			}
			return printRows(cmd.OutOrStdout(), rows)
		},
	}
}

func optionalGame(text string) (*game.Game, error) {
	if text == "" {
		return nil, nil
	}
	return game.Parse(text)
}

// writeRecords renders recs in the configured output format.
func (a *app) writeRecords(cmd *cobra.Command, recs []storage.GameRecord, withMoves bool) error {
	gw, err := output.NewWriter(a.outputFormat, cmd.OutOrStdout(), withMoves)
	if err != nil {
		return err
	}
	return output.WriteAll(gw, recs)
}

// printRows writes a header of column names and one tab-separated line per
// row. NULL values print as NULL.
func printRows(w io.Writer, rows *sql.Rows) error {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, strings.Join(cols, "\t"))

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	fields := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				fields[i] = "NULL"
			case []byte:
				fields[i] = string(v)
			default:
				fields[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}
	return rows.Err()
}
