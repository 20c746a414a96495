package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessdb-go/internal/eco"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/index"
	"github.com/lgbarn/chessdb-go/internal/processing"
)

// negativeCountHelp is shared by the commands taking a numeric argument.
// Flag parsing reads "-1" as a shorthand flag; negative values go after --.
const negativeCountHelp = `Pass a negative count after "--" so it is not read as a flag:
  chessdb %s`

func newBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "board GAME N",
		Short:   "Print the FEN of the position after N half-moves",
		Long:    "Print the FEN of the position after N half-moves.\n\n" + fmt.Sprintf(negativeCountHelp, `board "1. e4" -- -1`),
		Example: `  chessdb board "1. e4 e5 2. Nf3" 2`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := game.Parse(args[0])
			if err != nil {
				return err
			}
			n, err := intArg("N", args[1])
			if err != nil {
				return err
			}
			board, err := game.Reconstruct(g, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), engine.BoardToFEN(board))
			return nil
		},
	}
}

func newFirstMovesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "first-moves GAME K",
		Short: "Print the first K half-moves of a game",
		Long:  "Print the first K half-moves of a game.\n\n" + fmt.Sprintf(negativeCountHelp, `first-moves "1. e4 e5" -- -1`),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := game.Parse(args[0])
			if err != nil {
				return err
			}
			k, err := intArg("K", args[1])
			if err != nil {
				return err
			}
			res, err := g.Truncate(k)
			if err != nil {
				return err
			}
			if res.Outcome == game.PartiallyTruncated {
				a.logger.Warn("truncation stopped early", "result", res.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Game.String())
			return nil
		},
	}
}

func newHasOpeningCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has-opening GAME OPENING",
		Short: "Report whether GAME starts with the moves of OPENING",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := game.Parse(args[0])
			if err != nil {
				return err
			}
			opening, err := game.Parse(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), game.HasOpening(g, opening))
			return nil
		},
	}
}

func newHasBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has-board GAME FEN N",
		Short: "Report whether GAME reaches the position FEN within its first N half-moves",
		Long: "Report whether GAME reaches the position FEN within its first N half-moves.\n" +
			"A negative N reports false.\n\n" + fmt.Sprintf(negativeCountHelp, `has-board "1. e4" FEN -- -1`),
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := game.Parse(args[0])
			if err != nil {
				return err
			}
			board, err := engine.ParsePosition(args[1])
			if err != nil {
				return err
			}
			n, err := intArg("N", args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), game.ContainsPosition(g, board, n))
			return nil
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare GAME1 GAME2",
		Short: "Print -1, 0 or 1 as GAME1 sorts before, equal to or after GAME2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g1, err := game.Parse(args[0])
			if err != nil {
				return err
			}
			g2, err := game.Parse(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), game.Compare(g1, g2))
			return nil
		},
	}
}

func newFunctionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the registered chess operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := index.NewRegistry()
			if err := reg.RegisterDefaults(); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFAMILY\tSIGNATURE")
			for _, op := range reg.Operations() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", op.Name, op.Family, op.Signature)
			}
			return tw.Flush()
		},
	}
}

func intArg(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, s)
	}
	return n, nil
}

func newClassifyCmd(a *app) *cobra.Command {
	var ecoFile string
	cmd := &cobra.Command{
		Use:   "classify --eco FILE [GAME...]",
		Short: "Print the ECO classification of games",
		Long: `Classify matches games against the ECO lines in a PGN file. Each line of
output is the game followed by its ECO code and names, or "-" when no line
matches. Without GAME arguments every stored game is classified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ec := eco.NewECOClassifier()
			if err := ec.LoadFromFile(ecoFile); err != nil {
				return err
			}
			a.logger.Debug("ECO lines loaded", "file", ecoFile, "entries", ec.EntriesLoaded())

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, text := range args {
					g, err := game.Parse(text)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\t%s\n", g.String(), classification(ec, g))
				}
				return nil
			}

			ctx := cmd.Context()
			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			recs, err := s.ListRange(ctx, nil, nil, 0)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				fmt.Fprintf(out, "%s\t%s\n", rec.ID, classification(ec, rec.Game))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ecoFile, "eco", "", "PGN file of ECO lines")
	_ = cmd.MarkFlagRequired("eco")
	return cmd
}

func classification(ec *eco.ECOClassifier, g *game.Game) string {
	if match := ec.ClassifyGame(g); match != nil {
		return match.String()
	}
	return "-"
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze GAME",
		Short: "Report draw rules, repetitions and the final state of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := game.Parse(args[0])
			if err != nil {
				return err
			}
			an := processing.AnalyzeGame(g)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
			fmt.Fprintf(tw, "plies:\t%d\n", an.PlyCount)
			fmt.Fprintf(tw, "final:\t%s\n", engine.BoardToFEN(an.FinalBoard))
			fmt.Fprintf(tw, "checkmate:\t%t\n", an.Checkmate)
			fmt.Fprintf(tw, "stalemate:\t%t\n", an.Stalemate)
			fmt.Fprintf(tw, "repetition:\t%t\n", an.RepetitionDetected())
			fmt.Fprintf(tw, "fifty-move:\t%t\n", an.FiftyMoveTriggered())
			fmt.Fprintf(tw, "insufficient-material:\t%t\n", an.HasInsufficientMaterial)
			fmt.Fprintf(tw, "underpromotion:\t%t\n", an.UnderpromotionFound())
			return tw.Flush()
		},
	}
}
