package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Run the commands listed in a file against one database connection",
		Long: `Batch reads FILE line by line and runs each line as a chessdb command,
for example:

  # load, then query
  load games.csv
  search-opening "1. e4 c5"
  board "1. d4 d5 2. c4" 3

Blank lines and lines starting with # are skipped. Arguments are split on
whitespace; single or double quotes group words. All commands share the
global flags and the open database, so a batch works with --db :memory:.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := loadCommandFile(args[0])
			if err != nil {
				return err
			}

			a.depth++
			defer func() { a.depth-- }()

			failed := 0
			for _, line := range lines {
				if len(line.args) > 0 && line.args[0] == "batch" {
					return fmt.Errorf("%s:%d: batch cannot be nested", args[0], line.num)
				}
				child := newRootCmd(a)
				child.SetArgs(line.args)
				child.SetOut(cmd.OutOrStdout())
				child.SetErr(cmd.ErrOrStderr())
				if err := child.ExecuteContext(cmd.Context()); err != nil {
					if !keepGoing {
						return fmt.Errorf("%s:%d: %w", args[0], line.num, err)
					}
					a.logger.Warn("batch command failed", "line", line.num, "error", err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d batch commands failed", failed, len(lines))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue after a failing command")
	return cmd
}

type commandLine struct {
	num  int
	args []string
}

// loadCommandFile reads the non-empty, non-comment lines of path.
func loadCommandFile(path string) ([]commandLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []commandLine
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	num := 0
	for sc.Scan() {
		num++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, commandLine{num: num, args: splitArgsLine(line)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// splitArgsLine splits a line on spaces and tabs. Single or double quotes
// group words into one argument and are removed.
func splitArgsLine(line string) []string {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, current.String())
	}
	return args
}
