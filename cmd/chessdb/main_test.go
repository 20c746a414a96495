package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/errors"
	"github.com/lgbarn/chessdb-go/internal/game"
	"github.com/lgbarn/chessdb-go/internal/output"
	"github.com/lgbarn/chessdb-go/internal/testutil"
)

// run executes one chessdb invocation and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(&app{})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("chessdb %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func fenAfter(t *testing.T, text string, n int) string {
	t.Helper()
	board, err := game.Reconstruct(testutil.MustParseGame(t, text), n)
	if err != nil {
		t.Fatal(err)
	}
	return engine.BoardToFEN(board)
}

func TestSplitArgsLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple args", "a b c", []string{"a", "b", "c"}},
		{"double quoted string", `"hello world" foo`, []string{"hello world", "foo"}},
		{"single quoted string", `'hello world' foo`, []string{"hello world", "foo"}},
		{"mixed quotes", `"hello world" 'foo bar' baz`, []string{"hello world", "foo bar", "baz"}},
		{"empty string", "", nil},
		{"tabs as separators", "a\tb\tc", []string{"a", "b", "c"}},
		{"multiple spaces", "a   b   c", []string{"a", "b", "c"}},
		{"leading and trailing spaces", "  a b  ", []string{"a", "b"}},
		{"movetext argument", `search-opening "1. e4 c5"`, []string{"search-opening", "1. e4 c5"}},
		{"empty quotes", `a "" b`, []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitArgsLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitArgsLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestLoadCommandFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cmds.txt", `# comment
board "1. e4 e5" 1

  # indented comment
compare "1. e4" "1. d4"
`)

	got, err := loadCommandFile(path)
	testutil.AssertNoError(t, err)
	want := []commandLine{
		{num: 2, args: []string{"board", "1. e4 e5", "1"}},
		{num: 5, args: []string{"compare", "1. e4", "1. d4"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("loadCommandFile() = %+v, want %+v", got, want)
	}

	if _, err := loadCommandFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("loadCommandFile() on a missing file: expected error")
	}
}

func TestBoardCmd(t *testing.T) {
	testutil.AssertEqual(t, mustRun(t, "board", "1. e4 e5 2. Nf3", "0"), engine.InitialFEN+"\n")
	testutil.AssertEqual(t, mustRun(t, "board", "1.e4 e5 2.Nf3", "3"), fenAfter(t, "1. e4 e5 2. Nf3", 3)+"\n")

	_, err := run(t, "board", "1. e4", "2")
	testutil.AssertErrorIs(t, err, errors.ErrRange)

	_, err = run(t, "board", "1. e4", "two")
	testutil.AssertError(t, err)

	_, err = run(t, "board", "1. e4 e5 2. Ke3", "1")
	testutil.AssertErrorIs(t, err, errors.ErrParse)
}

func TestFirstMovesCmd(t *testing.T) {
	testutil.AssertEqual(t, mustRun(t, "first-moves", "1. e4 e5 2. Nf3 Nc6", "2"), "1. e4 e5\n")
	testutil.AssertEqual(t, mustRun(t, "first-moves", "1. e4 e5", "10"), "1. e4 e5\n")

	_, err := run(t, "first-moves", "1. e4 e5", "--", "-1")
	testutil.AssertErrorIs(t, err, errors.ErrRange)
}

func TestNegativeCountArgs(t *testing.T) {
	_, err := run(t, "board", "1. e4", "--", "-1")
	testutil.AssertErrorIs(t, err, errors.ErrRange)

	testutil.AssertEqual(t, mustRun(t, "has-board", "1. e4", engine.InitialFEN, "--", "-1"), "false\n")

	// Without the separator the count is taken for a flag.
	_, err = run(t, "first-moves", "1. e4 e5", "-1")
	testutil.AssertError(t, err)
	testutil.AssertNotContains(t, err.Error(), "out of range")

	dir := t.TempDir()
	script := writeFile(t, dir, "cmds.txt", "first-moves \"1. e4 e5\" -- -1\n")
	_, err = run(t, "--db", ":memory:", "batch", script)
	testutil.AssertErrorIs(t, err, errors.ErrRange)
}

func TestPredicateCmds(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"has opening", []string{"has-opening", "1. e4 e5 2. Nf3", "1. e4 e5"}, "true\n"},
		{"opening differs", []string{"has-opening", "1. e4 e5 2. Nf3", "1. d4"}, "false\n"},
		{"has board", []string{"has-board", "1. e4 e5 2. Nf3", fenAfter(t, "1. e4 e5", 2), "3"}, "true\n"},
		{"board beyond bound", []string{"has-board", "1. e4 e5 2. Nf3", fenAfter(t, "1. e4 e5", 2), "1"}, "false\n"},
		{"compare greater", []string{"compare", "1. e4", "1. d4"}, "1\n"},
		{"compare equal", []string{"compare", "1.e4 e5", "1. e4 e5"}, "0\n"},
		{"compare less", []string{"compare", "1. d4", "1. e4"}, "-1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, mustRun(t, tt.args...), tt.want)
		})
	}

	_, err := run(t, "has-board", "1. e4", "not a fen", "1")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidFEN)
}

func TestFunctionsCmd(t *testing.T) {
	out := mustRun(t, "functions")
	got := lines(out)
	testutil.AssertTrue(t, len(got) == 14, "header plus 13 operations, got %d lines", len(got))
	for _, name := range []string{"getBoard", "getFirstMoves", "hasBoard", "hasOpening", "chessgame_cmp", "matchRefine"} {
		testutil.AssertTrue(t, strings.Contains(out, name), "functions output lists %s", name)
	}
}

func TestLoadAndQuery(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "games.sqlite")
	csv := writeFile(t, dir, "games.csv", `movetext
"1. e4 e5 2. Nf3 Nc6"
"1. e4 c5 2. Nf3"
"1. d4 d5 2. c4"
"1. e4 e5 2. Ke3"
`)

	mustRun(t, "--db", db, "init")
	testutil.AssertEqual(t, mustRun(t, "--db", db, "load", csv), "loaded 3, failed 1, duplicates 0\n")

	t.Run("search opening", func(t *testing.T) {
		got := lines(mustRun(t, "--db", db, "search-opening", "1. e4"))
		testutil.AssertEqual(t, len(got), 2)
	})

	t.Run("search position", func(t *testing.T) {
		fen := fenAfter(t, "1. e4 e5", 2)
		indexed := lines(mustRun(t, "--db", db, "search-position", fen))
		scanned := lines(mustRun(t, "--db", db, "search-position", "--scan", fen))
		testutil.AssertEqual(t, len(indexed), 1)
		testutil.AssertEqual(t, indexed, scanned)
		testutil.AssertTrue(t, strings.HasSuffix(indexed[0], "\t1. e4 e5 2. Nf3 Nc6"), "got %q", indexed[0])

		none := lines(mustRun(t, "--db", db, "search-position", "--max", "1", fen))
		testutil.AssertEqual(t, len(none), 0)
	})

	t.Run("list in game order", func(t *testing.T) {
		var got []string
		for _, l := range lines(mustRun(t, "--db", db, "list")) {
			got = append(got, strings.SplitN(l, "\t", 2)[1])
		}
		testutil.AssertEqual(t, got, []string{"1. d4 d5 2. c4", "1. e4 c5 2. Nf3", "1. e4 e5 2. Nf3 Nc6"})

		limited := lines(mustRun(t, "--db", db, "list", "--from", "1. e4", "--limit", "1"))
		testutil.AssertEqual(t, len(limited), 1)
		testutil.AssertTrue(t, strings.HasSuffix(limited[0], "\t1. e4 c5 2. Nf3"), "got %q", limited[0])
	})

	t.Run("json listing", func(t *testing.T) {
		var got output.JSONOutput
		raw := mustRun(t, "--db", db, "--format", "json", "search-opening", "1. d4")
		if err := json.Unmarshal([]byte(raw), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, raw)
		}
		if len(got.Games) != 1 {
			t.Fatalf("len(Games) = %d, want 1", len(got.Games))
		}
		testutil.AssertEqual(t, got.Games[0].Movetext, "1. d4 d5 2. c4")
		testutil.AssertEqual(t, got.Games[0].PlyCount, 3)
	})

	t.Run("get", func(t *testing.T) {
		first := lines(mustRun(t, "--db", db, "list", "--limit", "1"))[0]
		id := strings.SplitN(first, "\t", 2)[0]
		got := lines(mustRun(t, "--db", db, "get", "--positions", id))
		testutil.AssertEqual(t, got[0], "1. d4 d5 2. c4")
		testutil.AssertEqual(t, len(got), 1+4)

		_, err := run(t, "--db", db, "get", "no-such-id")
		testutil.AssertErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("sql query", func(t *testing.T) {
		got := mustRun(t, "--db", db, "query", "SELECT COUNT(*) AS n FROM games WHERE hasOpening(movetext, ?)", "1. e4 e5")
		testutil.AssertEqual(t, got, "n\n1\n")

		got = mustRun(t, "--db", db, "query", "SELECT getFirstMoves(movetext, 1) FROM games ORDER BY movetext COLLATE CHESSGAME LIMIT 1")
		testutil.AssertEqual(t, lines(got)[1], "1. d4")
	})
}

func TestLoadPGN(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "games.sqlite")
	pgn := writeFile(t, dir, "games.pgn", `[Event "One"]
[Result "1-0"]

1. e4 e5 2. Nf3 1-0

[Event "Two"]

1. e4 e5 2. Nf3 1-0
`)

	testutil.AssertEqual(t, mustRun(t, "--db", db, "load", "--dedupe", pgn), "loaded 1, failed 0, duplicates 1\n")
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "games.csv", "movetext\n1. e4 e5\n1. d4 d5\n")
	batch := writeFile(t, dir, "cmds.txt", `# everything runs on one in-memory connection
load `+csv+`
search-opening "1. d4"
compare "1. e4" "1. d4"
`)

	out := lines(mustRun(t, "--db", ":memory:", "batch", batch))
	testutil.AssertEqual(t, len(out), 3)
	testutil.AssertEqual(t, out[0], "loaded 2, failed 0, duplicates 0")
	testutil.AssertTrue(t, strings.HasSuffix(out[1], "\t1. d4 d5"), "got %q", out[1])
	testutil.AssertEqual(t, out[2], "1")
}

func TestBatchCmd_Failures(t *testing.T) {
	dir := t.TempDir()
	batch := writeFile(t, dir, "cmds.txt", "board \"1. e4\" 5\ncompare \"1. e4\" \"1. e4\"\n")

	_, err := run(t, "--db", ":memory:", "batch", batch)
	testutil.AssertErrorIs(t, err, errors.ErrRange)

	out, err := run(t, "--db", ":memory:", "batch", "--keep-going", batch)
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, out, "0\n")

	nested := writeFile(t, dir, "nested.txt", "batch "+batch+"\n")
	_, err = run(t, "--db", ":memory:", "batch", nested)
	testutil.AssertError(t, err)
}

func TestExtractCmd(t *testing.T) {
	dir := t.TempDir()
	pgn := writeFile(t, dir, "games.pgn", `[Event "One"]

1.e4 e5 2.Nf3 *

[Event "Two"]

1. e4 e5 2. Ke3 *

[Event "Three"]

1. d4 d5 *
`)

	raw := mustRun(t, "extract", pgn)
	testutil.AssertEqual(t, lines(raw), []string{"movetext", "1.e4 e5 2.Nf3 *", "1. e4 e5 2. Ke3 *", "1. d4 d5 *"})

	canonical := mustRun(t, "extract", "--canonical", pgn)
	testutil.AssertEqual(t, lines(canonical), []string{"movetext", "1. e4 e5 2. Nf3", "1. d4 d5"})

	out := filepath.Join(dir, "out.csv")
	mustRun(t, "extract", "--limit", "1", "-o", out, pgn)
	data, err := os.ReadFile(out)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, string(data), "movetext\n1.e4 e5 2.Nf3 *\n")
}

func TestInitReset(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "games.sqlite")
	csv := writeFile(t, dir, "games.csv", "movetext\n1. e4 e5\n")

	mustRun(t, "--db", db, "load", csv)
	testutil.AssertEqual(t, len(lines(mustRun(t, "--db", db, "list"))), 1)

	testutil.AssertEqual(t, mustRun(t, "--db", db, "init", "--reset"), "initialized "+db+"\n")
	testutil.AssertEqual(t, len(lines(mustRun(t, "--db", db, "list"))), 0)
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "functions")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestClassifyCmd(t *testing.T) {
	dir := t.TempDir()
	ecoFile := writeFile(t, dir, "eco.pgn", `[ECO "B20"]
[Opening "Sicilian"]

1. e4 c5 *

[ECO "C20"]
[Opening "King's Pawn"]

1. e4 e5 *
`)

	out := mustRun(t, "classify", "--eco", ecoFile, "1. e4 c5 2. Nf3", "1. d4")
	testutil.AssertEqual(t, lines(out), []string{"1. e4 c5 2. Nf3\tB20 Sicilian", "1. d4\t-"})

	csv := writeFile(t, dir, "games.csv", "movetext\n1. e4 e5 2. Nf3\n")
	batch := writeFile(t, dir, "cmds.txt", "load "+csv+"\nclassify --eco "+ecoFile+"\n")
	got := lines(mustRun(t, "--db", ":memory:", "batch", batch))
	testutil.AssertEqual(t, len(got), 2)
	testutil.AssertTrue(t, strings.HasSuffix(got[1], "\tC20 King's Pawn"), "got %q", got[1])

	_, err := run(t, "classify", "1. e4")
	testutil.AssertError(t, err, "--eco is required")
}

func TestAnalyzeCmd(t *testing.T) {
	out := mustRun(t, "analyze", "1. f3 e5 2. g4 Qh4#")
	for _, want := range []string{"plies:", "checkmate:", "true"} {
		testutil.AssertTrue(t, strings.Contains(out, want), "analyze output contains %q:\n%s", want, out)
	}
	got := map[string]string{}
	for _, l := range lines(out) {
		f := strings.Fields(l)
		got[f[0]] = f[1]
	}
	testutil.AssertEqual(t, got["plies:"], "4")
	testutil.AssertEqual(t, got["checkmate:"], "true")
	testutil.AssertEqual(t, got["stalemate:"], "false")
}
