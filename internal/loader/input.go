package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single PGN line.
const maxLineSize = 1 << 20

// ExtractMovetext returns the movetext of each game in a PGN stream. A line
// starting with "1." opens a game; following lines belong to it until a
// blank line, a tag pair or the next "1." line. Lines are joined with a
// single space.
func ExtractMovetext(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		games   []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			games = append(games, strings.Join(current, " "))
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "1."):
			flush()
			current = append(current, line)
		case line == "" || strings.HasPrefix(line, "["):
			flush()
		case len(current) > 0:
			current = append(current, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PGN: %w", err)
	}
	flush()
	return games, nil
}

// ReadCSV returns the first column of every row after the header. limit > 0
// stops after that many rows. Empty rows are skipped.
func ReadCSV(r io.Reader, limit int) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var out []string
	for limit <= 0 || len(out) < limit {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		out = append(out, rec[0])
	}
	return out, nil
}

// WriteCSV writes texts as a one-column CSV under header.
func WriteCSV(w io.Writer, header string, texts []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{header}); err != nil {
		return err
	}
	for _, t := range texts {
		if err := cw.Write([]string{t}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
