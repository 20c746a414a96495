package parser

import (
	"fmt"

	"github.com/lgbarn/chessdb-go/internal/chess"
	"github.com/lgbarn/chessdb-go/internal/engine"
	"github.com/lgbarn/chessdb-go/internal/errors"
)

// Parser extracts the main line from movetext. Comments, NAGs, tag pairs
// and variations are skipped; the result token ends the game.
type Parser struct {
	lexer        *Lexer
	input        string
	currentToken Token
}

// NewParser creates a new parser for the given movetext.
func NewParser(input string) *Parser {
	return &Parser{lexer: NewLexer(input), input: input}
}

// nextToken gets the next token from the lexer.
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

func (p *Parser) fail(ply int, token string, cause error) error {
	return &errors.ParseError{Err: cause, Input: p.input, Ply: ply, Token: token}
}

// DecodeMainLine returns the decoded, unresolved main-line moves.
func (p *Parser) DecodeMainLine() ([]chess.Move, error) {
	var moves []chess.Move
	result := ""

	for p.nextToken(); p.currentToken.Type != EOFToken; p.nextToken() {
		tok := p.currentToken
		switch tok.Type {
		case ErrorToken:
			return nil, p.fail(len(moves)+1, tok.Text, fmt.Errorf("unexpected text at offset %d: %w", tok.Offset, errors.ErrParse))

		case TagToken:
			if len(moves) > 0 || p.lexer.RAVLevel() > 0 {
				return nil, p.fail(len(moves)+1, tok.Text, fmt.Errorf("tag pair inside movetext: %w", errors.ErrParse))
			}

		case CommentToken, NAGToken, MoveNumber, RAVStart, RAVEnd:
			// Variations are consumed by the depth check below.

		case TerminatingResult:
			if p.lexer.RAVLevel() > 0 {
				continue
			}
			if result != "" {
				return nil, p.fail(len(moves)+1, tok.Text, fmt.Errorf("second result: %w", errors.ErrParse))
			}
			result = tok.Text

		case MoveToken:
			if p.lexer.RAVLevel() > 0 {
				continue
			}
			if result != "" {
				return nil, p.fail(len(moves)+1, tok.Text, fmt.Errorf("move after result %s: %w", result, errors.ErrParse))
			}
			moves = append(moves, tok.MoveDetails)
		}
	}

	if p.lexer.RAVLevel() > 0 {
		return nil, p.fail(len(moves)+1, "(", fmt.Errorf("unterminated variation: %w", errors.ErrParse))
	}
	return moves, nil
}

// ParseMovetext parses movetext into moves resolved from the standard
// start position. Any malformed or illegal move yields a *errors.ParseError
// and no moves.
func ParseMovetext(text string) ([]chess.Move, error) {
	p := NewParser(text)
	decoded, err := p.DecodeMainLine()
	if err != nil {
		return nil, err
	}

	moves, err := engine.ReplayText(decoded)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Input = text
		}
		return nil, err
	}
	return moves, nil
}
