package parser

import (
	"strconv"
	"strings"

	"github.com/lgbarn/chessdb-go/internal/chess"
)

// Lexer tokenizes a movetext string.
type Lexer struct {
	input    string
	pos      int
	ravLevel uint
}

// Character classification table
var chTab [256]TokenType

// Move character classification table
var moveChars [256]bool

func init() {
	initLexTables()
}

// initLexTables initializes the character classification tables.
func initLexTables() {
	for i := range chTab {
		chTab[i] = ErrorToken
	}

	for _, c := range []byte{' ', '\t', '\r', '\n'} {
		chTab[c] = Whitespace
	}

	chTab['['] = TagStart
	chTab[']'] = TagEnd
	chTab['"'] = DoubleQuote
	chTab['{'] = CommentStart
	chTab['}'] = CommentEnd
	chTab[';'] = LineComment

	chTab['$'] = NAGToken
	chTab['!'] = Annotate
	chTab['?'] = Annotate
	chTab['+'] = CheckSymbol
	chTab['#'] = CheckSymbol
	chTab['.'] = Dot
	chTab['('] = RAVStart
	chTab[')'] = RAVEnd
	chTab['%'] = Percent
	chTab['*'] = Star
	chTab['-'] = Dash

	for c := byte('0'); c <= '9'; c++ {
		chTab[c] = Digit
	}
	for c := byte('A'); c <= 'Z'; c++ {
		chTab[c] = Alpha
		chTab[c+32] = Alpha
	}

	initMoveChars()
}

// initMoveChars initializes the move character classification table.
func initMoveChars() {
	for c := byte('a'); c <= 'h'; c++ {
		moveChars[c] = true
	}
	for c := byte('1'); c <= '8'; c++ {
		moveChars[c] = true
	}

	// Piece letters: English (upper/lower), Dutch/German
	for _, c := range []byte{'K', 'Q', 'R', 'N', 'B', 'k', 'q', 'r', 'n', 'D', 'T', 'S', 'P', 'L'} {
		moveChars[c] = true
	}

	// Capture/separators, promotion, castling, en passant
	for _, c := range []byte{'x', 'X', ':', '-', '=', 'O', 'o', '0', 'p'} {
		moveChars[c] = true
	}
}

// NewLexer creates a new lexer over the given movetext.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// currentChar returns the current character or 0 at end of input.
func (l *Lexer) currentChar() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// advance moves to the next character.
func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		l.pos++
	}
}

// RAVLevel returns the current variation nesting depth.
func (l *Lexer) RAVLevel() uint {
	return l.ravLevel
}

// NextToken returns the next token from the input. Whitespace, dots and
// "%" escape lines are skipped.
func (l *Lexer) NextToken() Token {
	for {
		start := l.pos
		token := l.getNextSymbol()
		if token.Type != NoToken {
			token.Offset = start
			return token
		}
	}
}

func (l *Lexer) errorToken(start int) Token {
	return Token{Type: ErrorToken, Text: l.input[start:l.pos]}
}

// getNextSymbol identifies the next symbol.
func (l *Lexer) getNextSymbol() Token {
	if l.pos >= len(l.input) {
		return Token{Type: EOFToken}
	}

	ch := l.currentChar()
	symbolStart := l.pos
	l.advance()

	switch chTab[ch] {
	case Whitespace:
		for chTab[l.currentChar()] == Whitespace && l.pos < len(l.input) {
			l.advance()
		}
		return Token{Type: NoToken}

	case TagStart:
		return l.gatherTag(symbolStart)

	case CommentStart:
		return l.gatherComment(symbolStart)

	case LineComment, Percent:
		for l.pos < len(l.input) && l.currentChar() != '\n' {
			l.advance()
		}
		if chTab[ch] == Percent {
			return Token{Type: NoToken}
		}
		return Token{Type: CommentToken, Text: strings.TrimSpace(l.input[symbolStart+1 : l.pos])}

	case NAGToken:
		start := l.pos
		for isDigit(l.currentChar()) {
			l.advance()
		}
		if l.pos == start {
			return l.errorToken(symbolStart)
		}
		return Token{Type: NAGToken, Text: l.input[symbolStart:l.pos]}

	case Annotate:
		for chTab[l.currentChar()] == Annotate && l.pos < len(l.input) {
			l.advance()
		}
		text := l.input[symbolStart:l.pos]
		return Token{Type: NAGToken, Text: annotationToNAG(text)}

	case Dot:
		for l.currentChar() == '.' {
			l.advance()
		}
		return Token{Type: NoToken}

	case RAVStart:
		l.ravLevel++
		return Token{Type: RAVStart}

	case RAVEnd:
		if l.ravLevel == 0 {
			return l.errorToken(symbolStart)
		}
		l.ravLevel--
		return Token{Type: RAVEnd}

	case Alpha:
		return l.gatherAlpha(ch, symbolStart)

	case Digit:
		return l.gatherNumeric(ch, symbolStart)

	case Star:
		return Token{Type: TerminatingResult, Text: "*"}

	case Dash:
		if l.currentChar() == '-' {
			l.advance()
			return l.makeNullMoveToken()
		}
		return l.errorToken(symbolStart)

	default:
		return l.errorToken(symbolStart)
	}
}

// gatherTag consumes a "[Name "value"]" tag pair.
func (l *Lexer) gatherTag(start int) Token {
	inString := false
	for l.pos < len(l.input) {
		ch := l.currentChar()
		l.advance()
		switch {
		case inString && ch == '\\':
			l.advance()
		case ch == '"':
			inString = !inString
		case ch == ']' && !inString:
			return Token{Type: TagToken, Text: l.input[start:l.pos]}
		}
	}
	return l.errorToken(start)
}

// gatherComment gathers a "{...}" comment. Comments do not nest.
func (l *Lexer) gatherComment(start int) Token {
	end := strings.IndexByte(l.input[l.pos:], '}')
	if end < 0 {
		l.pos = len(l.input)
		return l.errorToken(start)
	}
	text := l.input[l.pos : l.pos+end]
	l.pos += end + 1
	return Token{Type: CommentToken, Text: strings.TrimSpace(text)}
}

// gatherAlpha handles alpha characters (potential moves).
func (l *Lexer) gatherAlpha(ch byte, symbolStart int) Token {
	// Check for null move Z0
	if ch == 'Z' && l.currentChar() == '0' {
		l.advance()
		return l.makeNullMoveToken()
	}

	if !moveChars[ch] {
		for chTab[l.currentChar()] == Alpha {
			l.advance()
		}
		return l.errorToken(symbolStart)
	}

	for moveChars[l.currentChar()] {
		l.advance()
	}
	// Check and mate suffixes stay with the move text.
	for chTab[l.currentChar()] == CheckSymbol && l.pos < len(l.input) {
		l.advance()
	}

	moveText := l.input[symbolStart:l.pos]
	move := DecodeMove(moveText)
	if !moveSeemValid(moveText) || move.Class == chess.UnknownMove {
		for chTab[l.currentChar()] == Alpha || isDigit(l.currentChar()) {
			l.advance()
		}
		return l.errorToken(symbolStart)
	}
	return Token{Type: MoveToken, Text: moveText, MoveDetails: move}
}

// makeNullMoveToken creates a token for a null move.
func (l *Lexer) makeNullMoveToken() Token {
	move := chess.NewMove()
	move.Text = chess.NullMoveString
	move.Class = chess.NullMove
	return Token{Type: MoveToken, Text: chess.NullMoveString, MoveDetails: move}
}

// gatherNumeric handles numeric tokens (move numbers, results, castling).
func (l *Lexer) gatherNumeric(initialDigit byte, symbolStart int) Token {
	remaining := l.input[l.pos:]

	switch initialDigit {
	case '0':
		// Could be 0-1 (result) or 0-0 / 0-0-0 (castling)
		if strings.HasPrefix(remaining, "-1") {
			l.pos += 2
			return Token{Type: TerminatingResult, Text: "0-1"}
		}
		if strings.HasPrefix(remaining, "-0-0") {
			l.pos += 4
			return l.makeCastleToken(symbolStart, chess.QueensideCastle)
		}
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return l.makeCastleToken(symbolStart, chess.KingsideCastle)
		}
	case '1':
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return Token{Type: TerminatingResult, Text: "1-0"}
		}
		if strings.HasPrefix(remaining, "/2-1/2") {
			l.pos += 6
			return Token{Type: TerminatingResult, Text: "1/2-1/2"}
		}
	}

	return l.gatherMoveNumber(symbolStart)
}

// makeCastleToken creates a castling move token.
func (l *Lexer) makeCastleToken(start int, class chess.MoveClass) Token {
	for chTab[l.currentChar()] == CheckSymbol && l.pos < len(l.input) {
		l.advance()
	}
	move := chess.NewMove()
	move.Text = l.input[start:l.pos]
	move.Class = class
	move.PieceToMove = chess.King
	return Token{Type: MoveToken, Text: move.Text, MoveDetails: move}
}

// gatherMoveNumber parses a move number token.
func (l *Lexer) gatherMoveNumber(start int) Token {
	for isDigit(l.currentChar()) {
		l.advance()
	}
	digits := l.input[start:l.pos]

	if chTab[l.currentChar()] == Alpha {
		// A digit run glued to letters is not a move number.
		for chTab[l.currentChar()] == Alpha || isDigit(l.currentChar()) {
			l.advance()
		}
		return l.errorToken(start)
	}

	for l.currentChar() == '.' {
		l.advance()
	}

	moveNum, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return l.errorToken(start)
	}
	return Token{Type: MoveNumber, Text: l.input[start:l.pos], MoveNum: uint(moveNum)}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// annotationToNAG converts annotation symbols to NAG strings.
func annotationToNAG(text string) string {
	switch text {
	case "!":
		return "$1"
	case "?":
		return "$2"
	case "!!":
		return "$3"
	case "??":
		return "$4"
	case "!?":
		return "$5"
	case "?!":
		return "$6"
	default:
		return "$0"
	}
}

// moveSeemValid does a basic check if the move text looks valid.
func moveSeemValid(text string) bool {
	if len(text) < 2 {
		return false
	}

	switch strings.TrimRight(text, "+#") {
	case "O-O", "O-O-O", "o-o", "o-o-o", "0-0", "0-0-0":
		return true
	}

	// Must contain at least one file (a-h) and one rank (1-8)
	hasFile := false
	hasRank := false
	for _, c := range text {
		if c >= 'a' && c <= 'h' {
			hasFile = true
		}
		if c >= '1' && c <= '8' {
			hasRank = true
		}
	}

	return hasFile && hasRank
}
