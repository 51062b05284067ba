package scpi

// lexState is a cursor over a byte slice. Every lex* method either
// advances pos and returns a filled Token with a positive length, or
// leaves pos untouched and returns the zero Token with length 0 — the
// recognizer contract spec.md §4.1 describes.
type lexState struct {
	buffer []byte
	pos    int
	len    int
}

func (l *lexState) isEOS() bool { return l.pos >= l.len }

func (l *lexState) peek() byte {
	if l.isEOS() {
		return 0
	}
	return l.buffer[l.pos]
}

func (l *lexState) peekAt(offset int) byte {
	if l.pos+offset >= l.len {
		return 0
	}
	return l.buffer[l.pos+offset]
}

func (l *lexState) advance(n int) {
	l.pos += n
	if l.pos > l.len {
		l.pos = l.len
	}
}

func isWhitespace(c byte) bool { return c == ' ' || c == '\t' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *lexState) lexWhitespace() (Token, int) {
	start := l.pos
	for !l.isEOS() && isWhitespace(l.peek()) {
		l.advance(1)
	}
	if l.pos == start {
		return Token{}, 0
	}
	return Token{Kind: TokenWhiteSpace, Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
}

func (l *lexState) lexNewline() (Token, int) {
	start := l.pos
	switch l.peek() {
	case '\n':
		l.advance(1)
	case '\r':
		l.advance(1)
		if l.peek() == '\n' {
			l.advance(1)
		}
	default:
		return Token{}, 0
	}
	return Token{Kind: TokenNewline, Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
}

func (l *lexState) lexSemicolon() (Token, int) {
	if l.peek() != ';' {
		return Token{}, 0
	}
	start := l.pos
	l.advance(1)
	return Token{Kind: TokenSemicolon, Data: l.buffer[start:l.pos], Pos: start}, 1
}

func (l *lexState) lexComma() (Token, int) {
	if l.peek() != ',' {
		return Token{}, 0
	}
	start := l.pos
	l.advance(1)
	return Token{Kind: TokenComma, Data: l.buffer[start:l.pos], Pos: start}, 1
}

// lexCharacterProgramData recognises character/mnemonic program data:
// [A-Za-z_][A-Za-z0-9_]*. Used both as a bare parameter value and as a
// building block of header keywords.
func (l *lexState) lexCharacterProgramData() (Token, int) {
	start := l.pos
	if !isAlpha(l.peek()) {
		return Token{}, 0
	}
	l.advance(1)
	for !l.isEOS() && (isAlpha(l.peek()) || isDigit(l.peek())) {
		l.advance(1)
	}
	return Token{Kind: TokenProgramMnemonic, Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
}

// lexDecimalNumeric recognises optional sign, digits, optional
// fractional part, optional exponent.
func (l *lexState) lexDecimalNumeric() (Token, int) {
	start := l.pos
	if l.peek() == '+' || l.peek() == '-' {
		l.advance(1)
	}

	hasDigits := false
	for !l.isEOS() && isDigit(l.peek()) {
		l.advance(1)
		hasDigits = true
	}
	if l.peek() == '.' {
		l.advance(1)
		for !l.isEOS() && isDigit(l.peek()) {
			l.advance(1)
			hasDigits = true
		}
	}
	if !hasDigits {
		l.pos = start
		return Token{}, 0
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.pos
		l.advance(1)
		if l.peek() == '+' || l.peek() == '-' {
			l.advance(1)
		}
		expDigits := false
		for !l.isEOS() && isDigit(l.peek()) {
			l.advance(1)
			expDigits = true
		}
		if !expDigits {
			l.pos = save
		}
	}
	return Token{Kind: TokenDecimalNumeric, Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
}

// lexSuffixProgramData recognises the engineering-unit suffix that can
// follow a decimal numeric: letters, digits, '/', '-', '.' (e.g. "V/s",
// "m.s-2").
func (l *lexState) lexSuffixProgramData() (Token, int) {
	start := l.pos
	if !isAlpha(l.peek()) {
		return Token{}, 0
	}
	for !l.isEOS() {
		c := l.peek()
		if isAlpha(c) || isDigit(c) || c == '/' || c == '-' || c == '.' {
			l.advance(1)
			continue
		}
		break
	}
	return Token{Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
}

// lexDecimalNumericWithSuffix parses a decimal numeric and, if
// immediately followed (after optional whitespace) by a suffix, fuses
// the two into one DecimalNumericWithSuffix token.
func (l *lexState) lexDecimalNumericWithSuffix() (Token, int) {
	tok, n := l.lexDecimalNumeric()
	if n == 0 {
		return tok, 0
	}
	save := l.pos
	l.lexWhitespace()
	_, suffixLen := l.lexSuffixProgramData()
	if suffixLen == 0 {
		l.pos = save
		return tok, n
	}
	tok.Kind = TokenDecimalNumericWithSuffix
	tok.Data = l.buffer[tok.Pos:l.pos]
	return tok, l.pos - tok.Pos
}

// lexNondecimalNumeric recognises "#H<hex>", "#Q<octal>", "#B<binary>".
func (l *lexState) lexNondecimalNumeric() (Token, int) {
	start := l.pos
	if l.peek() != '#' {
		return Token{}, 0
	}
	base := l.peekAt(1)

	var kind TokenKind
	var digitOK func(byte) bool
	switch base {
	case 'H', 'h':
		kind, digitOK = TokenHexNum, isHexDigit
	case 'Q', 'q':
		kind, digitOK = TokenOctNum, func(c byte) bool { return c >= '0' && c <= '7' }
	case 'B', 'b':
		kind, digitOK = TokenBinNum, func(c byte) bool { return c == '0' || c == '1' }
	default:
		return Token{}, 0
	}

	l.advance(2)
	digitsStart := l.pos
	for !l.isEOS() && digitOK(l.peek()) {
		l.advance(1)
	}
	if l.pos == digitsStart {
		l.pos = start
		return Token{}, 0
	}
	return Token{Kind: kind, Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
}

// lexStringProgramData recognises '...'- or "..."-quoted text, with
// the inner quote escaped by doubling.
func (l *lexState) lexStringProgramData() (Token, int) {
	start := l.pos
	quote := l.peek()
	if quote != '"' && quote != '\'' {
		return Token{}, 0
	}
	kind := TokenDoubleQuoteString
	if quote == '\'' {
		kind = TokenSingleQuoteString
	}

	l.advance(1)
	for !l.isEOS() {
		c := l.peek()
		l.advance(1)
		if c != quote {
			continue
		}
		if l.peek() == quote {
			l.advance(1)
			continue
		}
		return Token{Kind: kind, Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
	}
	l.pos = start
	return Token{}, 0
}

// lexArbitraryBlock recognises "#<d><n-digits><n-bytes>": a single
// digit d gives the length of the decimal length field, which in turn
// gives the byte count n of the raw payload that follows. The token's
// Data holds only the n payload bytes, not the "#<d><n-digits>" header.
func (l *lexState) lexArbitraryBlock() (Token, int) {
	start := l.pos
	if l.peek() != '#' {
		return Token{}, 0
	}
	if !isDigit(l.peekAt(1)) {
		return Token{}, 0
	}
	lengthDigits := int(l.peekAt(1) - '0')
	l.advance(2)

	if lengthDigits == 0 {
		// Indefinite-length block: the payload runs to the end of the
		// buffer, so any newline in the buffer becomes part of it.
		payloadStart := l.pos
		l.advance(l.len - l.pos)
		return Token{Kind: TokenArbitraryBlock, Data: l.buffer[payloadStart:l.pos], Pos: payloadStart}, l.pos - start
	}

	if l.len-l.pos < lengthDigits {
		l.pos = start
		return Token{}, 0
	}
	length := 0
	for i := 0; i < lengthDigits; i++ {
		c := l.peek()
		if !isDigit(c) {
			l.pos = start
			return Token{}, 0
		}
		length = length*10 + int(c-'0')
		l.advance(1)
	}

	payloadStart := l.pos
	if l.len-payloadStart < length {
		l.pos = start
		return Token{}, 0
	}
	l.advance(length)
	return Token{Kind: TokenArbitraryBlock, Data: l.buffer[payloadStart:l.pos], Pos: payloadStart}, l.pos - start
}

// lexProgramExpression recognises a parenthesised expression; its
// contents are opaque to the core (e.g. a channel-list "(@1,3:5)").
func (l *lexState) lexProgramExpression() (Token, int) {
	start := l.pos
	if l.peek() != '(' {
		return Token{}, 0
	}
	depth := 0
	for !l.isEOS() {
		c := l.peek()
		l.advance(1)
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return Token{Kind: TokenProgramExpression, Data: l.buffer[start:l.pos], Pos: start}, l.pos - start
			}
		}
	}
	l.pos = start
	return Token{}, 0
}

// lexProgramData tries each program-data recognizer in the fixed order
// spec.md §4.1 mandates and returns the first non-zero result.
func (l *lexState) lexProgramData() Token {
	if tok, n := l.lexNondecimalNumeric(); n > 0 {
		return tok
	}
	if tok, n := l.lexCharacterProgramData(); n > 0 {
		return tok
	}
	if tok, n := l.lexDecimalNumericWithSuffix(); n > 0 {
		return tok
	}
	if tok, n := l.lexStringProgramData(); n > 0 {
		return tok
	}
	if tok, n := l.lexArbitraryBlock(); n > 0 {
		return tok
	}
	if tok, n := l.lexProgramExpression(); n > 0 {
		return tok
	}
	return Token{Kind: TokenUnknown}
}
