package scpi

import (
	"strconv"
	"strings"
)

// nextParameter reads the next program-data token from the current
// command's data segment, per spec.md §4.5: requiring a separating
// comma after the first parameter, pushing MissingParameter when a
// mandatory slot is empty, and counting every successful attempt in
// inputCount regardless of what type the caller eventually coerces it
// to.
func (c *Context) nextParameter(mandatory bool) (Token, bool) {
	st := &lexState{buffer: c.currentData, pos: c.paramsPos, len: len(c.currentData)}
	st.lexWhitespace()

	if st.isEOS() {
		if mandatory {
			c.ErrorPush(&Error{Code: ErrMissingParameter, Info: "Missing parameter"})
		}
		c.paramsPos = st.pos
		return Token{}, false
	}

	if c.inputCount > 0 {
		if _, n := st.lexComma(); n == 0 {
			c.ErrorPush(&Error{Code: ErrInvalidSeparator, Info: "Invalid separator"})
			c.paramsPos = st.pos
			return Token{}, false
		}
		st.lexWhitespace()
	}

	c.inputCount++
	tok := st.lexProgramData()
	c.paramsPos = st.pos

	if tok.Kind == TokenUnknown {
		c.ErrorPush(&Error{Code: ErrInvalidStringData, Info: "Invalid string data"})
		return Token{}, false
	}
	return tok, true
}

func numericString(tok Token) string {
	s := string(tok.Data)
	if tok.Kind == TokenDecimalNumericWithSuffix {
		// Re-lex the numeric part so an exponent ("1e3V") is kept and
		// only the suffix is dropped.
		st := &lexState{buffer: tok.Data, len: len(tok.Data)}
		num, _ := st.lexDecimalNumeric()
		s = string(num.Data)
	}
	return strings.TrimSpace(s)
}

// ParamInt32 reads a mandatory or optional int32 parameter. Decimal,
// hex ("#Hxx"), octal ("#Qxx") and binary ("#Bxx") notations are all
// accepted; a numeric suffix (e.g. "5V") raises SuffixNotAllowed.
func (c *Context) ParamInt32(mandatory bool) (int32, bool) {
	v, ok := c.ParamInt64(mandatory)
	return int32(v), ok
}

// ParamInt64 is ParamInt32 without the 32-bit truncation.
func (c *Context) ParamInt64(mandatory bool) (int64, bool) {
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return 0, false
	}
	switch tok.Kind {
	case TokenHexNum:
		v, err := strconv.ParseInt(string(tok.Data[2:]), 16, 64)
		return checkConv(c, v, err)
	case TokenOctNum:
		v, err := strconv.ParseInt(string(tok.Data[2:]), 8, 64)
		return checkConv(c, v, err)
	case TokenBinNum:
		v, err := strconv.ParseInt(string(tok.Data[2:]), 2, 64)
		return checkConv(c, v, err)
	case TokenDecimalNumericWithSuffix:
		c.ErrorPush(&Error{Code: ErrSuffixNotAllowed, Info: "Suffix not allowed"})
		return 0, false
	case TokenDecimalNumeric:
		v, err := strconv.ParseInt(numericString(tok), 10, 64)
		return checkConv(c, v, err)
	default:
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return 0, false
	}
}

func checkConv(c *Context, v int64, err error) (int64, bool) {
	if err != nil {
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return 0, false
	}
	return v, true
}

// ParamFloat reads a mandatory or optional float32 parameter. A
// numeric suffix raises SuffixNotAllowed — ParamNumber accepts a
// suffixed value (discarding the suffix), and ParamString returns the
// raw token text including it.
func (c *Context) ParamFloat(mandatory bool) (float32, bool) {
	v, ok := c.ParamDouble(mandatory)
	return float32(v), ok
}

// ParamDouble is ParamFloat without the 32-bit truncation.
func (c *Context) ParamDouble(mandatory bool) (float64, bool) {
	start := c.paramsPos
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return 0, false
	}
	switch tok.Kind {
	case TokenDecimalNumericWithSuffix:
		c.ErrorPush(&Error{Code: ErrSuffixNotAllowed, Info: "Suffix not allowed"})
		return 0, false
	case TokenDecimalNumeric:
		v, err := strconv.ParseFloat(numericString(tok), 64)
		if err != nil {
			c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
			return 0, false
		}
		return v, true
	case TokenHexNum, TokenOctNum, TokenBinNum:
		c.paramsPos = start // rewind (before any separator): re-read through the integer path
		c.inputCount--
		v, ok := c.ParamInt64(mandatory)
		return float64(v), ok
	default:
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return 0, false
	}
}

// ParamString reads a mandatory or optional parameter as text:
// quoted-string content (with doubled-quote escapes unfolded) or a
// bare mnemonic token, verbatim.
func (c *Context) ParamString(mandatory bool) (string, bool) {
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return "", false
	}
	switch tok.Kind {
	case TokenSingleQuoteString, TokenDoubleQuoteString:
		quote := tok.Data[0]
		inner := tok.Data[1 : len(tok.Data)-1]
		doubled := string(quote) + string(quote)
		return strings.ReplaceAll(string(inner), doubled, string(quote)), true
	case TokenProgramMnemonic:
		return string(tok.Data), true
	default:
		return string(tok.Data), true
	}
}

// ParamBool reads 0/1 or ON/OFF (case-insensitive) as a boolean.
func (c *Context) ParamBool(mandatory bool) (bool, bool) {
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return false, false
	}
	switch tok.Kind {
	case TokenDecimalNumeric:
		v, err := strconv.ParseInt(numericString(tok), 10, 64)
		if err != nil {
			c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
			return false, false
		}
		return v != 0, true
	case TokenProgramMnemonic:
		switch strings.ToUpper(string(tok.Data)) {
		case "ON":
			return true, true
		case "OFF":
			return false, true
		default:
			c.ErrorPush(&Error{Code: ErrIllegalParameterValue, Info: "Illegal parameter value"})
			return false, false
		}
	default:
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return false, false
	}
}

// ParamChoice reads a mnemonic parameter and resolves it against
// choices using the same short-form/long-form rule as command
// keywords, pushing IllegalParameterValue if nothing matches.
func (c *Context) ParamChoice(choices []ChoiceDef, mandatory bool) (int32, bool) {
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return 0, false
	}
	if tok.Kind != TokenProgramMnemonic {
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return 0, false
	}
	value := string(tok.Data)
	for _, choice := range choices {
		if matchKeyword(choice.Name, strings.ToUpper(value)) {
			return choice.Tag, true
		}
	}
	c.ErrorPush(&Error{Code: ErrIllegalParameterValue, Info: "Illegal parameter value: " + value})
	return 0, false
}

// ParamArbitraryBlock reads a definite-length or indefinite-length
// arbitrary block parameter and returns its raw payload bytes.
func (c *Context) ParamArbitraryBlock(mandatory bool) ([]byte, bool) {
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return nil, false
	}
	if tok.Kind != TokenArbitraryBlock {
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return nil, false
	}
	return tok.Data, true
}
