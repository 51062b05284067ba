package scpi

import (
	"math"
	"strconv"
	"strings"
)

// specialNumberNames lists the mnemonics ParamNumber accepts in place
// of a literal value, grounded on the "special numeric" substitutes
// SCPI-99 §7.1 reserves for every numeric parameter (MINimum,
// MAXimum, DEFault, UP, DOWN, and the IEEE-754 stand-ins NAN, INF,
// NINF) plus the instrument-defined AUTO some commands also accept.
var specialNumberNames = []struct {
	def ChoiceDef
}{
	{ChoiceDef{Name: "MINimum", Tag: int32(NumMin)}},
	{ChoiceDef{Name: "MAXimum", Tag: int32(NumMax)}},
	{ChoiceDef{Name: "DEFault", Tag: int32(NumDef)}},
	{ChoiceDef{Name: "UP", Tag: int32(NumUp)}},
	{ChoiceDef{Name: "DOWN", Tag: int32(NumDown)}},
	{ChoiceDef{Name: "NAN", Tag: int32(NumNaN)}},
	{ChoiceDef{Name: "INFinity", Tag: int32(NumInf)}},
	{ChoiceDef{Name: "NINFinity", Tag: int32(NumNInf)}},
	{ChoiceDef{Name: "AUTO", Tag: int32(NumAuto)}},
}

// ParamNumber reads a numeric parameter that may be a literal decimal
// value or one of the special mnemonics in specialNumberNames,
// per spec.md's numeric-parameter extension beyond plain ParamDouble.
// A numeric suffix on a literal value is accepted and discarded here;
// callers that need the unit string should read the raw token with
// ParamString instead.
func (c *Context) ParamNumber(mandatory bool) (Number, bool) {
	start := c.paramsPos
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return Number{}, false
	}

	if tok.Kind == TokenProgramMnemonic {
		value := string(tok.Data)
		for _, sp := range specialNumberNames {
			if matchKeyword(sp.def.Name, strings.ToUpper(value)) {
				n := Number{Special: SpecialNumber(sp.def.Tag)}
				switch n.Special {
				case NumNaN:
					n.Value = math.NaN()
				case NumInf:
					n.Value = math.Inf(1)
				case NumNInf:
					n.Value = math.Inf(-1)
				}
				return n, true
			}
		}
		c.ErrorPush(&Error{Code: ErrIllegalParameterValue, Info: "Illegal parameter value: " + value})
		return Number{}, false
	}

	switch tok.Kind {
	case TokenDecimalNumeric, TokenDecimalNumericWithSuffix:
		v, err := strconv.ParseFloat(numericString(tok), 64)
		if err != nil {
			c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
			return Number{}, false
		}
		return Number{Special: NumNumber, Value: v}, true
	case TokenHexNum, TokenOctNum, TokenBinNum:
		c.paramsPos = start
		c.inputCount--
		v, ok := c.ParamInt64(mandatory)
		return Number{Special: NumNumber, Value: float64(v)}, ok
	default:
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return Number{}, false
	}
}

// ResolveNumber applies the MIN/MAX/DEF/UP/DOWN substitution rule
// against a command-supplied range, returning the literal value a
// callback should act on. UP and DOWN are resolved relative to
// current, stepping by step (clamped to [min, max]); NAN and INF
// pass through unchanged since they name themselves.
func ResolveNumber(n Number, min, max, def, current, step float64) float64 {
	switch n.Special {
	case NumMin:
		return min
	case NumMax:
		return max
	case NumDef:
		return def
	case NumUp:
		v := current + step
		if v > max {
			return max
		}
		return v
	case NumDown:
		v := current - step
		if v < min {
			return min
		}
		return v
	default:
		return n.Value
	}
}
