package scpi

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// maxBlockPayload is the largest payload size expressible in a
// definite-length arbitrary block's 9-digit length field.
const maxBlockPayload = 999999999

// ResultInt32 emits a decimal int32 scalar result.
func (c *Context) ResultInt32(value int32) {
	c.writeScalar(strconv.FormatInt(int64(value), 10))
}

// ResultInt64 emits a decimal int64 scalar result.
func (c *Context) ResultInt64(value int64) {
	c.writeScalar(strconv.FormatInt(value, 10))
}

// ResultUInt32 emits a decimal uint32 scalar result.
func (c *Context) ResultUInt32(value uint32) {
	c.writeScalar(strconv.FormatUint(uint64(value), 10))
}

// ResultIntBase emits an integer in SCPI's non-decimal numeric
// notation: "#B"/"#Q"/"#H" followed by the digits of value in base
// 2/8/16. base values other than 2, 8, 16 fall back to base 10 with no
// prefix. strconv derives its place values from base at call time, so
// this does not reproduce the original C implementation's bug of using
// a fixed 0x8000000000000000 divisor when converting 64-bit values to
// octal (see SPEC_FULL.md).
func (c *Context) ResultIntBase(value int64, base int) {
	var prefix string
	switch base {
	case 2:
		prefix = "#B"
	case 8:
		prefix = "#Q"
	case 16:
		prefix = "#H"
	default:
		base = 10
	}
	digits := strconv.FormatInt(value, base)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}
	if base == 16 {
		digits = strings.ToUpper(digits)
	}
	if negative {
		c.writeScalar("-" + prefix + digits)
	} else {
		c.writeScalar(prefix + digits)
	}
}

// ResultFloat emits a float32 scalar in fixed scientific notation with
// six fractional digits (e.g. "1.250000E+00"), the exponential form
// SCPI measurement results conventionally use.
func (c *Context) ResultFloat(value float32) {
	c.writeScalar(strconv.FormatFloat(float64(value), 'E', 6, 32))
}

// ResultDouble emits a float64 scalar in the same fixed scientific
// notation as ResultFloat.
func (c *Context) ResultDouble(value float64) {
	c.writeScalar(strconv.FormatFloat(value, 'E', 6, 64))
}

// ResultBool emits 0 or 1.
func (c *Context) ResultBool(value bool) {
	if value {
		c.writeScalar("1")
	} else {
		c.writeScalar("0")
	}
}

// ResultMnemonic emits unquoted character data, e.g. a choice's name.
func (c *Context) ResultMnemonic(data string) {
	c.writeScalar(data)
}

// ResultText emits double-quoted text. Embedded double quotes are
// doubled, which is the correct IEEE-488.2 behaviour (the original C
// source this core is grounded on left a TODO acknowledging it never
// did this — see SPEC_FULL.md's resolved open question).
func (c *Context) ResultText(text string) {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(text, `"`, `""`))
	b.WriteByte('"')
	c.writeScalar(b.String())
}

func (c *Context) writeScalar(s string) {
	c.writeDelimiter()
	c.writeRaw([]byte(s))
	c.outputCount++
}

// ResultArbitraryBlock emits data as an IEEE-488.2 definite-length
// arbitrary block: "#" + one digit giving the count of length digits +
// that many decimal digits + the raw payload. Per spec.md §4.6, a
// payload whose length would need more than 9 digits is rejected:
// nothing is written and false is returned so the caller can report it.
func (c *Context) ResultArbitraryBlock(data []byte) bool {
	if len(data) > maxBlockPayload {
		return false
	}
	c.writeBlockHeader(len(data))
	c.writeRaw(data)
	c.outputBinaryCount++
	return true
}

func (c *Context) writeBlockHeader(payloadLen int) {
	c.writeDelimiter()
	lengthStr := strconv.Itoa(payloadLen)
	c.writeRaw([]byte{'#', byte('0' + len(lengthStr))})
	c.writeRaw([]byte(lengthStr))
}

// byteOrder returns the binary.ByteOrder matching format, defaulting
// to network (big-endian) byte order per spec.md §6.
func byteOrder(format ArrayFormat) binary.ByteOrder {
	if format == FormatBinaryLittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ResultArrayInt32 emits a []int32 as either an ASCII "{a,b,c}" list or
// an IEEE-488.2 binary block of 4-byte samples, depending on format.
// FormatASCII ignores byte order.
func (c *Context) ResultArrayInt32(values []int32, format ArrayFormat) bool {
	if format == FormatASCII {
		c.writeASCIIArray(len(values), func(i int) string {
			return strconv.FormatInt(int64(values[i]), 10)
		})
		return true
	}
	payload := make([]byte, 4*len(values))
	order := byteOrder(format)
	for i, v := range values {
		order.PutUint32(payload[i*4:], uint32(v))
	}
	return c.ResultArbitraryBlock(payload)
}

// ResultArrayFloat64 emits a []float64 as either an ASCII list or an
// IEEE-488.2 binary block of 8-byte IEEE-754 samples.
func (c *Context) ResultArrayFloat64(values []float64, format ArrayFormat) bool {
	if format == FormatASCII {
		c.writeASCIIArray(len(values), func(i int) string {
			return strconv.FormatFloat(values[i], 'G', -1, 64)
		})
		return true
	}
	payload := make([]byte, 8*len(values))
	order := byteOrder(format)
	for i, v := range values {
		order.PutUint64(payload[i*8:], math.Float64bits(v))
	}
	return c.ResultArbitraryBlock(payload)
}

func (c *Context) writeASCIIArray(n int, at func(i int) string) {
	c.writeDelimiter()
	c.writeRaw([]byte("{"))
	for i := 0; i < n; i++ {
		if i > 0 {
			c.writeRaw([]byte(","))
		}
		c.writeRaw([]byte(at(i)))
	}
	c.writeRaw([]byte("}"))
	c.outputCount++
}
