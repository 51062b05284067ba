package scpi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newWriterContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	iface := &Interface{Write: func(data []byte) (int, error) { return out.Write(data) }}
	c := NewContext(nil, iface, 4096, Options{LineEnding: "\n"})
	return c, &out
}

func TestResultScalarsAreCommaDelimited(t *testing.T) {
	c, out := newWriterContext(t)
	c.ResultInt32(1)
	c.ResultDouble(2.5)
	c.ResultMnemonic("ON")
	c.writeMessageEnd()
	require.Equal(t, "1,2.500000E+00,ON\n", out.String())
}

func TestResultText(t *testing.T) {
	c, out := newWriterContext(t)
	c.ResultText(`say "hi"`)
	c.writeMessageEnd()
	require.Equal(t, `"say ""hi"""`+"\n", out.String())
}

func TestResultIntBase(t *testing.T) {
	c, out := newWriterContext(t)
	c.ResultIntBase(255, 16)
	c.writeMessageEnd()
	require.Equal(t, "#HFF\n", out.String())

	c, out = newWriterContext(t)
	c.ResultIntBase(-8, 8)
	c.writeMessageEnd()
	require.Equal(t, "-#Q10\n", out.String())
}

func TestResultArbitraryBlock(t *testing.T) {
	c, out := newWriterContext(t)
	ok := c.ResultArbitraryBlock([]byte("hello"))
	require.True(t, ok)
	c.writeMessageEnd()
	require.Equal(t, "#15hello", out.String(), "binary-only output gets no trailing newline")
}

func TestResultArbitraryBlockRejectsOversizedPayload(t *testing.T) {
	c, _ := newWriterContext(t)
	ok := c.ResultArbitraryBlock(make([]byte, maxBlockPayload+1))
	require.False(t, ok)
}

func TestResultArrayInt32ASCII(t *testing.T) {
	c, out := newWriterContext(t)
	ok := c.ResultArrayInt32([]int32{1, 2, 3}, FormatASCII)
	require.True(t, ok)
	c.writeMessageEnd()
	require.Equal(t, "{1,2,3}\n", out.String())
}

func TestResultArrayInt32Binary(t *testing.T) {
	c, out := newWriterContext(t)
	ok := c.ResultArrayInt32([]int32{1}, FormatBinaryBigEndian)
	require.True(t, ok)
	c.writeMessageEnd()
	require.Equal(t, "#14\x00\x00\x00\x01", out.String())
}

func TestResultArrayFloat64Binary(t *testing.T) {
	c, out := newWriterContext(t)
	ok := c.ResultArrayFloat64([]float64{1.0}, FormatBinaryLittleEndian)
	require.True(t, ok)
	c.writeMessageEnd()
	require.Equal(t, 11, out.Len()) // "#18" header + 8 bytes
}
