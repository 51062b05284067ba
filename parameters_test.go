package scpi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func paramTestContext(t *testing.T, data string) *Context {
	t.Helper()
	c, _ := newTestContext(t, nil)
	c.currentData = []byte(data)
	c.paramsPos = 0
	c.inputCount = 0
	return c
}

func TestParamInt32Decimal(t *testing.T) {
	c := paramTestContext(t, "42")
	v, ok := c.ParamInt32(true)
	require.True(t, ok)
	require.Equal(t, int32(42), v)
}

func TestParamInt32Hex(t *testing.T) {
	c := paramTestContext(t, "#HFF")
	v, ok := c.ParamInt32(true)
	require.True(t, ok)
	require.Equal(t, int32(255), v)
}

func TestParamInt32SuffixRejected(t *testing.T) {
	c := paramTestContext(t, "5V")
	_, ok := c.ParamInt32(true)
	require.False(t, ok)
	require.Equal(t, ErrSuffixNotAllowed, c.ErrorPop().Code)
}

func TestParamMissingMandatory(t *testing.T) {
	c := paramTestContext(t, "")
	_, ok := c.ParamInt32(true)
	require.False(t, ok)
	require.Equal(t, ErrMissingParameter, c.ErrorPop().Code)
}

func TestParamMissingOptional(t *testing.T) {
	c := paramTestContext(t, "")
	_, ok := c.ParamInt32(false)
	require.False(t, ok)
	require.Equal(t, 0, c.ErrorCount())
}

func TestParamTwoValuesRequireComma(t *testing.T) {
	c := paramTestContext(t, "1 2")
	v1, ok := c.ParamInt32(true)
	require.True(t, ok)
	require.Equal(t, int32(1), v1)

	_, ok = c.ParamInt32(true)
	require.False(t, ok)
	require.Equal(t, ErrInvalidSeparator, c.ErrorPop().Code)
}

func TestParamCommaSeparated(t *testing.T) {
	c := paramTestContext(t, "1, 2")
	v1, ok := c.ParamInt32(true)
	require.True(t, ok)
	require.Equal(t, int32(1), v1)
	v2, ok := c.ParamInt32(true)
	require.True(t, ok)
	require.Equal(t, int32(2), v2)
}

func TestParamDouble(t *testing.T) {
	c := paramTestContext(t, "-3.25e1")
	v, ok := c.ParamDouble(true)
	require.True(t, ok)
	require.Equal(t, -32.5, v)
}

func TestParamString(t *testing.T) {
	c := paramTestContext(t, `"say ""hi"""`)
	v, ok := c.ParamString(true)
	require.True(t, ok)
	require.Equal(t, `say "hi"`, v)
}

func TestParamStringMnemonic(t *testing.T) {
	c := paramTestContext(t, "MAX")
	v, ok := c.ParamString(true)
	require.True(t, ok)
	require.Equal(t, "MAX", v)
}

func TestParamBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"0", false},
		{"ON", true},
		{"off", false},
	}
	for _, tt := range tests {
		c := paramTestContext(t, tt.in)
		v, ok := c.ParamBool(true)
		require.True(t, ok, tt.in)
		require.Equal(t, tt.want, v, tt.in)
	}
}

func TestParamChoice(t *testing.T) {
	choices := []ChoiceDef{
		{Name: "MINimum", Tag: 1},
		{Name: "MAXimum", Tag: 2},
	}
	c := paramTestContext(t, "MIN")
	v, ok := c.ParamChoice(choices, true)
	require.True(t, ok)
	require.Equal(t, int32(1), v)

	c = paramTestContext(t, "BOGUS")
	_, ok = c.ParamChoice(choices, true)
	require.False(t, ok)
	require.Equal(t, ErrIllegalParameterValue, c.ErrorPop().Code)
}

func TestParamArbitraryBlock(t *testing.T) {
	c := paramTestContext(t, "#15hello")
	data, ok := c.ParamArbitraryBlock(true)
	require.True(t, ok)
	require.Equal(t, "hello", string(data))
}
