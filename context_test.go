package scpi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, commands []*Command) (*Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	iface := &Interface{
		Write: func(data []byte) (int, error) { return out.Write(data) },
	}
	c := NewContext(commands, iface, 4096, Options{LineEnding: "\n"})
	return c, &out
}

func TestContextIDN(t *testing.T) {
	c, _ := newTestContext(t, nil)
	c.SetIDN("Acme", "Model1", "SN1", "1.0")
	mfr, model, serial, version := c.IDN()
	require.Equal(t, "Acme", mfr)
	require.Equal(t, "Model1", model)
	require.Equal(t, "SN1", serial)
	require.Equal(t, "1.0", version)
}

func TestContextDispatchesSimpleQuery(t *testing.T) {
	commands := []*Command{
		{Pattern: "MEASure:VOLTage?", Callback: func(c *Context) Result {
			c.ResultDouble(1.5)
			return ResOK
		}},
	}
	c, out := newTestContext(t, commands)
	err := c.Input([]byte("MEAS:VOLT?\n"))
	require.NoError(t, err)
	require.Equal(t, "1.500000E+00\n", out.String())
}

func TestContextCompoundInheritance(t *testing.T) {
	var seen []string
	commands := []*Command{
		{Pattern: "SOURce:VOLTage", Callback: func(c *Context) Result {
			seen = append(seen, "volt")
			return ResOK
		}},
		{Pattern: "SOURce:CURRent", Callback: func(c *Context) Result {
			seen = append(seen, "curr")
			return ResOK
		}},
	}
	c, _ := newTestContext(t, commands)
	err := c.Input([]byte("SOUR:VOLT 1;CURR 2\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"volt", "curr"}, seen)
}

func TestContextUndefinedHeaderPushesError(t *testing.T) {
	c, _ := newTestContext(t, nil)
	err := c.Input([]byte("BOGUS:HEADER\n"))
	require.NoError(t, err)
	require.Equal(t, 1, c.ErrorCount())
	require.Equal(t, ErrUndefinedHeader, c.ErrorPop().Code)
}

func TestContextFragmentedInputMatchesWholeInput(t *testing.T) {
	commands := []*Command{
		{Pattern: "MEASure:VOLTage?", Callback: func(c *Context) Result {
			c.ResultDouble(2.5)
			return ResOK
		}},
	}

	c1, out1 := newTestContext(t, commands)
	require.NoError(t, c1.Input([]byte("MEAS:VOLT?\n")))

	c2, out2 := newTestContext(t, commands)
	msg := []byte("MEAS:VOLT?\n")
	for _, b := range msg {
		require.NoError(t, c2.Input([]byte{b}))
	}
	require.Equal(t, out1.String(), out2.String())
}

func TestContextParameterNotAllowed(t *testing.T) {
	commands := []*Command{
		{Pattern: "*RST", Callback: func(c *Context) Result { return ResOK }},
	}
	c, _ := newTestContext(t, commands)
	require.NoError(t, c.Input([]byte("*RST 1\n")))
	require.Equal(t, ErrParameterNotAllowed, c.ErrorPop().Code)
}

func TestContextExecutionErrorSynthesized(t *testing.T) {
	commands := []*Command{
		{Pattern: "*TST?", Callback: func(c *Context) Result { return ResErr }},
	}
	c, _ := newTestContext(t, commands)
	require.NoError(t, c.Input([]byte("*TST?\n")))
	require.Equal(t, ErrExecutionError, c.ErrorPop().Code)
}

func TestContextCommandNumbers(t *testing.T) {
	var got []int32
	commands := []*Command{
		{Pattern: "OUTPut#:STATe", Callback: func(c *Context) Result {
			got = c.CommandNumbers(1, 1)
			return ResOK
		}},
	}
	c, _ := newTestContext(t, commands)
	require.NoError(t, c.Input([]byte("OUTP3:STAT\n")))
	require.Equal(t, []int32{3}, got)
}
