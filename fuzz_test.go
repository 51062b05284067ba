package scpi

import "testing"

// FuzzInput feeds arbitrary byte streams through a Context exactly the
// way a live transport would, checking only that the driver never
// panics and that re-feeding the same bytes as a single Input call
// produces the same output as feeding them one byte at a time — the
// fragmentation invariant this package's streaming design exists to
// satisfy.
func FuzzInput(f *testing.F) {
	seeds := []string{
		"*IDN?\n",
		"MEAS:VOLT? 5V\n",
		"SOUR:VOLT 1;CURR 2\n",
		"OUTP ON\n",
		"#15hello\n",
		"(@1,3:5)\n",
		":SYST:ERR?\n",
		"\"unterminated\n",
		"#99999999999999999\n",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	commands := []*Command{
		{Pattern: "*IDN?", Callback: func(c *Context) Result {
			c.ResultText("a")
			c.ResultText("b")
			c.ResultText("c")
			c.ResultText("d")
			return ResOK
		}},
		{Pattern: "MEASure:VOLTage?", Callback: func(c *Context) Result {
			v, ok := c.ParamDouble(false)
			if ok {
				c.ResultDouble(v)
			} else {
				c.ResultDouble(0)
			}
			return ResOK
		}},
		{Pattern: "SOURce:VOLTage", Callback: func(c *Context) Result {
			c.ParamDouble(true)
			return ResOK
		}},
		{Pattern: "SOURce:CURRent", Callback: func(c *Context) Result {
			c.ParamDouble(true)
			return ResOK
		}},
		{Pattern: "OUTPut", Callback: func(c *Context) Result {
			c.ParamBool(true)
			return ResOK
		}},
		{Pattern: "SYSTem:ERRor?", Callback: func(c *Context) Result {
			if err := c.ErrorPop(); err != nil {
				c.ResultInt32(int32(err.Code))
			} else {
				c.ResultInt32(0)
			}
			return ResOK
		}},
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		whole := runFuzzInput(commands, [][]byte{data})

		chunks := make([][]byte, len(data))
		for i, b := range data {
			chunks[i] = []byte{b}
		}
		piecewise := runFuzzInput(commands, chunks)

		if whole != piecewise {
			t.Fatalf("fragmentation mismatch: whole=%q piecewise=%q", whole, piecewise)
		}
	})
}

func runFuzzInput(commands []*Command, chunks [][]byte) string {
	var out []byte
	iface := &Interface{Write: func(data []byte) (int, error) {
		out = append(out, data...)
		return len(data), nil
	}}
	c := NewContext(commands, iface, 65536, Options{LineEnding: "\n"})
	for _, chunk := range chunks {
		c.Input(chunk)
	}
	c.Input(nil)
	return string(out)
}
