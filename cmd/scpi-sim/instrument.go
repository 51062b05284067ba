package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	scpi "github.com/instrument-tools/scpi-core"
)

// instrument holds the simulated state a real power-supply-flavoured
// SCPI device would keep: output on/off, the programmed source values,
// and the IEEE-488.2 status registers common commands report on.
type instrument struct {
	mu sync.Mutex

	voltage float64
	current float64
	output  bool

	eventStatusEnable  uint8
	eventStatusReg     uint8
	serviceRequestMask uint8

	log *logrus.Entry
}

func newInstrument(log *logrus.Entry) *instrument {
	return &instrument{voltage: 0, current: 0, log: log}
}

func (i *instrument) reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.voltage = 0
	i.current = 0
	i.output = false
	i.eventStatusReg = 0
}

// commandTable builds the full set of commands this simulator answers,
// including the IEEE-488.2 mandated common commands and a small
// SOURce/MEASure/OUTPut/SYSTem:ERRor command tree.
func (i *instrument) commandTable() []*scpi.Command {
	return []*scpi.Command{
		{Pattern: "*IDN?", Callback: i.idn},
		{Pattern: "*RST", Callback: i.rst},
		{Pattern: "*CLS", Callback: i.cls},
		{Pattern: "*ESE", Callback: i.ese},
		{Pattern: "*ESE?", Callback: i.eseQ},
		{Pattern: "*ESR?", Callback: i.esrQ},
		{Pattern: "*OPC", Callback: i.opc},
		{Pattern: "*OPC?", Callback: i.opcQ},
		{Pattern: "*SRE", Callback: i.sre},
		{Pattern: "*SRE?", Callback: i.sreQ},
		{Pattern: "*STB?", Callback: i.stbQ},
		{Pattern: "*TST?", Callback: i.tstQ},
		{Pattern: "*WAI", Callback: i.wai},

		{Pattern: "[:SOURce]:VOLTage[:LEVel][:IMMediate][:AMPLitude]", Callback: i.setVoltage},
		{Pattern: "[:SOURce]:VOLTage[:LEVel][:IMMediate][:AMPLitude]?", Callback: i.queryVoltage},
		{Pattern: "[:SOURce]:CURRent[:LEVel][:IMMediate][:AMPLitude]", Callback: i.setCurrent},
		{Pattern: "[:SOURce]:CURRent[:LEVel][:IMMediate][:AMPLitude]?", Callback: i.queryCurrent},

		{Pattern: "MEASure:VOLTage[:DC]?", Callback: i.measureVoltage},
		{Pattern: "MEASure:CURRent[:DC]?", Callback: i.measureCurrent},

		{Pattern: "OUTPut[:STATe]", Callback: i.setOutput},
		{Pattern: "OUTPut[:STATe]?", Callback: i.queryOutput},

		{Pattern: "SYSTem:ERRor[:NEXT]?", Callback: i.systemErrorNext},
		{Pattern: "SYSTem:ERRor:COUNt?", Callback: i.systemErrorCount},
	}
}

func (i *instrument) idn(c *scpi.Context) scpi.Result {
	mfr, model, serial, version := c.IDN()
	c.ResultText(mfr)
	c.ResultText(model)
	c.ResultText(serial)
	c.ResultText(version)
	return scpi.ResOK
}

func (i *instrument) rst(c *scpi.Context) scpi.Result {
	i.reset()
	i.log.Info("instrument reset")
	return scpi.ResOK
}

func (i *instrument) cls(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	i.eventStatusReg = 0
	i.mu.Unlock()
	for c.ErrorCount() > 0 {
		c.ErrorPop()
	}
	return scpi.ResOK
}

func (i *instrument) ese(c *scpi.Context) scpi.Result {
	v, ok := c.ParamInt32(true)
	if !ok {
		return scpi.ResErr
	}
	i.mu.Lock()
	i.eventStatusEnable = uint8(v)
	i.mu.Unlock()
	return scpi.ResOK
}

func (i *instrument) eseQ(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	defer i.mu.Unlock()
	c.ResultInt32(int32(i.eventStatusEnable))
	return scpi.ResOK
}

func (i *instrument) esrQ(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	v := i.eventStatusReg
	i.eventStatusReg = 0
	i.mu.Unlock()
	c.ResultInt32(int32(v))
	return scpi.ResOK
}

func (i *instrument) opc(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	i.eventStatusReg |= 0x01
	i.mu.Unlock()
	return scpi.ResOK
}

func (i *instrument) opcQ(c *scpi.Context) scpi.Result {
	c.ResultBool(true)
	return scpi.ResOK
}

func (i *instrument) sre(c *scpi.Context) scpi.Result {
	v, ok := c.ParamInt32(true)
	if !ok {
		return scpi.ResErr
	}
	i.mu.Lock()
	i.serviceRequestMask = uint8(v)
	i.mu.Unlock()
	return scpi.ResOK
}

func (i *instrument) sreQ(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	defer i.mu.Unlock()
	c.ResultInt32(int32(i.serviceRequestMask))
	return scpi.ResOK
}

func (i *instrument) stbQ(c *scpi.Context) scpi.Result {
	var stb uint8
	if c.ErrorCount() > 0 {
		stb |= 1 << 2
	}
	c.ResultInt32(int32(stb))
	return scpi.ResOK
}

func (i *instrument) tstQ(c *scpi.Context) scpi.Result {
	c.ResultInt32(0)
	return scpi.ResOK
}

func (i *instrument) wai(c *scpi.Context) scpi.Result {
	return scpi.ResOK
}

func (i *instrument) setVoltage(c *scpi.Context) scpi.Result {
	n, ok := c.ParamNumber(true)
	if !ok {
		return scpi.ResErr
	}
	i.mu.Lock()
	i.voltage = scpi.ResolveNumber(n, 0, 60, 0, i.voltage, 0.1)
	v := i.voltage
	i.mu.Unlock()
	i.log.WithField("voltage", v).Info("set voltage")
	return scpi.ResOK
}

func (i *instrument) queryVoltage(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	v := i.voltage
	i.mu.Unlock()
	c.ResultDouble(v)
	return scpi.ResOK
}

func (i *instrument) setCurrent(c *scpi.Context) scpi.Result {
	n, ok := c.ParamNumber(true)
	if !ok {
		return scpi.ResErr
	}
	i.mu.Lock()
	i.current = scpi.ResolveNumber(n, 0, 10, 0, i.current, 0.01)
	v := i.current
	i.mu.Unlock()
	i.log.WithField("current", v).Info("set current")
	return scpi.ResOK
}

func (i *instrument) queryCurrent(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	v := i.current
	i.mu.Unlock()
	c.ResultDouble(v)
	return scpi.ResOK
}

func (i *instrument) measureVoltage(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	v := i.voltage
	on := i.output
	i.mu.Unlock()
	if !on {
		v = 0
	}
	c.ResultDouble(v)
	return scpi.ResOK
}

func (i *instrument) measureCurrent(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	v := i.current
	on := i.output
	i.mu.Unlock()
	if !on {
		v = 0
	}
	c.ResultDouble(v)
	return scpi.ResOK
}

func (i *instrument) setOutput(c *scpi.Context) scpi.Result {
	on, ok := c.ParamBool(true)
	if !ok {
		return scpi.ResErr
	}
	i.mu.Lock()
	i.output = on
	i.mu.Unlock()
	i.log.WithField("output", on).Info("set output state")
	return scpi.ResOK
}

func (i *instrument) queryOutput(c *scpi.Context) scpi.Result {
	i.mu.Lock()
	on := i.output
	i.mu.Unlock()
	c.ResultBool(on)
	return scpi.ResOK
}

func (i *instrument) systemErrorNext(c *scpi.Context) scpi.Result {
	err := c.ErrorPop()
	if err == nil {
		c.ResultInt32(0)
		c.ResultText("No error")
		return scpi.ResOK
	}
	c.ResultInt32(int32(err.Code))
	c.ResultText(err.Info)
	return scpi.ResOK
}

func (i *instrument) systemErrorCount(c *scpi.Context) scpi.Result {
	c.ResultInt32(int32(c.ErrorCount()))
	return scpi.ResOK
}
