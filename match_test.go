package scpi

import "testing"

func TestMatchKeyword(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"MEASure", "MEAS", true},
		{"MEASure", "MEASURE", true},
		{"MEASure", "MEASUR", false},
		{"MEASure", "MEA", false},
		{"MEASure", "MEASUREMENT", false},
		{"VOLTage", "VOLT", true},
		{"VOLTage", "VOLTAGE", true},
		{"CURRent", "CURR", true},
		{"CURRent", "curr", true},
		{"OUTPut", "OUTP", true},
		{"OUTPut", "OUTPUT", true},
	}
	for _, tt := range tests {
		if got := matchKeyword(tt.pattern, tt.value); got != tt.want {
			t.Errorf("matchKeyword(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
		}
	}
}

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		pattern string
		header  string
		want    bool
	}{
		{"MEASure:VOLTage?", "MEAS:VOLT?", true},
		{"MEASure:VOLTage?", "MEASURE:VOLTAGE?", true},
		{"MEASure:VOLTage?", "MEAS:VOLT", false},
		{"SOURce:VOLTage", "SOUR:VOLT", true},
		{"SOURce:CURRent", "SOUR:CURR", true},
		{"*IDN?", "*IDN?", true},
		{"*RST", "*RST", true},
		{"OUTPut", "OUTP", true},
		{"OUTPut", "OUTPUT", true},
		{"MEASure:VOLTage?", "MEAS:CURR?", false},
		{"SYSTem:ERRor[:NEXT]?", "SYST:ERR?", true},
		{"SYSTem:ERRor[:NEXT]?", "SYST:ERR:NEXT?", true},
		{"SYSTem:ERRor:COUNt?", "SYST:ERR:COUN?", true},
		{"[:SOURce]:VOLTage", "VOLT", true},
		{"[:SOURce]:VOLTage", "SOUR:VOLT", true},
	}
	for _, tt := range tests {
		if got := matchCommand(tt.pattern, tt.header); got != tt.want {
			t.Errorf("matchCommand(%q, %q) = %v, want %v", tt.pattern, tt.header, got, tt.want)
		}
	}
}

func TestMatchSuffixesCaptures(t *testing.T) {
	ok, suffixes := matchSuffixes("OUTPut#:STATe", "OUTP3:STAT", 1)
	if !ok {
		t.Fatal("expected match")
	}
	if len(suffixes) != 1 || suffixes[0] != 3 {
		t.Errorf("suffixes = %v, want [3]", suffixes)
	}

	ok, suffixes = matchSuffixes("OUTPut#:STATe", "OUTP:STAT", 1)
	if !ok {
		t.Fatal("expected match with default suffix")
	}
	if len(suffixes) != 1 || suffixes[0] != 1 {
		t.Errorf("suffixes = %v, want [1] (default)", suffixes)
	}
}

func TestComposeCompoundHeader(t *testing.T) {
	tests := []struct {
		prev, cur, want string
	}{
		{"", "VOLT", "VOLT"},
		{"SOUR:VOLT", "CURR", "SOUR:CURR"},
		{"SOUR:VOLT", ":CURR", ":CURR"},
		{"*RST", "VOLT", "VOLT"},
		{"VOLT", "CURR", "CURR"},
	}
	for _, tt := range tests {
		if got := composeCompoundHeader(tt.prev, tt.cur); got != tt.want {
			t.Errorf("composeCompoundHeader(%q, %q) = %q, want %q", tt.prev, tt.cur, got, tt.want)
		}
	}
}

func TestFindCommand(t *testing.T) {
	commands := []*Command{
		{Pattern: "MEASure:VOLTage?"},
		{Pattern: "*IDN?"},
	}
	if findCommand(commands, "MEAS:VOLT?") == nil {
		t.Error("expected to find MEASure:VOLTage?")
	}
	if findCommand(commands, "*IDN?") == nil {
		t.Error("expected to find *IDN?")
	}
	if findCommand(commands, "NONE:EXISTENT") != nil {
		t.Error("expected no match")
	}
}

func TestCommandSuffixes(t *testing.T) {
	cmd := &Command{Pattern: "OUTPut#:STATe"}
	got := commandSuffixes(cmd, "OUTP3:STAT", 2, 1)
	want := []int32{3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("commandSuffixes = %v, want %v", got, want)
		}
	}
}
