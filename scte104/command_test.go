package scte104

import (
	"errors"
	"testing"
)

func TestParseCommandSpliceNull(t *testing.T) {
	c, err := ParseCommand("OPID=SPLICE_NULL")
	if err != nil {
		t.Fatal(err)
	}
	if c.OpID != OpIDSpliceNull {
		t.Fatalf("OpID = %#x, want SPLICE_NULL", c.OpID)
	}
}

func TestParseCommandStartNormal(t *testing.T) {
	c, err := ParseCommand("OPID=SPLICE,SPLICE_TYPE=START_NORMAL,PRE_ROLL_TIME=8000,BREAK_DURATION=600,AUTO_RETURN")
	if err != nil {
		t.Fatal(err)
	}
	if c.OpID != OpIDSplice {
		t.Fatalf("OpID = %#x, want SPLICE", c.OpID)
	}
	if c.SpliceType != SpliceTypeStartNormal {
		t.Fatalf("SpliceType = %d, want START_NORMAL", c.SpliceType)
	}
	if c.PreRollTimeMS != 8000 {
		t.Fatalf("PreRollTimeMS = %d, want 8000", c.PreRollTimeMS)
	}
	if c.BreakDuration != 600 {
		t.Fatalf("BreakDuration = %d, want 600", c.BreakDuration)
	}
	if !c.AutoReturn {
		t.Fatal("AutoReturn = false, want true")
	}
}

func TestParseCommandStartImmediateDefaults(t *testing.T) {
	// S2: START_IMMEDIATE never takes PRE_ROLL_TIME; BREAK_DURATION given.
	c, err := ParseCommand("OPID=SPLICE SPLICE_TYPE=START_IMMEDIATE BREAK_DURATION=600")
	if err != nil {
		t.Fatal(err)
	}
	if c.PreRollTimeMS != defaultU16 {
		t.Fatalf("PreRollTimeMS = %d, want default %d", c.PreRollTimeMS, defaultU16)
	}
	if c.BreakDuration != 600 {
		t.Fatalf("BreakDuration = %d, want 600", c.BreakDuration)
	}
}

func TestParseCommandEndNormalIgnoresBreakDuration(t *testing.T) {
	c, err := ParseCommand("OPID=SPLICE,SPLICE_TYPE=END_NORMAL,PRE_ROLL_TIME=5000,BREAK_DURATION=600")
	if err != nil {
		t.Fatal(err)
	}
	if c.PreRollTimeMS != 5000 {
		t.Fatalf("PreRollTimeMS = %d, want 5000", c.PreRollTimeMS)
	}
	if c.BreakDuration != defaultU16 {
		t.Fatalf("BreakDuration = %d, want default %d (END_NORMAL doesn't take one)", c.BreakDuration, defaultU16)
	}
}

func TestParseCommandMissingOPID(t *testing.T) {
	_, err := ParseCommand("SPLICE_TYPE=START_NORMAL")
	if !errors.Is(err, ErrMissingOPID) {
		t.Fatalf("err = %v, want ErrMissingOPID", err)
	}
}

func TestParseCommandUnknownOPID(t *testing.T) {
	_, err := ParseCommand("OPID=BOGUS")
	if !errors.Is(err, ErrUnknownOPID) {
		t.Fatalf("err = %v, want ErrUnknownOPID", err)
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Token != "BOGUS" {
		t.Fatalf("err = %+v, want ConfigError{Token: BOGUS}", err)
	}
}

func TestParseCommandMissingSpliceType(t *testing.T) {
	_, err := ParseCommand("OPID=SPLICE")
	if !errors.Is(err, ErrMissingSpliceType) {
		t.Fatalf("err = %v, want ErrMissingSpliceType", err)
	}
}

func TestParseCommandUnknownSpliceType(t *testing.T) {
	_, err := ParseCommand("OPID=SPLICE,SPLICE_TYPE=SOMETHING_ELSE")
	if !errors.Is(err, ErrUnknownSpliceType) {
		t.Fatalf("err = %v, want ErrUnknownSpliceType", err)
	}
}

func TestParseCommandInvalidValue(t *testing.T) {
	_, err := ParseCommand("OPID=SPLICE,SPLICE_TYPE=START_NORMAL,PRE_ROLL_TIME=notanumber")
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}

func TestSplitCommandStartsAtZero(t *testing.T) {
	got := splitCommand("OPID=SPLICE_NULL")
	want := []string{"OPID", "SPLICE_NULL"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("splitCommand = %v, want %v", got, want)
	}
}

func TestGetParamKeyIsLastToken(t *testing.T) {
	_, found := getParam([]string{"OPID", "SPLICE", "AUTO_RETURN"}, "AUTO_RETURN")
	if !found {
		t.Fatal("getParam did not find trailing key")
	}
}

func TestGetParamMissingKey(t *testing.T) {
	_, found := getParam([]string{"OPID", "SPLICE"}, "PRE_ROLL_TIME")
	if found {
		t.Fatal("getParam found a key that isn't present")
	}
}
