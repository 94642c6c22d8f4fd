package main

import (
	"os"
	"testing"

	"github.com/rcornwell/n64cop/config/configparser"
	"github.com/rcornwell/n64cop/cop1"
	"github.com/rcornwell/n64cop/cop2"
)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "fixture-*.cfg")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	if _, err := f.WriteString(body); err != nil {
		t.Fatalf("WriteString failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return f.Name()
}

func TestFixtureLoadCOP1(t *testing.T) {
	c1 := cop1.New()
	c2 := cop2.New()
	registerFixtureModels(c1, c2)

	name := writeFixture(t, "# comment\nCOP1 01 4048f5c3\n")
	if err := configparser.LoadConfigFile(name); err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}

	if got, want := c1.Reg(1), uint64(0x4048f5c3); got != want {
		t.Errorf("COP1 reg 1 got: %x wanted: %x", got, want)
	}
}

// COP2 fixture values are big-endian observed order: lane 0 first, and
// Reg must echo that same order straight back.
func TestFixtureLoadCOP2Lanes(t *testing.T) {
	c1 := cop1.New()
	c2 := cop2.New()
	registerFixtureModels(c1, c2)

	name := writeFixture(t, "COP2 00 0001,0002,0003,0004,0005,0006,0007,0008\n")
	if err := configparser.LoadConfigFile(name); err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}

	want := [16]byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00, 0x05, 0x00, 0x06, 0x00, 0x07, 0x00, 0x08}
	if got := c2.Reg(0); got != want {
		t.Errorf("COP2 reg 0 got: %x wanted: %x", got, want)
	}
}

func TestFixtureLoadDmem(t *testing.T) {
	c1 := cop1.New()
	c2 := cop2.New()
	registerFixtureModels(c1, c2)

	name := writeFixture(t, "DMEM 0010 00,01,02,03,04,05,06,07\n")
	if err := configparser.LoadConfigFile(name); err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}

	dmem := c2.DMEM()
	for i := 0; i < 8; i++ {
		if got, want := dmem[0x10+i], byte(i); got != want {
			t.Errorf("dmem[%x] got: %x wanted: %x", 0x10+i, got, want)
		}
	}
}

func TestFixtureLoadUnknownModel(t *testing.T) {
	c1 := cop1.New()
	c2 := cop2.New()
	registerFixtureModels(c1, c2)

	name := writeFixture(t, "BOGUS 00 01\n")
	if err := configparser.LoadConfigFile(name); err == nil {
		t.Errorf("expected an error for an unregistered model, got nil")
	}
}
