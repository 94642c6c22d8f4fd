package cop1

import (
	"math"
	"math/rand"
	"testing"
)

const testCycles int = 1000

func encodeOp(fmtField, ft, fs, fd, fn uint32) uint32 {
	return (0x11 << 26) | (fmtField << 21) | (ft << 16) | (fs << 11) | (fd << 6) | fn
}

func TestRegRoundTrip(t *testing.T) {
	c := New()
	for i := 0; i < 32; i++ {
		v := uint64(i)*0x1111111111 + 1
		c.SetReg(i, v)
		if got := c.Reg(i); got != v {
			t.Errorf("reg %d round trip got: %x wanted: %x", i, got, v)
		}
	}
}

func TestMulSingle(t *testing.T) {
	c := New()
	c.SetReg(1, uint64(math.Float32bits(2.0)))
	c.SetReg(2, uint64(math.Float32bits(3.0)))

	c.Op(encodeOp(fmtSingle, 2, 1, 3, funcMul))

	got := uint32(c.Reg(3))
	want := math.Float32bits(6.0)
	if got != want {
		t.Errorf("MUL.s got: %x wanted: %x", got, want)
	}
}

func TestAddDouble(t *testing.T) {
	c := New()
	c.SetReg(1, math.Float64bits(1.5))
	c.SetReg(2, math.Float64bits(2.25))

	c.Op(encodeOp(fmtDouble, 2, 1, 3, funcAdd))

	got := c.Reg(3)
	want := math.Float64bits(3.75)
	if got != want {
		t.Errorf("ADD.d got: %x wanted: %x", got, want)
	}
}

func TestSqrtAbsNeg(t *testing.T) {
	c := New()
	c.SetReg(1, uint64(math.Float32bits(4.0)))
	c.Op(encodeOp(fmtSingle, 0, 1, 2, funcSqrt))
	if got, want := uint32(c.Reg(2)), math.Float32bits(2.0); got != want {
		t.Errorf("SQRT.s got: %x wanted: %x", got, want)
	}

	c.SetReg(1, uint64(math.Float32bits(-5.0)))
	c.Op(encodeOp(fmtSingle, 0, 1, 2, funcAbs))
	if got, want := uint32(c.Reg(2)), math.Float32bits(5.0); got != want {
		t.Errorf("ABS.s got: %x wanted: %x", got, want)
	}

	c.SetReg(1, uint64(math.Float32bits(5.0)))
	c.Op(encodeOp(fmtSingle, 0, 1, 2, funcNeg))
	if got, want := uint32(c.Reg(2)), math.Float32bits(-5.0); got != want {
		t.Errorf("NEG.s got: %x wanted: %x", got, want)
	}
}

// Banker's round: halves go to the even integer.
func TestRoundWBankers(t *testing.T) {
	cases := []struct {
		f    float32
		want int32
	}{
		{1.5, 2},  // half, rounds up to even 2
		{2.5, 2},  // half, rounds down to even 2
		{-1.5, -2},
		{-2.5, -2},
		{0.5, 0},
		{1.4, 1},
		{1.6, 2},
	}

	c := New()
	for _, tc := range cases {
		c.SetReg(1, uint64(math.Float32bits(tc.f)))
		c.Op(encodeOp(fmtSingle, 0, 1, 2, funcRoundW))
		got := int32(uint32(c.Reg(2)))
		if got != tc.want {
			t.Errorf("ROUND.W.s(%v) got: %d wanted: %d", tc.f, got, tc.want)
		}
	}
}

func TestTruncCeilFloorW(t *testing.T) {
	c := New()

	c.SetReg(1, uint64(math.Float32bits(1.9)))
	c.Op(encodeOp(fmtSingle, 0, 1, 2, funcTruncW))
	if got, want := int32(uint32(c.Reg(2))), int32(1); got != want {
		t.Errorf("TRUNC.W.s got: %d wanted: %d", got, want)
	}

	c.SetReg(1, uint64(math.Float32bits(1.1)))
	c.Op(encodeOp(fmtSingle, 0, 1, 2, funcCeilW))
	if got, want := int32(uint32(c.Reg(2))), int32(2); got != want {
		t.Errorf("CEIL.W.s got: %d wanted: %d", got, want)
	}

	c.SetReg(1, uint64(math.Float32bits(1.9)))
	c.Op(encodeOp(fmtSingle, 0, 1, 2, funcFloorW))
	if got, want := int32(uint32(c.Reg(2))), int32(1); got != want {
		t.Errorf("FLOOR.W.s got: %d wanted: %d", got, want)
	}
}

func TestRoundLDouble(t *testing.T) {
	c := New()
	c.SetReg(1, math.Float64bits(1234.5))
	c.Op(encodeOp(fmtDouble, 0, 1, 2, funcRoundL))
	got := int64(c.Reg(2))
	want := int64(1234) // 1234.5 rounds to even 1234
	if got != want {
		t.Errorf("ROUND.L.d got: %d wanted: %d", got, want)
	}
}

func TestConvertOutOfRangePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on out-of-range conversion, got none")
		}
	}()

	c := New()
	c.SetReg(1, uint64(math.Float32bits(1e20)))
	c.Op(encodeOp(fmtSingle, 0, 1, 2, funcTruncW))
}

func TestUnimplementedFuncPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on unimplemented func, got none")
		}
	}()

	c := New()
	c.Op(encodeOp(fmtSingle, 0, 1, 2, 0x3F))
}

// TestRandFloat exercises the rounding law over many random magnitudes:
// for integer k, (k+0.5) and (k-0.5) both round to the nearest even.
func TestRandFloat(t *testing.T) {
	rnum := rand.New(rand.NewSource(125))
	c := New()

	for range testCycles {
		k := float64(rnum.Intn(2000) - 1000)
		even := k
		if math.Mod(even, 2) != 0 {
			even++
		}

		c.SetReg(1, math.Float64bits(k+0.5))
		c.Op(encodeOp(fmtDouble, 0, 1, 2, funcRoundL))
		if got := int64(c.Reg(2)); got != int64(even) {
			t.Errorf("bankers round(%v+0.5) got: %d wanted: %d", k, got, int64(even))
		}

		evenBelow := k
		if math.Mod(evenBelow, 2) != 0 {
			evenBelow--
		}
		c.SetReg(1, math.Float64bits(k-0.5))
		c.Op(encodeOp(fmtDouble, 0, 1, 2, funcRoundL))
		if got := int64(c.Reg(2)); got != int64(evenBelow) {
			t.Errorf("bankers round(%v-0.5) got: %d wanted: %d", k, got, int64(evenBelow))
		}
	}
}
