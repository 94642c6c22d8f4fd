package cop1

import "math"

// floatType is the set of host float kinds COP1 operates over. fop is
// generic over it instead of dispatching through an interface value,
// mirroring the tagged {F32, F64} dispatch called for by the coprocessor's
// own design notes: a type parameter replaces what would otherwise be a
// runtime interface dispatch.
type floatType interface {
	~float32 | ~float64
}

// fop binds a Cop1 register file to one concrete float width for the
// duration of a single instruction's execution.
type fop[F floatType] struct {
	c *Cop1
}

// toBits and fromBits round-trip a register's raw 64-bit storage through
// the concrete float width F, zero-extending f32 values per spec (the
// upper 32 bits of an f32-valued register slot are zero on write).
func toBits[F floatType](v uint64) F {
	var zero F
	switch any(zero).(type) {
	case float32:
		return F(math.Float32frombits(uint32(v)))
	case float64:
		return F(math.Float64frombits(v))
	default:
		panic("cop1: unreachable float width")
	}
}

func fromBits[F floatType](f F) uint64 {
	switch v := any(f).(type) {
	case float32:
		return uint64(math.Float32bits(v))
	case float64:
		return math.Float64bits(v)
	default:
		panic("cop1: unreachable float width")
	}
}

func sqrtF[F floatType](f F) F {
	return F(math.Sqrt(float64(f)))
}

// bankersRound implements round-half-to-even: round to nearest, and when
// the input sits exactly halfway between two integers, resolve to the
// even one. math.Round always rounds halves away from zero, so the halfway
// case is detected and corrected explicitly.
func bankersRound(x float64) float64 {
	y := math.Round(x)
	if math.Abs(x-y) == 0.5 {
		return math.Round(x*0.5) * 2.0
	}
	return y
}

func (o fop[F]) get(idx int) F {
	return toBits[F](o.c.Reg(idx))
}

func (o fop[F]) set(idx int, v F) {
	o.c.SetReg(idx, fromBits(v))
}

// exec performs the arithmetic or conversion selected by fn on fs/ft,
// writing the result to fd.
func (o fop[F]) exec(fn uint32, fs, ft, fd int) {
	switch fn {
	case funcAdd:
		o.set(fd, o.get(fs)+o.get(ft))
	case funcSub:
		o.set(fd, o.get(fs)-o.get(ft))
	case funcMul:
		o.set(fd, o.get(fs)*o.get(ft))
	case funcDiv:
		o.set(fd, o.get(fs)/o.get(ft))
	case funcSqrt:
		o.set(fd, sqrtF(o.get(fs)))
	case funcAbs:
		v := o.get(fs)
		if v < 0 {
			v = -v
		}
		o.set(fd, v)
	case funcNeg:
		o.set(fd, -o.get(fs))
	case funcRoundL:
		o.c.SetReg(fd, uint64(convertToInt64(o, fs, bankersRound)))
	case funcTruncL:
		o.c.SetReg(fd, uint64(convertToInt64(o, fs, math.Trunc)))
	case funcCeilL:
		o.c.SetReg(fd, uint64(convertToInt64(o, fs, math.Ceil)))
	case funcFloorL:
		o.c.SetReg(fd, uint64(convertToInt64(o, fs, math.Floor)))
	case funcRoundW:
		o.c.SetReg(fd, uint64(uint32(convertToInt32(o, fs, bankersRound))))
	case funcTruncW:
		o.c.SetReg(fd, uint64(uint32(convertToInt32(o, fs, math.Trunc))))
	case funcCeilW:
		o.c.SetReg(fd, uint64(uint32(convertToInt32(o, fs, math.Ceil))))
	case funcFloorW:
		o.c.SetReg(fd, uint64(uint32(convertToInt32(o, fs, math.Floor))))
	default:
		unimplemented("func", fn, "COP1 func")
	}
}

// convertToInt64 rounds o.get(fs) with round, then range-checks against
// the signed 64-bit bounds before truncating. Go's float-to-int64
// conversion is undefined behavior on overflow, unlike Rust's checked
// to_i64(), so the bounds must be verified explicitly rather than relying
// on the cast.
func convertToInt64[F floatType](o fop[F], fs int, round func(float64) float64) int64 {
	x := round(float64(o.get(fs)))
	if x < math.MinInt64 || x >= -math.MinInt64 {
		unimplemented("conversion", uint32(fs), "out-of-range f-to-i64")
	}
	return int64(x)
}

func convertToInt32[F floatType](o fop[F], fs int, round func(float64) float64) int32 {
	x := round(float64(o.get(fs)))
	if x < math.MinInt32 || x > math.MaxInt32 {
		unimplemented("conversion", uint32(fs), "out-of-range f-to-i32")
	}
	return int32(x)
}
