package cop2

import "encoding/binary"

// u128 is a 128-bit unsigned value, hi holding bits [127:64] and lo holding
// bits [63:0]. The vector unit's bit-blit primitives (write_partial_left,
// write_partial_right) and the rotate used by vector loads/stores operate
// on values this wide; Go has no native 128-bit integer, so this is the
// minimal arithmetic needed to port those primitives directly.
type u128 struct {
	hi, lo uint64
}

func u128AllOnes() u128 {
	return u128{^uint64(0), ^uint64(0)}
}

func u128FromUint64(v uint64) u128 {
	return u128{0, v}
}

func (a u128) not() u128 {
	return u128{^a.hi, ^a.lo}
}

func (a u128) and(b u128) u128 {
	return u128{a.hi & b.hi, a.lo & b.lo}
}

func (a u128) or(b u128) u128 {
	return u128{a.hi | b.hi, a.lo | b.lo}
}

func (a u128) xor(b u128) u128 {
	return u128{a.hi ^ b.hi, a.lo ^ b.lo}
}

// shl is a logical left shift; shifting by 128 or more yields zero.
func (a u128) shl(n uint) u128 {
	switch {
	case n == 0:
		return a
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{a.lo << (n - 64), 0}
	default:
		return u128{(a.hi << n) | (a.lo >> (64 - n)), a.lo << n}
	}
}

// shr is a logical (zero-filling) right shift.
func (a u128) shr(n uint) u128 {
	switch {
	case n == 0:
		return a
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{0, a.hi >> (n - 64)}
	default:
		return u128{a.hi >> n, (a.lo >> n) | (a.hi << (64 - n))}
	}
}

func (a u128) rotl(n uint) u128 {
	n %= 128
	if n == 0 {
		return a
	}
	return a.shl(n).or(a.shr(128 - n))
}

func u128FromBytesBE(b []byte) u128 {
	return u128{binary.BigEndian.Uint64(b[0:8]), binary.BigEndian.Uint64(b[8:16])}
}

func (a u128) bytesBE() [16]byte {
	var out [16]byte
	binary.BigEndian.PutUint64(out[0:8], a.hi)
	binary.BigEndian.PutUint64(out[8:16], a.lo)
	return out
}

func u128FromBytesLE(b []byte) u128 {
	return u128{binary.LittleEndian.Uint64(b[8:16]), binary.LittleEndian.Uint64(b[0:8])}
}

func (a u128) bytesLE() [16]byte {
	var out [16]byte
	binary.LittleEndian.PutUint64(out[0:8], a.lo)
	binary.LittleEndian.PutUint64(out[8:16], a.hi)
	return out
}

func readU128(b []byte, littleEndian bool) u128 {
	if littleEndian {
		return u128FromBytesLE(b)
	}
	return u128FromBytesBE(b)
}

func writeU128(b []byte, v u128, littleEndian bool) {
	var out [16]byte
	if littleEndian {
		out = v.bytesLE()
	} else {
		out = v.bytesBE()
	}
	copy(b, out[:])
}

// writePartialRight writes the high nbits of src into dst starting at
// bit-offset skipBits from the MSB, leaving the rest of dst untouched.
func writePartialRight(dst []byte, src u128, skipBits, nbits int, littleEndian bool) {
	mask := u128AllOnes()
	if nbits < 128 {
		mask = mask.shl(uint(128 - nbits))
	}
	if skipBits < 128 {
		mask = mask.shr(uint(skipBits))
		src = src.shr(uint(skipBits))
	} else {
		mask = u128{}
		src = u128{}
	}

	d := readU128(dst, littleEndian)
	d = d.and(mask.not()).or(src.and(mask))
	writeU128(dst, d, littleEndian)
}

// writePartialLeft writes the low (128-skipBits) bits of src into dst,
// left-shifted by skipBits.
func writePartialLeft(dst []byte, src u128, skipBits int, littleEndian bool) {
	mask := u128AllOnes()
	if skipBits < 128 {
		mask = mask.shl(uint(skipBits))
		src = src.shl(uint(skipBits))
	} else {
		mask = u128{}
		src = u128{}
	}

	d := readU128(dst, littleEndian)
	d = d.and(mask.not()).or(src.and(mask))
	writeU128(dst, d, littleEndian)
}
