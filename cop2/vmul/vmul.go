// Package vmul supplies the twelve RSP multiply-accumulate kernels the
// vector unit dispatches on func code: vmulf/vmulu, the vmud family
// (replace the accumulator), and the vmac/vmad family (accumulate into
// it). Each kernel is a pure function of the two source lanes and the
// existing three-word accumulator, returning the destination register
// value and the new accumulator triple.
package vmul

// Kernel is the shared shape of all twelve multiply-accumulate
// instructions: eight 16-bit lanes in, the existing 48-bit-per-lane
// accumulator in, a result register and updated accumulator out.
type Kernel func(vs, vt, accLO, accMID, accHI [16]byte) (result, lo, mid, hi [16]byte)

// Table keys each kernel by its func code, the dispatch the vector unit
// uses directly.
var Table = map[uint32]Kernel{
	0x00: Vmulf,
	0x01: Vmulu,
	0x04: Vmudl,
	0x05: Vmudm,
	0x06: Vmudn,
	0x07: Vmudh,
	0x08: Vmacf,
	0x09: Vmacu,
	0x0C: Vmadl,
	0x0D: Vmadm,
	0x0E: Vmadn,
	0x0F: Vmadh,
}

func laneOffset(lane int) int {
	return (7 - lane) * 2
}

func toLanes(b [16]byte) [8]int16 {
	var lanes [8]int16
	for i := 0; i < 8; i++ {
		off := laneOffset(i)
		lanes[i] = int16(uint16(b[off]) | uint16(b[off+1])<<8)
	}
	return lanes
}

func fromLanes(lanes [8]int16) [16]byte {
	var b [16]byte
	for i := 0; i < 8; i++ {
		off := laneOffset(i)
		v := uint16(lanes[i])
		b[off] = byte(v)
		b[off+1] = byte(v >> 8)
	}
	return b
}

func satInt16(x int64) int16 {
	switch {
	case x > 0x7FFF:
		return 0x7FFF
	case x < -0x8000:
		return -0x8000
	default:
		return int16(x)
	}
}

func satUint16(x int64) int16 {
	switch {
	case x > 0xFFFF:
		return -1 // bit pattern 0xFFFF
	case x < 0:
		return 0
	default:
		return int16(uint16(x))
	}
}

// splitAccum decomposes a 48-bit-range signed value into the three 16-bit
// accumulator slices (lo/mid/hi), the hi slice sign-extended from bit 32.
func splitAccum(val int64) (lo, mid, hi int16) {
	return int16(val), int16(val >> 16), int16(val >> 32)
}

// joinAccum is splitAccum's inverse.
func joinAccum(lo, mid, hi int16) int64 {
	return (int64(hi) << 32) | (int64(uint16(mid)) << 16) | int64(uint16(lo))
}

func lanewise(vs, vt [16]byte, f func(vs, vt int16) (result, lo, mid, hi int16)) (result, lo, mid, hi [16]byte) {
	vsL, vtL := toLanes(vs), toLanes(vt)
	var rL, loL, midL, hiL [8]int16
	for i := 0; i < 8; i++ {
		rL[i], loL[i], midL[i], hiL[i] = f(vsL[i], vtL[i])
	}
	return fromLanes(rL), fromLanes(loL), fromLanes(midL), fromLanes(hiL)
}

// Vmulf is the signed fractional multiply: replaces the accumulator with
// the rounded, doubled product, sign-extended across lo/mid/hi; the
// result register receives the clamped mid slice.
func Vmulf(vs, vt, _, _, _ [16]byte) (result, lo, mid, hi [16]byte) {
	return lanewise(vs, vt, func(a, b int16) (r, l, m, h int16) {
		val := int64(a)*int64(b)*2 + 0x8000
		l, m, h = splitAccum(val)
		r = satInt16(val >> 16)
		return
	})
}

// Vmulu is Vmulf's unsigned-clamped sibling: same product, but the result
// register saturates to [0, 0xFFFF] instead of the signed range.
func Vmulu(vs, vt, _, _, _ [16]byte) (result, lo, mid, hi [16]byte) {
	return lanewise(vs, vt, func(a, b int16) (r, l, m, h int16) {
		val := int64(a)*int64(b)*2 + 0x8000
		l, m, h = splitAccum(val)
		r = satUint16(val >> 16)
		return
	})
}

// Vmudl is the unsigned x unsigned low-order product: LO receives the
// product's low 16 bits, MID/HI are zeroed, and the result is LO.
func Vmudl(vs, vt, _, _, _ [16]byte) (result, lo, mid, hi [16]byte) {
	return lanewise(vs, vt, func(a, b int16) (r, l, m, h int16) {
		prod := uint32(uint16(a)) * uint32(uint16(b))
		l = int16(uint16(prod))
		r = l
		return
	})
}

// Vmudm is the signed(vs) x unsigned(vt) product, split across LO/MID;
// the result is MID.
func Vmudm(vs, vt, _, _, _ [16]byte) (result, lo, mid, hi [16]byte) {
	return lanewise(vs, vt, func(a, b int16) (r, l, m, h int16) {
		val := int64(a) * int64(uint16(b))
		l, m, h = splitAccum(val)
		r = m
		return
	})
}

// Vmudn is the unsigned(vs) x signed(vt) product, symmetric to Vmudm.
func Vmudn(vs, vt, _, _, _ [16]byte) (result, lo, mid, hi [16]byte) {
	return lanewise(vs, vt, func(a, b int16) (r, l, m, h int16) {
		val := int64(uint16(a)) * int64(b)
		l, m, h = splitAccum(val)
		r = m
		return
	})
}

// Vmudh is the signed x signed high-order product: LO is zeroed, the
// product occupies MID/HI, and the result is HI.
func Vmudh(vs, vt, _, _, _ [16]byte) (result, lo, mid, hi [16]byte) {
	return lanewise(vs, vt, func(a, b int16) (r, l, m, h int16) {
		prod := int32(a) * int32(b)
		l = 0
		m = int16(prod)
		h = int16(prod >> 16)
		r = satInt16(int64(prod >> 16))
		return
	})
}

func accumulate(vs, vt, accLO, accMID, accHI [16]byte, product func(a, b int16) int64, resultOf func(val int64) int16) (result, lo, mid, hi [16]byte) {
	vsL, vtL := toLanes(vs), toLanes(vt)
	loL, midL, hiL := toLanes(accLO), toLanes(accMID), toLanes(accHI)

	var rL, nloL, nmidL, nhiL [8]int16
	for i := 0; i < 8; i++ {
		prev := joinAccum(loL[i], midL[i], hiL[i])
		val := prev + product(vsL[i], vtL[i])
		nloL[i], nmidL[i], nhiL[i] = splitAccum(val)
		rL[i] = resultOf(val)
	}
	return fromLanes(rL), fromLanes(nloL), fromLanes(nmidL), fromLanes(nhiL)
}

// Vmacf accumulates the signed fractional product (Vmulf's multiply,
// without its rounding bias) into the existing accumulator.
func Vmacf(vs, vt, accLO, accMID, accHI [16]byte) (result, lo, mid, hi [16]byte) {
	return accumulate(vs, vt, accLO, accMID, accHI,
		func(a, b int16) int64 { return int64(a) * int64(b) * 2 },
		func(val int64) int16 { return satInt16(val >> 16) })
}

// Vmacu is Vmacf's unsigned-clamped sibling.
func Vmacu(vs, vt, accLO, accMID, accHI [16]byte) (result, lo, mid, hi [16]byte) {
	return accumulate(vs, vt, accLO, accMID, accHI,
		func(a, b int16) int64 { return int64(a) * int64(b) * 2 },
		func(val int64) int16 { return satUint16(val >> 16) })
}

// Vmadl accumulates Vmudl's unsigned low-order product.
func Vmadl(vs, vt, accLO, accMID, accHI [16]byte) (result, lo, mid, hi [16]byte) {
	return accumulate(vs, vt, accLO, accMID, accHI,
		func(a, b int16) int64 { return int64(uint16(uint32(uint16(a)) * uint32(uint16(b)))) },
		func(val int64) int16 { return int16(uint16(val)) })
}

// Vmadm accumulates Vmudm's signed(vs) x unsigned(vt) product.
func Vmadm(vs, vt, accLO, accMID, accHI [16]byte) (result, lo, mid, hi [16]byte) {
	return accumulate(vs, vt, accLO, accMID, accHI,
		func(a, b int16) int64 { return int64(a) * int64(uint16(b)) },
		func(val int64) int16 { return int16(val >> 16) })
}

// Vmadn accumulates Vmudn's unsigned(vs) x signed(vt) product.
func Vmadn(vs, vt, accLO, accMID, accHI [16]byte) (result, lo, mid, hi [16]byte) {
	return accumulate(vs, vt, accLO, accMID, accHI,
		func(a, b int16) int64 { return int64(uint16(a)) * int64(b) },
		func(val int64) int16 { return int16(val >> 16) })
}

// Vmadh accumulates Vmudh's signed x signed high-order product.
func Vmadh(vs, vt, accLO, accMID, accHI [16]byte) (result, lo, mid, hi [16]byte) {
	return accumulate(vs, vt, accLO, accMID, accHI,
		func(a, b int16) int64 { return int64(a) * int64(b) << 16 },
		func(val int64) int16 { return satInt16(val >> 16) })
}
