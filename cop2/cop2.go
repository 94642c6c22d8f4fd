/*
   N64 COP2 - RSP vector unit

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package cop2 emulates the RSP's 8-lane fixed point vector unit: the
// vector register file, the 48-bit-per-lane accumulator, the VCO carry/ne
// flag vectors, the element selector, and the byte-granular vector memory
// transfer unit against a 4 KiB DMEM.
package cop2

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/n64cop/cop2/vmul"
)

var logger = slog.Default()

// SetLogger overrides the package-level logger used for fatal diagnostics.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logical register indices, the 38-entry space external readers (a
// debugger, a state snapshot) must use via Reg/SetReg.
const (
	RegVCO      = 32
	RegVCC      = 33
	RegVCE      = 34
	RegAccumLO  = 35
	RegAccumMID = 36
	RegAccumHI  = 37
)

// Accumulator slice indices.
const (
	accLO = iota
	accMID
	accHI
)

// Cop2 is the RSP vector unit: 32 vector registers, a three-word
// accumulator, the VCO/VCC/VCE flag registers, and the DMEM the vector
// memory transfer unit reads and writes.
type Cop2 struct {
	vregs [32][16]byte
	accum [3][16]byte

	vcoCarry [16]byte
	vcoNE    [16]byte
	vcc      [16]byte
	vce      [16]byte

	dmem [4096]byte
}

// New returns a zero-initialized vector unit.
func New() *Cop2 {
	return &Cop2{}
}

// DMEM returns a pointer to the vector unit's 4 KiB data memory.
func (c *Cop2) DMEM() *[4096]byte {
	return &c.dmem
}

// Reg returns the 128-bit contents of logical register idx, observed in
// big-endian (architectural) byte order: byte 0 is lane 0's high byte.
func (c *Cop2) Reg(idx int) [16]byte {
	return externalView(c.rawReg(idx))
}

// SetReg stores v, given in the same big-endian observed order as Reg,
// into logical register idx.
func (c *Cop2) SetReg(idx int, v [16]byte) {
	c.setRawReg(idx, externalView(v))
}

// rawReg/setRawReg access a logical register in the vector unit's
// internal little-endian byte layout.
func (c *Cop2) rawReg(idx int) [16]byte {
	switch idx {
	case RegVCO:
		return u128FromUint64(uint64(c.vco())).bytesLE()
	case RegVCC:
		return u128FromUint64(uint64(c.getVCC())).bytesLE()
	case RegVCE:
		return u128FromUint64(uint64(c.getVCE())).bytesLE()
	case RegAccumLO:
		return c.accum[accLO]
	case RegAccumMID:
		return c.accum[accMID]
	case RegAccumHI:
		return c.accum[accHI]
	default:
		return c.vregs[idx&0x1F]
	}
}

func (c *Cop2) setRawReg(idx int, v [16]byte) {
	switch idx {
	case RegVCO:
		c.setVCO(uint16(readU128(v[:], true).lo))
	case RegVCC:
		c.setVCC(uint16(readU128(v[:], true).lo))
	case RegVCE:
		c.setVCE(uint16(readU128(v[:], true).lo))
	case RegAccumLO:
		c.accum[accLO] = v
	case RegAccumMID:
		c.accum[accMID] = v
	case RegAccumHI:
		c.accum[accHI] = v
	default:
		c.vregs[idx&0x1F] = v
	}
}

// externalView reverses the byte order between the vector unit's internal
// little-endian storage and the big-endian-observable external view of
// §9's design note: DMEM transfers and debugger reads must see lane 0 as
// the first byte.
func externalView(b [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = b[15-i]
	}
	return out
}

func (c *Cop2) vco() uint16 {
	carry := toLanes(c.vcoCarry)
	ne := toLanes(c.vcoNE)
	var res uint16
	for i := 0; i < 8; i++ {
		res |= uint16(carry[i]&1) << uint(i)
		res |= uint16(ne[i]&1) << uint(i+8)
	}
	return res
}

func (c *Cop2) setVCO(vco uint16) {
	var carry, ne [8]int16
	for i := 0; i < 8; i++ {
		carry[i] = int16((vco >> uint(i)) & 1)
		ne[i] = int16((vco >> uint(i+8)) & 1)
	}
	c.vcoCarry = fromLanes(carry)
	c.vcoNE = fromLanes(ne)
}

// getVCC/setVCC/getVCE/setVCE: §4.5's open question. VCC and VCE are
// stubs: reads always return 0 and writes are discarded, so a value
// written through CTC2 (or SetReg) is not read back by CFC2 (or Reg).
// The vcc/vce fields are not used.
func (c *Cop2) getVCC() uint16 { return 0 }
func (c *Cop2) setVCC(uint16)  {}
func (c *Cop2) getVCE() uint16 { return 0 }
func (c *Cop2) setVCE(uint16)  {}

func unimplemented(field string, value uint32, detail string) {
	s := fmt.Sprintf("COP2: unimplemented %s=%#x (%s)", field, value, detail)
	logger.Error(s, "field", field, "value", value, "detail", detail)
	panic(s)
}

// vte selector patterns, keyed by e (0..7); entries are architectural
// source-lane indices for each of the 8 destination lanes. e in 8..15 is
// a scalar broadcast of lane (e-8), handled separately.
var vteShuffle = [8][8]int{
	0: {0, 1, 2, 3, 4, 5, 6, 7},
	1: {0, 1, 2, 3, 4, 5, 6, 7},
	2: {0, 0, 2, 2, 4, 4, 6, 6},
	3: {1, 1, 3, 3, 5, 5, 7, 7},
	4: {0, 0, 0, 0, 4, 4, 4, 4},
	5: {1, 1, 1, 1, 5, 5, 5, 5},
	6: {2, 2, 2, 2, 6, 6, 6, 6},
	7: {3, 3, 3, 3, 7, 7, 7, 7},
}

// vte returns the vt operand of register rt permuted by element selector e.
func (c *Cop2) vte(rt, e int) [8]int16 {
	lanes := toLanes(c.vregs[rt&0x1F])
	if e >= 8 {
		bc := lanes[e-8]
		var out [8]int16
		for i := range out {
			out[i] = bc
		}
		return out
	}
	pattern := vteShuffle[e]
	var out [8]int16
	for i, src := range pattern {
		out[i] = lanes[src]
	}
	return out
}

// Op decodes and executes one COP2 instruction. cpuRegs stands in for the
// external CPU's general register file, the one narrow interface into the
// surrounding CPU this package is allowed (CFC2/CTC2 transfer through it).
func (c *Cop2) Op(cpuRegs *[32]uint64, opcode uint32) {
	if opcode&(1<<25) != 0 {
		c.vu(opcode)
		return
	}

	e := (opcode >> 21) & 0xF
	rt := int((opcode >> 16) & 0x1F)
	rs := int((opcode >> 11) & 0x1F)

	switch e {
	case 0x2: // CFC2
		switch rs {
		case 0:
			cpuRegs[rt] = uint64(c.vco())
		case 1:
			cpuRegs[rt] = uint64(c.getVCC())
		case 2:
			cpuRegs[rt] = uint64(c.getVCE())
		default:
			unimplemented("CFC2 rs", uint32(rs), "COP2 flag select")
		}
	case 0x6: // CTC2
		switch rs {
		case 0:
			c.setVCO(uint16(cpuRegs[rt]))
		case 1:
			c.setVCC(uint16(cpuRegs[rt]))
		case 2:
			c.setVCE(uint16(cpuRegs[rt]))
		default:
			unimplemented("CTC2 rs", uint32(rs), "COP2 flag select")
		}
	default:
		unimplemented("e", e, "COP2 non-VU opcode")
	}
}

func (c *Cop2) vu(opcode uint32) {
	fn := opcode & 0x3F
	e := int((opcode >> 21) & 0xF)
	vt := int((opcode >> 16) & 0x1F)
	vs := int((opcode >> 11) & 0x1F)
	vd := int((opcode >> 6) & 0x1F)

	if kernel, ok := vmul.Table[fn]; ok {
		result, lo, mid, hi := kernel(c.vregs[vs], fromLanes(c.vte(vt, e)), c.accum[accLO], c.accum[accMID], c.accum[accHI])
		c.vregs[vd] = result
		c.accum[accLO] = lo
		c.accum[accMID] = mid
		c.accum[accHI] = hi
		return
	}

	switch fn {
	case 0x10: // VADD
		c.vadd(vs, vt, e, vd)
	case 0x14: // VADDC
		c.vaddc(vs, vt, e, vd)
	case 0x1D: // VSAR
		c.vsar(e, vd)
	case 0x28: // VAND
		c.vlogical(vs, vt, e, vd, func(a, b u128) u128 { return a.and(b) })
	case 0x29: // VNAND
		c.vlogical(vs, vt, e, vd, func(a, b u128) u128 { return a.and(b).not() })
	case 0x2A: // VOR
		c.vlogical(vs, vt, e, vd, func(a, b u128) u128 { return a.or(b) })
	case 0x2B: // VNOR
		c.vlogical(vs, vt, e, vd, func(a, b u128) u128 { return a.or(b).not() })
	case 0x2C: // VXOR
		c.vlogical(vs, vt, e, vd, func(a, b u128) u128 { return a.xor(b) })
	case 0x2D: // VNXOR
		c.vlogical(vs, vt, e, vd, func(a, b u128) u128 { return a.xor(b).not() })
	default:
		unimplemented("func", fn, "COP2 VU opcode")
	}
}

func (c *Cop2) vadd(vs, vt, e, vd int) {
	vsL := toLanes(c.vregs[vs])
	vtL := c.vte(vt, e)
	carryL := toLanes(c.vcoCarry)

	min := min16(vsL, vtL)
	max := max16(vsL, vtL)

	c.vregs[vd] = fromLanes(satAdd16(satAdd16(min, carryL), max))
	c.accum[accLO] = fromLanes(addMod16(addMod16(vsL, vtL), carryL))
	c.vcoCarry = [16]byte{}
	c.vcoNE = [16]byte{}
}

func (c *Cop2) vaddc(vs, vt, e, vd int) {
	vsL := toLanes(c.vregs[vs])
	vtL := c.vte(vt, e)

	res := addMod16(vsL, vtL)
	c.vregs[vd] = fromLanes(res)
	c.accum[accLO] = fromLanes(res)
	c.vcoNE = [16]byte{}

	var carry [8]int16
	for i := range carry {
		// Unsigned-less-than of result vs vs, computed via signed compare
		// with the sign bit flipped: yields 1 when the add wrapped.
		a := vsL[i] ^ -0x8000
		b := res[i] ^ -0x8000
		if a > b {
			carry[i] = 1
		}
	}
	c.vcoCarry = fromLanes(carry)
}

func (c *Cop2) vsar(e, vd int) {
	switch e {
	case 0, 1, 2:
		c.vregs[vd] = [16]byte{}
	case 8, 9, 10:
		c.vregs[vd] = c.accum[2-(e-8)]
	default:
		unimplemented("VSAR e", uint32(e), "COP2 VSAR")
	}
}

func (c *Cop2) vlogical(vs, vt, e, vd int, op func(a, b u128) u128) {
	a := u128FromBytesLE(c.vregs[vs][:])
	b := u128FromBytesLE(fromLanesSlice(c.vte(vt, e)))
	res := op(a, b)
	bytes := res.bytesLE()
	c.vregs[vd] = bytes
	c.accum[accLO] = bytes
}

func fromLanesSlice(lanes [8]int16) []byte {
	b := fromLanes(lanes)
	return b[:]
}
