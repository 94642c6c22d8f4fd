/*
   N64 COP1 - MIPS64 scalar floating point unit

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

// Package cop1 emulates the MIPS64 scalar floating point coprocessor: the
// f32/f64 arithmetic unit and the four-rounding-mode float-to-integer
// conversion unit.
package cop1

import (
	"fmt"
	"log/slog"
)

var logger = slog.Default()

// SetLogger overrides the package-level logger used for fatal diagnostics.
func SetLogger(l *slog.Logger) {
	logger = l
}

// fmt field values selecting single or double precision.
const (
	fmtSingle = 16
	fmtDouble = 17
)

// Function codes, bits [5:0] of the opcode.
const (
	funcAdd    = 0x00
	funcSub    = 0x01
	funcMul    = 0x02
	funcDiv    = 0x03
	funcSqrt   = 0x04
	funcAbs    = 0x05
	funcNeg    = 0x07
	funcRoundL = 0x08 // round.l  - banker's rounding to i64
	funcTruncL = 0x09
	funcCeilL  = 0x0A
	funcFloorL = 0x0B
	funcRoundW = 0x0C // round.w - banker's rounding to i32
	funcTruncW = 0x0D
	funcCeilW  = 0x0E
	funcFloorW = 0x0F
)

// Cop1 is the MIPS64 scalar floating point register file and opcode
// dispatcher. The zero value is not usable; construct with New.
type Cop1 struct {
	regs [32]uint64

	// Pass-through control/status registers; no behavioral contract.
	fir  uint64
	fccr uint64
	fexr uint64
	fenr uint64
	fcsr uint64
}

// New returns a zero-initialized COP1 register file.
func New() *Cop1 {
	return &Cop1{}
}

// Reg returns the raw 64-bit contents of floating point register idx.
func (c *Cop1) Reg(idx int) uint64 {
	return c.regs[idx&0x1F]
}

// SetReg stores the raw 64-bit value v into floating point register idx.
func (c *Cop1) SetReg(idx int, v uint64) {
	c.regs[idx&0x1F] = v
}

// unimplemented logs a structured diagnostic then aborts the emulation.
// There is no recoverable error path for an unimplemented COP1 opcode or
// an out-of-range conversion; both represent hardware behavior this core
// does not model, and continuing would silently desynchronize guest code.
func unimplemented(field string, value uint32, detail string) {
	s := fmt.Sprintf("COP1: unimplemented %s=%#x (%s)", field, value, detail)
	logger.Error(s, "field", field, "value", value, "detail", detail)
	panic(s)
}

// Op decodes and executes one COP1 instruction.
func (c *Cop1) Op(opcode uint32) {
	format := (opcode >> 21) & 0x1F
	fn := opcode & 0x3F
	fs := int((opcode >> 11) & 0x1F)
	ft := int((opcode >> 16) & 0x1F)
	fd := int((opcode >> 6) & 0x1F)

	switch format {
	case fmtSingle:
		fop[float32]{c: c}.exec(fn, fs, ft, fd)
	case fmtDouble:
		fop[float64]{c: c}.exec(fn, fs, ft, fd)
	default:
		unimplemented("fmt", format, "COP1 fmt")
	}
}
