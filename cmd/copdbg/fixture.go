/*
 * N64 coprocessor debugger - Fixture file loader.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Fixture files seed COP1/COP2/DMEM state before a copdbg session, using
// config/configparser's trimmed model/address/value-list line protocol:
//
//	COP1 <reg-hex> <hex64>
//	COP2 <reg-hex> <lane0-hex16>,<lane1-hex16>,...,<lane7-hex16>
//	DMEM <addr-hex> <byte0-hex8>,<byte1-hex8>,...
//
// COP2 and DMEM values are given big-endian observed order: lane 0 (or
// the byte at <addr-hex>) comes first, matching cop2.Reg/SetReg's
// contract.
package main

import (
	"fmt"
	"strconv"

	"github.com/rcornwell/n64cop/config/configparser"
	"github.com/rcornwell/n64cop/cop1"
	"github.com/rcornwell/n64cop/cop2"
)

// registerFixtureModels wires the COP1/COP2/DMEM fixture models into
// configparser against the given coprocessor instances.
func registerFixtureModels(c1 *cop1.Cop1, c2 *cop2.Cop2) {
	configparser.RegisterModel("COP1", func(addr uint32, values []string) error {
		if len(values) != 1 {
			return fmt.Errorf("COP1 fixture: expected one value, got %d", len(values))
		}
		v, err := strconv.ParseUint(values[0], 16, 64)
		if err != nil {
			return err
		}
		c1.SetReg(int(addr), v)
		return nil
	})

	configparser.RegisterModel("COP2", func(addr uint32, values []string) error {
		var reg [16]byte
		for lane := 0; lane < 8 && lane < len(values); lane++ {
			v, err := strconv.ParseUint(values[lane], 16, 16)
			if err != nil {
				return err
			}
			reg[lane*2] = byte(v >> 8)
			reg[lane*2+1] = byte(v)
		}
		c2.SetReg(int(addr), reg)
		return nil
	})

	configparser.RegisterModel("DMEM", func(addr uint32, values []string) error {
		dmem := c2.DMEM()
		pos := int(addr)
		for _, word := range values {
			v, err := strconv.ParseUint(word, 16, 8)
			if err != nil {
				return err
			}
			if pos < len(dmem) {
				dmem[pos] = byte(v)
			}
			pos++
		}
		return nil
	})
}
