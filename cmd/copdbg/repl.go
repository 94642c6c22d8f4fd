/*
 * N64 coprocessor debugger - Interactive command reader.
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

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/rcornwell/n64cop/cop1"
	"github.com/rcornwell/n64cop/cop2"
	"github.com/rcornwell/n64cop/util/hex"
)

var replCommands = []string{
	"c1", "c2", "lwc2", "swc2", "reg1", "reg2", "dmem", "quit", "help",
}

func completeCmd(line string) []string {
	matches := []string{}
	for _, c := range replCommands {
		if strings.HasPrefix(c, line) {
			matches = append(matches, c)
		}
	}
	return matches
}

// session bundles the two coprocessor cores and the shared GPR stand-in
// that COP2's Lwc/Swc read base addresses from and its CFC2/CTC2 (via Op)
// transfer through.
type session struct {
	c1      *cop1.Cop1
	c2      *cop2.Cop2
	cpuRegs [32]uint64
}

func (s *session) dumpReg1(idx int) string {
	return fmt.Sprintf("f%d = %016x", idx, s.c1.Reg(idx))
}

func (s *session) dumpReg2(idx int) string {
	var b strings.Builder
	v := s.c2.Reg(idx)
	hex.FormatBytes(&b, true, v[:])
	return fmt.Sprintf("v%d = %s", idx, b.String())
}

func (s *session) dumpDmem(addr, length int) string {
	dmem := s.c2.DMEM()
	var b strings.Builder
	end := addr + length
	if end > len(dmem) {
		end = len(dmem)
	}
	hex.FormatBytes(&b, true, dmem[addr:end])
	return b.String()
}

// execute runs one debugger command line, returning the textual reply and
// whether the session should end.
func (s *session) execute(line string) (string, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, nil
	}

	switch fields[0] {
	case "quit", "q":
		return "", true, nil

	case "help":
		return strings.Join(replCommands, " "), false, nil

	case "c1":
		opcode, err := parseHex32(fields, 1)
		if err != nil {
			return "", false, err
		}
		s.c1.Op(opcode)
		return "ok", false, nil

	case "c2":
		opcode, err := parseHex32(fields, 1)
		if err != nil {
			return "", false, err
		}
		s.c2.Op(&s.cpuRegs, opcode)
		return "ok", false, nil

	case "lwc2":
		opcode, err := parseHex32(fields, 1)
		if err != nil {
			return "", false, err
		}
		s.c2.Lwc(opcode, &s.cpuRegs)
		return "ok", false, nil

	case "swc2":
		opcode, err := parseHex32(fields, 1)
		if err != nil {
			return "", false, err
		}
		s.c2.Swc(opcode, &s.cpuRegs)
		return "ok", false, nil

	case "reg1":
		idx, err := parseInt(fields, 1)
		if err != nil {
			return "", false, err
		}
		return s.dumpReg1(idx), false, nil

	case "reg2":
		idx, err := parseInt(fields, 1)
		if err != nil {
			return "", false, err
		}
		return s.dumpReg2(idx), false, nil

	case "dmem":
		addr, err := parseHexArg(fields, 1)
		if err != nil {
			return "", false, err
		}
		length, err := parseInt(fields, 2)
		if err != nil {
			length = 16
		}
		return s.dumpDmem(addr, length), false, nil

	default:
		return "", false, errors.New("unknown command: " + fields[0])
	}
}

func parseHex32(fields []string, idx int) (uint32, error) {
	v, err := parseHexArg(fields, idx)
	return uint32(v), err
}

func parseHexArg(fields []string, idx int) (int, error) {
	if idx >= len(fields) {
		return 0, errors.New("missing argument")
	}
	v, err := strconv.ParseUint(fields[idx], 16, 32)
	return int(v), err
}

func parseInt(fields []string, idx int) (int, error) {
	if idx >= len(fields) {
		return 0, errors.New("missing argument")
	}
	v, err := strconv.Atoi(fields[idx])
	return v, err
}

// consoleReader drives an interactive copdbg session, single-stepping
// COP1/COP2 opcodes and dumping register/DMEM state from the prompt.
func consoleReader(s *session) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		return completeCmd(l)
	})

	for {
		command, err := line.Prompt("copdbg> ")
		if err == nil {
			line.AppendHistory(command)
			reply, quit, cmdErr := s.execute(command)
			if cmdErr != nil {
				fmt.Println("Error: " + cmdErr.Error())
			} else if reply != "" {
				fmt.Println(reply)
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		fmt.Println("error reading line: " + err.Error())
	}
}
