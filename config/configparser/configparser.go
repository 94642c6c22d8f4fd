/*
 * Configuration file parser
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

// Package configparser reads line-oriented fixture files of the form
//
//	<model> <hex-address> <value>[,<value>...]
//
// '#' starts a trailing comment, blank lines are ignored. Each model
// keyword dispatches to a handler registered with RegisterModel, carrying
// the fixture line's hex address and its comma/space-separated value
// tokens. This is a purpose-built trim of the line-protocol idiom down to
// the one grammar cmd/copdbg's fixture loader actually needs.
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Model is a fixture-line handler: addr is the hex value following the
// model keyword, values are its remaining tokens split on whitespace and
// commas.
type Model func(addr uint32, values []string) error

var models = map[string]Model{}

var lineNumber int

// RegisterModel associates a model keyword (case-insensitive) with the
// handler invoked for each fixture line that starts with it. Intended to
// be called once per model before LoadConfigFile.
func RegisterModel(mod string, fn Model) {
	models[strings.ToUpper(mod)] = fn
}

// LoadConfigFile reads name and dispatches every non-comment, non-blank
// line to its registered model handler.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		line, readErr := reader.ReadString('\n')
		lineNumber++
		if len(line) == 0 && readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}

		if err := parseLine(line); err != nil {
			return err
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}

// parseLine dispatches one fixture line to its model handler.
func parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if len(fields) < 2 {
		return fmt.Errorf("line %d: %q requires a hex address", lineNumber, fields[0])
	}

	mod := strings.ToUpper(fields[0])
	fn, ok := models[mod]
	if !ok {
		return fmt.Errorf("line %d: unregistered model %q", lineNumber, fields[0])
	}

	addr, err := strconv.ParseUint(fields[1], 16, 32)
	if err != nil {
		return fmt.Errorf("line %d: bad address %q: %w", lineNumber, fields[1], err)
	}

	var values []string
	for _, field := range fields[2:] {
		values = append(values, strings.Split(field, ",")...)
	}

	return fn(uint32(addr), values)
}
