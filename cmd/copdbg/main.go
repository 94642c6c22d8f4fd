/*
 * N64 coprocessor debugger - Main process.
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

// Command copdbg is a standalone harness around the cop1/cop2 cores: it
// loads a fixture file to seed register/DMEM state, then either runs an
// interactive opcode-stepping REPL or, without -i, simply reports the
// seeded state and exits.
package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/n64cop/config/configparser"
	"github.com/rcornwell/n64cop/cop1"
	"github.com/rcornwell/n64cop/cop2"
	"github.com/rcornwell/n64cop/util/logger"
)

func main() {
	optFixture := getopt.StringLong("fixture", 'c', "", "Fixture file to load")
	optInteractive := getopt.BoolLong("interactive", 'i', "Run interactive REPL")
	optDebug := getopt.BoolLong("debug", 'd', "Enable debug logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	level := new(slog.LevelVar)
	if *optDebug {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
	log := slog.New(logger.NewHandler(nil, &slog.HandlerOptions{Level: level, AddSource: false}, optDebug))
	slog.SetDefault(log)
	cop1.SetLogger(log)
	cop2.SetLogger(log)

	c1 := cop1.New()
	c2 := cop2.New()
	registerFixtureModels(c1, c2)

	if *optFixture != "" {
		if err := configparser.LoadConfigFile(*optFixture); err != nil {
			log.Error("loading fixture: " + err.Error())
			os.Exit(1)
		}
	}

	s := &session{c1: c1, c2: c2}

	if *optInteractive {
		consoleReader(s)
		return
	}

	for i := 0; i < 32; i++ {
		log.Info(s.dumpReg1(i))
	}
	for i := 0; i < 32; i++ {
		log.Info(s.dumpReg2(i))
	}
}
