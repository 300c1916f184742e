// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Command taosurl inspects TAOS connection URLs.
//
//	taosurl accept URL
//	taosurl parse [-p key=value]... URL
//	taosurl describe [-p key=value]... [-arrow] URL
//
// accept reports whether the URL is a TAOS URL. parse prints the resolved
// configuration with the layer each value came from. describe lists every
// recognized option.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/taosdata/taos-adbc/driver/taos"
	"golang.org/x/exp/slices"
)

const usage = `usage: taosurl [-v] <command> [flags] URL

commands:
  accept    report whether URL is a TAOS connection URL
  parse     print the resolved configuration
  describe  list every recognized option
`

// overrideFlags collects repeated -p key=value flags.
type overrideFlags map[string]string

func (o overrideFlags) String() string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+o[k])
	}
	return strings.Join(pairs, ",")
}

func (o overrideFlags) Set(value string) error {
	key, val, found := strings.Cut(value, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	o[key] = val
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("taosurl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := global.Bool("v", false, "log resolution details to stderr")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() < 1 {
		global.Usage()
		return 2
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	var err error
	switch cmd {
	case "accept":
		err = runAccept(rest, stdout, stderr)
	case "parse":
		err = runParse(rest, stdout, stderr, logger)
	case "describe":
		err = runDescribe(rest, stdout, stderr, logger)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}

	var exit exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exit):
		return int(exit)
	default:
		fmt.Fprintln(stderr, "taosurl:", err)
		return 1
	}
}

// exitError ends the command with the given status and no message.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func parseCommand(name string, args []string, stderr io.Writer, extra func(*flag.FlagSet)) (string, overrideFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	overrides := make(overrideFlags)
	if name != "accept" {
		fs.Var(overrides, "p", "override `key=value`, may be repeated")
	}
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return "", nil, exitError(2)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "%s expects exactly one URL\n", name)
		return "", nil, exitError(2)
	}
	return fs.Arg(0), overrides, nil
}

func runAccept(args []string, stdout, stderr io.Writer) error {
	candidate, _, err := parseCommand("accept", args, stderr, nil)
	if err != nil {
		return err
	}
	ok, err := taos.AcceptsURL(candidate)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, ok)
	if !ok {
		return exitError(1)
	}
	return nil
}

func runParse(args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	candidate, overrides, err := parseCommand("parse", args, stderr, nil)
	if err != nil {
		return err
	}
	if _, err := taos.AcceptsURL(candidate); err != nil {
		return err
	}

	cfg := taos.NewResolver(nil).Resolve(candidate, overrides)
	logger.Debug("resolved", "overrides", len(overrides), "config", cfg)

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, key := range cfg.Keys() {
		value, _ := cfg.Get(key)
		layer, _ := cfg.Layer(key)
		if key == taos.OptionKeyPassword {
			value = "****"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", key, value, layer)
	}
	return w.Flush()
}

func runDescribe(args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	var asArrow bool
	candidate, overrides, err := parseCommand("describe", args, stderr, func(fs *flag.FlagSet) {
		fs.BoolVar(&asArrow, "arrow", false, "print the listing as an Arrow record")
	})
	if err != nil {
		return err
	}
	if _, err := taos.AcceptsURL(candidate); err != nil {
		return err
	}

	infos := taos.NewResolver(nil).PropertyInfo(candidate, overrides)
	logger.Debug("described", "options", len(infos))

	if asArrow {
		rec := taos.PropertyInfoRecord(memory.DefaultAllocator, infos)
		defer rec.Release()
		for i, col := range rec.Columns() {
			fmt.Fprintf(stdout, "%s: %v\n", rec.ColumnName(i), col)
		}
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVALUE\tREQUIRED\tDESCRIPTION")
	for _, info := range infos {
		value := info.Value
		if info.Name == taos.OptionKeyPassword && value != "" {
			value = "****"
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", info.Name, value, info.Required, info.Description)
	}
	return w.Flush()
}
