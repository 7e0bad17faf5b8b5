// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package main

import (
	"fmt"
	"os"

	"riscvlint/config"
	"riscvlint/diagnostic"
	"riscvlint/driver"
	"riscvlint/lint"
	"riscvlint/parser"
	"riscvlint/reader"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "riscvlint",
		Short: "riscvlint statically analyzes RISC-V assembly for control-flow and calling-convention bugs",
	}
	root.AddCommand(newLintCmd())
	return root
}

func newLintCmd() *cobra.Command {
	var (
		jsonOut  bool
		noColor  bool
		confPath string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "lint <path...>",
		Short: "Run every lint pass over one or more RISC-V assembly files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.StandardLogger()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			conf := config.Default()
			if confPath != "" {
				c, err := config.Load(confPath)
				if err != nil {
					return err
				}
				conf = c
			}

			out := colorable.NewColorableStdout()
			palette := diagnostic.ColorPalette()
			if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
				palette = diagnostic.NoColorPalette()
			}

			var allDiags []lint.Diagnostic
			fr := reader.NewFSReader()
			hadErr := false

			for _, path := range args {
				diags, err := lintOneFile(path, fr, conf, log)
				allDiags = append(allDiags, diags...)
				if err != nil {
					hadErr = true
					fmt.Fprintf(os.Stderr, "riscvlint: %s: %v\n", path, err)
				}
			}

			if jsonOut {
				doc, err := diagnostic.MarshalDocument(diagnostic.FromManager(&lint.DiagnosticManager{Diagnostics: allDiags}, fr))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(doc))
			} else {
				diagnostic.WriteHuman(out, allDiags, fr, palette)
			}

			if hadErr {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit diagnostics as a single JSON document")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI color in human output")
	cmd.Flags().StringVar(&confPath, "config", "", "path to a YAML file overriding lint levels")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log pass timing and structural detail")

	return cmd
}

// lintOneFile parses, builds, and lints a single entry file. An
// unreadable entry file or a CFG-construction failure is returned as an
// error so the caller can report it and keep going on the remaining
// files; a CFG failure also comes back as its one diagnostic. Recoverable
// parse errors are logged as warnings. Lint findings never abort
// anything and are always returned alongside a nil error.
func lintOneFile(path string, fr reader.FileReader, conf *config.Config, log *logrus.Logger) ([]lint.Diagnostic, error) {
	nodes, perrs, err := parser.Parse(path, fr)
	if err != nil {
		return nil, err
	}
	for _, perr := range perrs {
		log.Warnf("%s: %s", perr.Pos, perr.Msg)
	}

	m := &driver.Manager{Log: log}
	c, err := m.GenFullCFG(nodes)
	if err != nil {
		if d, ok := driver.CfgErrorDiagnostic(err); ok {
			return []lint.Diagnostic{d}, err
		}
		return nil, err
	}

	return m.RunDiagnostics(c, conf).Diagnostics, nil
}
