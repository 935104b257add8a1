// Command gos is the driver for the gos toolchain: it wires the
// preprocessor, lexer, parser, optimizer, compiler, and VM together behind
// a small set of subcommands.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gos/internal/config"
)

const appName = "gos"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "compile":
		err = cmdCompile(args)
	case "run":
		err = cmdRun(args)
	case "ast":
		err = cmdAST(args)
	case "preprocess":
		err = cmdPreprocess(args)
	case "dis":
		err = cmdDis(args)
	case "interpret":
		err = cmdRun(args) // delegates to the same compile+run bytecode path
	case "repl":
		err = cmdRepl(args)
	case "snapshot":
		err = cmdSnapshot(args)
	case "resume":
		err = cmdResume(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		if ec, ok := err.(exitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// exitCoder lets a subcommand set a specific process exit status, used by
// `run`/`interpret` to propagate the VM's `exit n` status code.
type exitCoder interface {
	error
	ExitCode() int
}

type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitError) ExitCode() int { return e.code }

func usage() {
	fmt.Printf(`gos - a small stack-based bytecode language toolchain

Usage:
  %s compile <file>            Preprocess/lex/parse/optimize/compile to a .gbc file
  %s run <file>                Run a .gos source file, or a .gbc chunk directly
  %s interpret <file>          Alias for run (bytecode VM, kept for interface parity)
  %s ast <file>                Print the parsed and optimized AST
  %s preprocess <file>         Print the expanded source
  %s dis [--cbor] <file>       Disassemble a .gos source file or a .gbc chunk (or export CBOR)
  %s repl                      Start an interactive read-eval-print loop
  %s snapshot <file> -o <out>  Run to completion, then hibernate the final VM state to <out>
  %s resume <snapshot>         Resume a hibernated VM from a snapshot archive

`, appName, appName, appName, appName, appName, appName, appName, appName, appName)
}

// loadOptions looks for gos.toml beside the source file, falling back to
// the current directory, then to config.Default().
func loadOptions(sourcePath string) (config.Options, error) {
	candidates := []string{"gos.toml"}
	if sourcePath != "" {
		candidates = append([]string{filepath.Join(filepath.Dir(sourcePath), "gos.toml")}, candidates...)
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return config.Load(c)
		}
	}
	return config.Default(), nil
}

func isBytecodeFile(path string) bool {
	return strings.HasSuffix(path, ".gbc")
}
