package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"gos/internal/config"
	"gos/pkg/compiler"
	"gos/pkg/lexer"
	"gos/pkg/parser"
	"gos/pkg/vm"
)

const (
	replHistoryFile = ".gos_history"
	replPromptMain  = "gos> "
	replPromptCont  = "...> "
)

// cmdRepl drives the bytecode pipeline interactively, grounded on
// daios-ai-msg's cmd/msg REPL loop: liner for line editing and persisted
// history, a single long-lived VM whose compiled functions and top-level
// variables survive across prompts.
func cmdRepl(_ []string) error {
	opts, err := loadOptions("")
	if err != nil {
		return err
	}

	fmt.Println("gos REPL - Ctrl+D to exit")
	session := newReplSession(opts)

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return replPipedLoop(session)
	}
	return replInteractiveLoop(session)
}

// replInteractiveLoop drives the prompt with liner's line editing and
// history persistence, for a real terminal.
func replInteractiveLoop(session *replSession) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, replHistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		line, err := ln.Prompt(replPromptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return nil
		}

		ln.AppendHistory(line)
		if err := session.eval(line); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
		}
	}
}

// replPipedLoop skips liner entirely when stdin isn't a terminal: no line
// editing or history to offer, and liner's raw-mode setup only fights a
// non-interactive pipe.
func replPipedLoop(session *replSession) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return nil
		}
		if err := session.eval(line); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
		}
	}
	return scanner.Err()
}

// replSession keeps one Compiler and one VM alive for the whole REPL run.
// Each accepted line is appended to the Compiler's still-open top-level
// scope, so a `let` on one line keeps its slot (and its value, since the
// VM's slots array is never reset) on every later line. Only the
// instruction range the line just compiled is executed, by resuming the
// same VM at that offset rather than rebuilding one from scratch.
//
// The optimizer's dead-function elimination is skipped here on purpose: it
// treats each Program it's handed as the whole world, so a `fun` declared
// on a line with no call in that same line would be optimized away before
// a later line ever got to call it.
type replSession struct {
	opts config.Options
	comp *compiler.Compiler
	m    *vm.VM
}

func newReplSession(opts config.Options) *replSession {
	comp := compiler.New(opts)
	m := vm.New(comp.Chunk(), opts, os.Stdout, os.Stdin)
	return &replSession{opts: opts, comp: comp, m: m}
}

func (s *replSession) eval(line string) error {
	tokens, err := lexer.Lex(line)
	if err != nil {
		return err
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		return err
	}

	start, err := s.comp.CompileLine(prog)
	if err != nil {
		return err
	}
	return s.m.RunFrom(start)
}
