package main

import (
	"fmt"
	"os"

	"gos/internal/logging"
	"gos/pkg/vm"
)

func cmdRun(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s run <file>", appName)
	}
	path := args[0]

	opts, err := loadOptions(path)
	if err != nil {
		return err
	}

	chunk, err := loadChunk(path, opts)
	if err != nil {
		return err
	}

	logging.Debugf("running %s: %d bytes of bytecode, %d constants, maxSlot=%d",
		path, len(chunk.Code), len(chunk.Constants), chunk.MaxSlot)

	m := vm.New(chunk, opts, os.Stdout, os.Stdin)
	if err := m.Run(); err != nil {
		return err
	}
	if m.Exited && m.ExitCode != 0 {
		return exitError{code: m.ExitCode}
	}
	return nil
}
