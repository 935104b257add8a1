package main

import (
	"fmt"
	"os"

	"gos/pkg/vm"
)

// cmdResume loads a hibernation archive produced by `gos snapshot` and
// continues execution from exactly the control state it was captured at.
func cmdResume(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s resume <snapshot>", appName)
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	opts, err := loadOptions(path)
	if err != nil {
		return err
	}

	m, err := vm.Restore(data, vm.VMOptions{Options: opts, Out: os.Stdout, In: os.Stdin})
	if err != nil {
		return err
	}

	if err := m.Run(); err != nil {
		return err
	}
	if m.Exited && m.ExitCode != 0 {
		return exitError{code: m.ExitCode}
	}
	return nil
}
