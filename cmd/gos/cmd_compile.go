package main

import (
	"fmt"
	"os"

	"gos/pkg/bytecode"
)

func cmdCompile(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s compile <file>", appName)
	}
	path := args[0]

	opts, err := loadOptions(path)
	if err != nil {
		return err
	}

	chunk, err := compileFile(path, opts)
	if err != nil {
		return err
	}

	out := gbcPath(path)
	if err := os.WriteFile(out, bytecode.Save(chunk), 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("compiled %s -> %s (%d bytes)\n", path, out, len(chunk.Code))
	return nil
}
