package main

import (
	"fmt"
	"os"

	"gos/pkg/bytecode"
)

func cmdDis(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s dis [--cbor] <file>", appName)
	}

	asCBOR := false
	var path string
	for _, a := range args {
		if a == "--cbor" {
			asCBOR = true
			continue
		}
		path = a
	}
	if path == "" {
		return fmt.Errorf("usage: %s dis [--cbor] <file>", appName)
	}

	opts, err := loadOptions(path)
	if err != nil {
		return err
	}

	chunk, err := loadChunk(path, opts)
	if err != nil {
		return err
	}

	if asCBOR {
		data, err := bytecode.EncodeCBOR(chunk)
		if err != nil {
			return fmt.Errorf("encode cbor: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Print(bytecode.Disassemble(chunk, path))
	return nil
}
