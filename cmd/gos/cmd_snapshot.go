package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"gos/internal/logging"
	"gos/pkg/vm"
)

// cmdSnapshot runs a program to completion (or until it exits) and then
// hibernates the VM's final control state to an archive, so it can later
// be resumed with `gos resume`. Each snapshot gets a fresh UUID that is
// logged together with the output path; the UUID is not written into the
// archive itself.
func cmdSnapshot(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s snapshot <file> [-o <snapshot>]", appName)
	}
	path := args[0]
	outPath := ""
	for i := 1; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			outPath = args[i+1]
			i++
		}
	}

	opts, err := loadOptions(path)
	if err != nil {
		return err
	}

	chunk, err := loadChunk(path, opts)
	if err != nil {
		return err
	}

	m := vm.New(chunk, opts, os.Stdout, os.Stdin)
	if err := m.Run(); err != nil {
		return err
	}

	if outPath == "" {
		outPath = snapshotPath(path)
	}

	id := uuid.New()
	logging.Infof("hibernating %s as snapshot %s -> %s", path, id, outPath)

	return m.HibernateToFile(outPath)
}

func snapshotPath(sourcePath string) string {
	return sourcePath + ".gsnap"
}
