package main

import (
	"fmt"
	"os"

	"gos/pkg/preprocessor"
	"gos/pkg/utils"
)

func cmdPreprocess(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s preprocess <file>", appName)
	}
	path := args[0]

	opts, err := loadOptions(path)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	_, baseDir, err := utils.GetPathInfo(path)
	if err != nil {
		return err
	}

	expanded, err := preprocessor.Preprocess(string(src), baseDir, preprocessor.Options{
		SystemImportDir: opts.SystemImportDir,
	})
	if err != nil {
		return err
	}

	fmt.Print(expanded)
	return nil
}
