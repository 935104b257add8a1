// Package config loads gos.toml and produces the Options value threaded
// through the rest of the pipeline, replacing the tree-walker's global "N"
// flag and "gos" context value with an explicit, request-scoped struct
// (see spec §9's design note on global state).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Options is threaded explicitly through preprocessing, compilation, and
// execution instead of living in package-level mutable state.
type Options struct {
	SystemImportDir string `toml:"system_import_dir"`
	MaxStackDepth   int    `toml:"max_stack_depth"` // 0 = unbounded
	EnableEval      bool   `toml:"enable_eval"`
}

// Default returns the Options gos runs with when no gos.toml is found.
func Default() Options {
	return Options{
		SystemImportDir: "/usr/local/gos/",
		MaxStackDepth:   0,
		EnableEval:      false,
	}
}

// Load reads gos.toml at path, overlaying it onto Default(). A missing
// file is not an error — it just means the defaults apply.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, err
	}
	if _, err := toml.Decode(string(data), &opts); err != nil {
		return opts, err
	}
	return opts, nil
}
