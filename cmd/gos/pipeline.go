package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gos/internal/config"
	"gos/pkg/ast"
	"gos/pkg/bytecode"
	"gos/pkg/compiler"
	"gos/pkg/lexer"
	"gos/pkg/optimizer"
	"gos/pkg/parser"
	"gos/pkg/preprocessor"
	"gos/pkg/utils"
)

// frontEnd runs preprocess -> lex -> parse -> optimize on the source file
// at path and returns the optimized AST.
func frontEnd(path string, opts config.Options) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	_, baseDir, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}

	expanded, err := preprocessor.Preprocess(string(src), baseDir, preprocessor.Options{
		SystemImportDir: opts.SystemImportDir,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := lexer.Lex(expanded)
	if err != nil {
		return nil, err
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}

	return optimizer.Optimize(prog), nil
}

// compileFile runs the full pipeline and lowers the result to a Chunk.
func compileFile(path string, opts config.Options) (*bytecode.Chunk, error) {
	prog, err := frontEnd(path, opts)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(prog, opts)
}

// loadChunk returns a Chunk for path: loaded directly if path is a .gbc
// binary, or compiled fresh from source otherwise.
func loadChunk(path string, opts config.Options) (*bytecode.Chunk, error) {
	if isBytecodeFile(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return bytecode.Load(data)
	}
	return compileFile(path, opts)
}

func gbcPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	if ext == "" {
		return sourcePath + ".gbc"
	}
	return sourcePath[:len(sourcePath)-len(ext)] + ".gbc"
}
