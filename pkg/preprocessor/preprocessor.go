// Package preprocessor performs textual macro expansion and file inclusion
// over gos source, producing a single macro-free, import-flattened string.
package preprocessor

import (
	"os"
	"path/filepath"
	"strings"

	"gos/internal/goserr"
)

// Options controls preprocessor behavior that would otherwise live in
// global mutable state (see the compiler-wide Options in package config).
type Options struct {
	SystemImportDir string
}

// DefaultSystemImportDir is used when Options.SystemImportDir is empty.
const DefaultSystemImportDir = "/usr/local/gos/"

// state carries the mutable data threaded through the recursive descent
// over included files: definitions accumulate globally, while the
// conditional-inclusion stack and per-call skip state are scoped to each
// file.
type state struct {
	opts     Options
	defines  map[string]string
	included map[string]bool // absolute path -> already spliced in this run
}

// Preprocess expands directives in src, whose file lives in baseDir, and
// returns the flattened source or the first Preprocessor-phase error.
func Preprocess(src string, baseDir string, opts Options) (string, error) {
	if opts.SystemImportDir == "" {
		opts.SystemImportDir = DefaultSystemImportDir
	}
	st := &state{
		opts:     opts,
		defines:  make(map[string]string),
		included: make(map[string]bool),
	}
	return st.run(src, baseDir)
}

func (st *state) run(src, baseDir string) (string, error) {
	lines := strings.Split(src, "\n")
	var out strings.Builder

	// condStack tracks, for each nested $ifdef/$ifndef, whether its body is
	// currently active (true) or being skipped (false).
	var condStack []bool

	active := func() bool {
		for _, c := range condStack {
			if !c {
				return false
			}
		}
		return true
	}

	for lineNo, raw := range lines {
		trimmed := strings.TrimSpace(raw)

		if strings.HasPrefix(trimmed, "$ifdef") {
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "$ifdef"))
			_, ok := st.defines[name]
			condStack = append(condStack, ok)
			continue
		}
		if strings.HasPrefix(trimmed, "$ifndef") {
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "$ifndef"))
			_, ok := st.defines[name]
			condStack = append(condStack, !ok)
			continue
		}
		if trimmed == "$endif" {
			if len(condStack) == 0 {
				return "", goserr.New(goserr.PhasePreprocessor, lineNo+1, "unmatched $endif")
			}
			condStack = condStack[:len(condStack)-1]
			continue
		}

		if !active() {
			continue
		}

		if strings.HasPrefix(trimmed, "$define") {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "$define"))
			if rest == "" {
				return "", goserr.New(goserr.PhasePreprocessor, lineNo+1, "malformed $define")
			}
			fields := strings.SplitN(rest, " ", 2)
			name := fields[0]
			replacement := ""
			if len(fields) == 2 {
				replacement = strings.TrimSpace(fields[1])
			}
			st.defines[name] = replacement
			continue
		}

		if strings.HasPrefix(trimmed, "$import") {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "$import"))
			path, err := unquote(rest)
			if err != nil {
				return "", goserr.New(goserr.PhasePreprocessor, lineNo+1, "malformed $import: %v", err)
			}
			content, includeDir, absPath, err := st.resolveImport(path, baseDir)
			if err != nil {
				return "", goserr.New(goserr.PhasePreprocessor, lineNo+1, "%v", err)
			}
			if st.included[absPath] {
				continue
			}
			st.included[absPath] = true
			expanded, err := st.run(content, includeDir)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
			out.WriteString("\n")
			continue
		}

		out.WriteString(st.applyDefines(raw))
		out.WriteString("\n")
	}

	if len(condStack) != 0 {
		return "", goserr.New(goserr.PhasePreprocessor, len(lines), "unterminated $ifdef/$ifndef (missing $endif)")
	}

	return out.String(), nil
}

// resolveImport searches, in order, the including file's directory and the
// configured system directory.
func (st *state) resolveImport(path, baseDir string) (content, includeDir, absPath string, err error) {
	candidates := []string{
		filepath.Join(baseDir, path),
		filepath.Join(st.opts.SystemImportDir, path),
	}
	for _, candidate := range candidates {
		if data, readErr := os.ReadFile(candidate); readErr == nil {
			abs, absErr := filepath.Abs(candidate)
			if absErr != nil {
				abs = candidate
			}
			return string(data), filepath.Dir(candidate), abs, nil
		}
	}
	return "", "", "", &importNotFoundError{path: path}
}

type importNotFoundError struct{ path string }

func (e *importNotFoundError) Error() string {
	return "import not found: " + e.path
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", &importNotFoundError{path: s}
	}
	return s[1 : len(s)-1], nil
}

// applyDefines replaces whole-word occurrences of macro names with their
// replacement text. Order of definition matters: later definitions shadow
// earlier ones by the time this line is reached, since defines accumulate
// as the file is walked top to bottom.
func (st *state) applyDefines(line string) string {
	if len(st.defines) == 0 {
		return line
	}
	var sb strings.Builder
	n := len(line)
	i := 0
	for i < n {
		r := rune(line[i])
		if isWordStart(r) {
			start := i
			for i < n && isWordPart(rune(line[i])) {
				i++
			}
			word := line[start:i]
			if repl, ok := st.defines[word]; ok {
				sb.WriteString(repl)
			} else {
				sb.WriteString(word)
			}
			continue
		}
		sb.WriteByte(line[i])
		i++
	}
	return sb.String()
}

func isWordStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '\\'
}

func isWordPart(r rune) bool {
	return isWordStart(r) || (r >= '0' && r <= '9')
}
