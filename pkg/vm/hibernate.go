package vm

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gos/pkg/bytecode"
	"gos/pkg/token"
)

// snapshotState is the JSON-serializable half of a hibernation archive: the
// VM's control state, everything except the bytecode itself.
type snapshotState struct {
	IP       int         `json:"ip"`
	BaseSlot int         `json:"base_slot"`
	Frames   []Frame     `json:"frames"`
	Slots    []jsonValue `json:"slots"`
	Stack    []jsonValue `json:"stack"`
}

// jsonValue is a JSON-friendly projection of token.PrimValue, whose fields
// are private to keep its invariants closed to the token package.
type jsonValue struct {
	Kind   string  `json:"kind"`
	Number float64 `json:"number,omitempty"`
	String string  `json:"string,omitempty"`
	Bool   bool    `json:"bool,omitempty"`
}

func toJSONValue(v token.PrimValue) jsonValue {
	switch {
	case v.IsNumber():
		return jsonValue{Kind: "number", Number: v.Number()}
	case v.IsString():
		return jsonValue{Kind: "string", String: v.String()}
	case v.IsBool():
		return jsonValue{Kind: "bool", Bool: v.Bool()}
	default:
		return jsonValue{Kind: "unit"}
	}
}

func fromJSONValue(v jsonValue) token.PrimValue {
	switch v.Kind {
	case "number":
		return token.Number(v.Number)
	case "string":
		return token.Str(v.String)
	case "bool":
		return token.Bool(v.Bool)
	default:
		return token.Unit()
	}
}

// HibernateToBytes serializes the running VM — its chunk and its full
// execution state — into an in-memory ZIP archive, the way smasonuk-sicpu's
// CPU.HibernateToBytes snapshots register/memory state alongside its VFS.
func (v *VM) HibernateToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	chunkBytes := bytecode.Save(v.chunk)
	if err := writeZipEntry(zw, "chunk.gbc", chunkBytes); err != nil {
		return nil, err
	}

	state := snapshotState{
		IP:       v.ip,
		BaseSlot: v.baseSlot,
		Frames:   v.frames,
	}
	for _, s := range v.slots {
		state.Slots = append(state.Slots, toJSONValue(s))
	}
	for _, s := range v.stack {
		state.Stack = append(state.Stack, toJSONValue(s))
	}

	stateJSON, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal vm state: %w", err)
	}
	if err := writeZipEntry(zw, "vm_state.json", stateJSON); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// HibernateToFile writes the hibernation archive to path.
func (v *VM) HibernateToFile(path string) error {
	data, err := v.HibernateToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Restore loads a hibernation archive produced by HibernateToBytes and
// returns a VM ready to resume execution from Run().
func Restore(data []byte, opts VMOptions) (*VM, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	chunkBytes, err := readZipEntry(fileMap, "chunk.gbc")
	if err != nil {
		return nil, err
	}
	chunk, err := bytecode.Load(chunkBytes)
	if err != nil {
		return nil, fmt.Errorf("load chunk: %w", err)
	}

	stateJSON, err := readZipEntry(fileMap, "vm_state.json")
	if err != nil {
		return nil, err
	}
	var state snapshotState
	if err := json.Unmarshal(stateJSON, &state); err != nil {
		return nil, fmt.Errorf("unmarshal vm state: %w", err)
	}

	v := New(chunk, opts.Options, opts.Out, opts.In)
	v.ip = state.IP
	v.baseSlot = state.BaseSlot
	v.frames = state.Frames
	v.slots = v.slots[:0]
	for _, s := range state.Slots {
		v.slots = append(v.slots, fromJSONValue(s))
	}
	for _, s := range state.Stack {
		v.stack = append(v.stack, fromJSONValue(s))
	}
	return v, nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
