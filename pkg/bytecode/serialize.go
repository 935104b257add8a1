package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"gos/pkg/token"
)

// magic identifies a gos bytecode file: "GOSB".
var magic = [4]byte{0x47, 0x4F, 0x53, 0x42}

const formatVersion uint16 = 1

const (
	tagUnit uint8 = iota
	tagNumber
	tagBool
	tagString
)

// Save serializes chunk into the GOSB binary format described in §4.7:
// little-endian scalar framing throughout except the big-endian jump
// targets already embedded in Code.
func Save(chunk *Chunk) []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	binary.Write(&buf, binary.LittleEndian, formatVersion)
	binary.Write(&buf, binary.LittleEndian, uint32(len(chunk.Code)))
	buf.Write(chunk.Code)
	binary.Write(&buf, binary.LittleEndian, uint16(len(chunk.Constants)))
	for _, v := range chunk.Constants {
		writeConstant(&buf, v)
	}
	binary.Write(&buf, binary.LittleEndian, uint16(chunk.MaxSlot))
	return buf.Bytes()
}

func writeConstant(buf *bytes.Buffer, v token.PrimValue) {
	switch {
	case v.IsUnit():
		buf.WriteByte(tagUnit)
	case v.IsNumber():
		buf.WriteByte(tagNumber)
		binary.Write(buf, binary.LittleEndian, v.Number())
	case v.IsBool():
		buf.WriteByte(tagBool)
		if v.Bool() {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case v.IsString():
		buf.WriteByte(tagString)
		s := v.String()
		binary.Write(buf, binary.LittleEndian, uint16(len(s)))
		buf.WriteString(s)
	}
}

// Load deserializes a GOSB payload produced by Save, rejecting files whose
// magic or version does not match.
func Load(data []byte) (*Chunk, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := r.Read(gotMagic[:]); err != nil || gotMagic != magic {
		return nil, fmt.Errorf("bytecode: bad magic (not a GOSB file)")
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("bytecode: truncated header: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("bytecode: unsupported version %d", version)
	}

	var codeLen uint32
	if err := binary.Read(r, binary.LittleEndian, &codeLen); err != nil {
		return nil, fmt.Errorf("bytecode: truncated code length: %w", err)
	}
	code := make([]byte, codeLen)
	if _, err := readFull(r, code); err != nil {
		return nil, fmt.Errorf("bytecode: truncated code: %w", err)
	}

	var constCount uint16
	if err := binary.Read(r, binary.LittleEndian, &constCount); err != nil {
		return nil, fmt.Errorf("bytecode: truncated constants count: %w", err)
	}
	constants := make([]token.PrimValue, constCount)
	for i := range constants {
		v, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("bytecode: constant %d: %w", i, err)
		}
		constants[i] = v
	}

	var maxSlot uint16
	if err := binary.Read(r, binary.LittleEndian, &maxSlot); err != nil {
		return nil, fmt.Errorf("bytecode: truncated maxSlot: %w", err)
	}

	return &Chunk{Code: code, Constants: constants, MaxSlot: int(maxSlot)}, nil
}

func readConstant(r *bytes.Reader) (token.PrimValue, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return token.PrimValue{}, err
	}
	switch tag {
	case tagUnit:
		return token.Unit(), nil
	case tagNumber:
		var n float64
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return token.PrimValue{}, err
		}
		return token.Number(n), nil
	case tagBool:
		b, err := r.ReadByte()
		if err != nil {
			return token.PrimValue{}, err
		}
		return token.Bool(b != 0), nil
	case tagString:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return token.PrimValue{}, err
		}
		buf := make([]byte, n)
		if _, err := readFull(r, buf); err != nil {
			return token.PrimValue{}, err
		}
		return token.Str(string(buf)), nil
	default:
		return token.PrimValue{}, fmt.Errorf("unknown constant tag %d", tag)
	}
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
		if m == 0 {
			return n, fmt.Errorf("unexpected end of data")
		}
	}
	return n, nil
}
