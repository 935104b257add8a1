package bytecode

import (
	"github.com/fxamacker/cbor/v2"

	"gos/pkg/token"
)

// cborConstant mirrors token.PrimValue as a tagged struct so its contents
// reach the CBOR output; PrimValue's own fields stay unexported to keep its
// invariants closed to the token package.
type cborConstant struct {
	Kind   string  `cbor:"kind"`
	Number float64 `cbor:"number,omitempty"`
	String string  `cbor:"string,omitempty"`
	Bool   bool    `cbor:"bool,omitempty"`
}

type cborChunk struct {
	Code      []byte         `cbor:"code"`
	Constants []cborConstant `cbor:"constants"`
	MaxSlot   int            `cbor:"max_slot"`
}

// EncodeCBOR exports chunk as CBOR for tooling interchange. This is a
// read-only secondary format: the Serializer's GOSB layout in Save/Load
// remains the only format the VM loads from disk.
func EncodeCBOR(chunk *Chunk) ([]byte, error) {
	out := cborChunk{Code: chunk.Code, MaxSlot: chunk.MaxSlot}
	for _, v := range chunk.Constants {
		out.Constants = append(out.Constants, toCBORConstant(v))
	}
	return cbor.Marshal(out)
}

func toCBORConstant(v token.PrimValue) cborConstant {
	switch {
	case v.IsNumber():
		return cborConstant{Kind: "number", Number: v.Number()}
	case v.IsString():
		return cborConstant{Kind: "string", String: v.String()}
	case v.IsBool():
		return cborConstant{Kind: "bool", Bool: v.Bool()}
	default:
		return cborConstant{Kind: "unit"}
	}
}
