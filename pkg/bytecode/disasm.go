package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders chunk in the standard listing format: a constants
// table, then one line per instruction as "AAAA: OPCODE operands ; ann".
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== Constants (%s) ===\n", name)
	for i, c := range chunk.Constants {
		fmt.Fprintf(&sb, "%4d: %s\n", i, c.Text())
	}

	sb.WriteString("\n=== Bytecode ===\n")
	fmt.Fprintf(&sb, "Max Slot: %d\n", chunk.MaxSlot)

	ip := 0
	for ip < len(chunk.Code) {
		line, next := disassembleOne(chunk, ip)
		sb.WriteString(line)
		sb.WriteByte('\n')
		ip = next
	}
	sb.WriteString("--------------------------------\n")
	return sb.String()
}

func disassembleOne(chunk *Chunk, addr int) (string, int) {
	op := Op(chunk.Code[addr])
	switch op {
	case OpLoadConst:
		idx := chunk.Code[addr+1]
		ann := ""
		if int(idx) < len(chunk.Constants) {
			ann = chunk.Constants[idx].Text()
		}
		return fmt.Sprintf("%04d: %-14s %-6d ; %s", addr, op, idx, ann), addr + 2
	case OpLoadVar, OpStoreVar, OpIn:
		slot := chunk.Code[addr+1]
		return fmt.Sprintf("%04d: %-14s slot %d", addr, op, slot), addr + 2
	case OpJump, OpJumpIfFalse:
		target := chunk.ReadU16(addr + 1)
		return fmt.Sprintf("%04d: %-14s -> %04d", addr, op, target), addr + 3
	case OpCall:
		target := chunk.ReadU16(addr + 1)
		argCount := chunk.Code[addr+3]
		return fmt.Sprintf("%04d: %-14s -> %04d argc=%d", addr, op, target, argCount), addr + 4
	default:
		return fmt.Sprintf("%04d: %-14s", addr, op), addr + 1
	}
}
