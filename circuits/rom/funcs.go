package rom

import (
	"fmt"
	"math/big"

	"github.com/rift-labs-inc/vkey/program"
)

// Row packs a table row as tag·2⁶⁴ + addr·2³² + value.
func Row(tag int, addr, value uint32) *big.Int {
	ret := new(big.Int).Lsh(big.NewInt(int64(tag)), TAG_SHIFT)
	ret.Or(ret, new(big.Int).Lsh(new(big.Int).SetUint64(uint64(addr)), ADDR_SHIFT))
	return ret.Or(ret, new(big.Int).SetUint64(uint64(value)))
}

// Rows lists the lookup table of p: the entry row first, then the text in
// address order, then the memory image.
func Rows(p *program.Program) []*big.Int {
	rows := make([]*big.Int, 0, 1+len(p.Instructions)+len(p.Memory))
	rows = append(rows, Row(TAG_ENTRY, p.PcStart, p.PcBase))
	for i, w := range p.Instructions {
		rows = append(rows, Row(TAG_INSTRUCTION, p.PcBase+4*uint32(i), w))
	}
	for _, w := range p.Memory {
		rows = append(rows, Row(TAG_MEMORY, w.Addr, w.Value))
	}
	return rows
}

// Assignment returns a witness fetching the instruction at pc.
func Assignment(p *program.Program, pc uint32) (*Circuit, error) {
	word, ok := p.Fetch(pc)
	if !ok {
		return nil, fmt.Errorf("pc %#x outside of text [%#x, %#x)", pc, p.PcBase, p.PcEnd())
	}
	return &Circuit{
		PC:    uint64(pc),
		Instr: uint64(word),
		Index: 1 + uint64(pc-p.PcBase)/4,
	}, nil
}
