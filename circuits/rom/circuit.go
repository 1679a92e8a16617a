// Package rom provides the program circuit: a lookup table holding a RISC-V
// program as constants, with a single instruction fetch against it. The
// compiled constraint system, and therefore every key derived from it, is a
// function of the program alone.
package rom

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/lookup/logderivlookup"
	"github.com/consensys/gnark/std/rangecheck"

	"github.com/rift-labs-inc/vkey/program"
)

var ErrEmptyTable = errors.New("program table is empty")

type Circuit struct {
	PC    frontend.Variable `gnark:",public"`
	Instr frontend.Variable `gnark:",public"`
	Index frontend.Variable

	rows []*big.Int
}

func New(p *program.Program) *Circuit {
	return &Circuit{rows: Rows(p)}
}

func (me *Circuit) Define(api frontend.API) error {
	if len(me.rows) == 0 {
		return ErrEmptyTable
	}
	rc := rangecheck.New(api)
	rc.Check(me.PC, WORD_BITS)
	rc.Check(me.Instr, WORD_BITS)

	table := logderivlookup.New(api)
	for _, row := range me.rows {
		table.Insert(row)
	}
	fetched := table.Lookup(me.Index)[0]
	tag := new(big.Int).Lsh(big.NewInt(TAG_INSTRUCTION), TAG_SHIFT)
	want := api.Add(api.Mul(me.PC, new(big.Int).Lsh(big.NewInt(1), ADDR_SHIFT)), me.Instr, tag)
	api.AssertIsEqual(fetched, want)
	return nil
}
