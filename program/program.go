// Package program decodes RISC-V (rv32im) ELF executables into the flat
// layout bound by the program circuit: entry point, text words and the
// initial memory image.
package program

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmpty          = errors.New("empty program image")
	ErrInvalidELF     = errors.New("invalid ELF image")
	ErrNoText         = errors.New("program has no executable segment")
	ErrEntryOutOfText = errors.New("entry point outside of text")
)

type Word struct {
	Addr  uint32
	Value uint32
}

type Program struct {
	PcStart      uint32
	PcBase       uint32
	Instructions []uint32
	Memory       []Word
}

// Fetch returns the instruction word at pc.
func (me *Program) Fetch(pc uint32) (uint32, bool) {
	if pc < me.PcBase || pc%4 != 0 {
		return 0, false
	}
	i := uint64(pc-me.PcBase) / 4
	if i >= uint64(len(me.Instructions)) {
		return 0, false
	}
	return me.Instructions[i], true
}

func (me *Program) PcEnd() uint64 {
	return uint64(me.PcBase) + 4*uint64(len(me.Instructions))
}

func Decode(image []byte) (*Program, error) {
	if len(image) == 0 {
		return nil, ErrEmpty
	}
	f, err := elf.NewFile(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidELF, err)
	}
	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("%w: class %v, want %v", ErrInvalidELF, f.Class, elf.ELFCLASS32)
	}
	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("%w: data encoding %v", ErrInvalidELF, f.Data)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%w: machine %v, want %v", ErrInvalidELF, f.Machine, elf.EM_RISCV)
	}
	if f.Type != elf.ET_EXEC {
		return nil, fmt.Errorf("%w: type %v, want %v", ErrInvalidELF, f.Type, elf.ET_EXEC)
	}
	if f.Entry > math.MaxUint32 || f.Entry%4 != 0 {
		return nil, fmt.Errorf("%w: entry %#x", ErrInvalidELF, f.Entry)
	}
	p := &Program{PcStart: uint32(f.Entry)}
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if err := p.load(prog, uint64(len(image))); err != nil {
			return nil, err
		}
	}
	if len(p.Instructions) == 0 {
		return nil, ErrNoText
	}
	if uint64(p.PcStart) < uint64(p.PcBase) || uint64(p.PcStart) >= p.PcEnd() {
		return nil, fmt.Errorf("%w: entry %#x, text [%#x, %#x)", ErrEntryOutOfText, p.PcStart, p.PcBase, p.PcEnd())
	}
	sort.Slice(p.Memory, func(i, j int) bool { return p.Memory[i].Addr < p.Memory[j].Addr })
	for i := 1; i < len(p.Memory); i++ {
		if p.Memory[i].Addr == p.Memory[i-1].Addr {
			return nil, fmt.Errorf("%w: overlapping segments at %#x", ErrInvalidELF, p.Memory[i].Addr)
		}
	}
	return p, nil
}

func (me *Program) load(prog *elf.Prog, size uint64) error {
	if prog.Off > size || prog.Filesz > size-prog.Off {
		return fmt.Errorf("%w: segment at %#x extends past the %d byte image", ErrInvalidELF, prog.Vaddr, size)
	}
	if prog.Filesz > prog.Memsz {
		return fmt.Errorf("%w: segment filesz %d > memsz %d", ErrInvalidELF, prog.Filesz, prog.Memsz)
	}
	if prog.Vaddr%4 != 0 {
		return fmt.Errorf("%w: segment at %#x is not word aligned", ErrInvalidELF, prog.Vaddr)
	}
	if prog.Vaddr+prog.Memsz > math.MaxUint32+1 {
		return fmt.Errorf("%w: segment at %#x exceeds 32-bit address space", ErrInvalidELF, prog.Vaddr)
	}
	if prog.Filesz == 0 {
		return nil
	}
	data := make([]byte, (prog.Filesz+3)&^3)
	if _, err := prog.ReadAt(data[:prog.Filesz], 0); err != nil {
		return fmt.Errorf("%w: segment at %#x: %w", ErrInvalidELF, prog.Vaddr, err)
	}
	exec := prog.Flags&elf.PF_X != 0
	for i := 0; i < len(data); i += 4 {
		addr := uint32(prog.Vaddr) + uint32(i)
		word := binary.LittleEndian.Uint32(data[i:])
		if !exec {
			me.Memory = append(me.Memory, Word{Addr: addr, Value: word})
			continue
		}
		if len(me.Instructions) == 0 {
			me.PcBase = addr
		} else if uint64(addr) != me.PcEnd() {
			return fmt.Errorf("%w: text at %#x not contiguous with %#x", ErrInvalidELF, addr, me.PcEnd())
		}
		me.Instructions = append(me.Instructions, word)
	}
	return nil
}
