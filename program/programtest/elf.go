// Package programtest builds minimal rv32 ELF executables for tests.
package programtest

import (
	"debug/elf"
	"encoding/binary"
)

const ehsize = 52
const phentsize = 32

type Segment struct {
	Vaddr uint32
	Flags elf.ProgFlag
	Words []uint32
	// Bss adds zero-initialised bytes past the file contents.
	Bss uint32
}

func Text(vaddr uint32, words ...uint32) Segment {
	return Segment{Vaddr: vaddr, Flags: elf.PF_R | elf.PF_X, Words: words}
}

func Data(vaddr uint32, words ...uint32) Segment {
	return Segment{Vaddr: vaddr, Flags: elf.PF_R | elf.PF_W, Words: words}
}

// Build lays out an ELF32 little-endian RISC-V executable with one PT_LOAD
// program header per segment and no section headers.
func Build(entry uint32, segments ...Segment) []byte {
	return BuildWith(elf.EM_RISCV, entry, segments...)
}

func BuildWith(machine elf.Machine, entry uint32, segments ...Segment) []byte {
	le := binary.LittleEndian
	phoff := uint32(ehsize)
	offset := phoff + uint32(len(segments))*phentsize
	buf := make([]byte, offset)

	copy(buf, elf.ELFMAG)
	buf[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	buf[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	buf[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	le.PutUint16(buf[16:], uint16(elf.ET_EXEC))
	le.PutUint16(buf[18:], uint16(machine))
	le.PutUint32(buf[20:], uint32(elf.EV_CURRENT))
	le.PutUint32(buf[24:], entry)
	le.PutUint32(buf[28:], phoff)
	le.PutUint32(buf[32:], 0)
	le.PutUint32(buf[36:], 0)
	le.PutUint16(buf[40:], ehsize)
	le.PutUint16(buf[42:], phentsize)
	le.PutUint16(buf[44:], uint16(len(segments)))

	for i, seg := range segments {
		filesz := uint32(4 * len(seg.Words))
		ph := buf[phoff+uint32(i)*phentsize:]
		le.PutUint32(ph[0:], uint32(elf.PT_LOAD))
		le.PutUint32(ph[4:], offset)
		le.PutUint32(ph[8:], seg.Vaddr)
		le.PutUint32(ph[12:], seg.Vaddr)
		le.PutUint32(ph[16:], filesz)
		le.PutUint32(ph[20:], filesz+seg.Bss)
		le.PutUint32(ph[24:], uint32(seg.Flags))
		le.PutUint32(ph[28:], 4)
		for _, w := range seg.Words {
			buf = le.AppendUint32(buf, w)
		}
		offset += filesz
	}
	return buf
}
