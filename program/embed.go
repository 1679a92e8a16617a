package program

import _ "embed"

const ELF_NAME = "riscv32im-hypernode-elf"

// ELF is the guest program built by the program crate's build step.
//
//go:embed elf/riscv32im-hypernode-elf
var ELF []byte
