package rom

// Row tags, packed above the address and value limbs of a table row.
const (
	TAG_ENTRY       = 0
	TAG_INSTRUCTION = 1
	TAG_MEMORY      = 2
)

const ADDR_SHIFT = 32
const TAG_SHIFT = 64
const WORD_BITS = 32
