package vkey

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const HASH_T = 2
const HASH_RF = 8
const HASH_RP = 56
const HASH_SEED = "HYPERNODE_POSEIDON2_VK_SEED"

// SRS_SEED fixes the KZG toxic parameter shared by every party deriving keys.
const SRS_SEED = "HYPERNODE_PROGRAM_SRS_V1"

// Largest circuit domain the SRS is generated for.
const SRS_MAX_LOG = 24

const KEY_LINE_PREFIX = "Program Verification Key: "
const KEY_HEX_PREFIX = "0x"

var FIELD = ecc.BLS12_381.ScalarField()
var COSET_SHIFT = fr.NewElement(7)

var SRS_TAU = func() *big.Int {
	sum := sha256.Sum256([]byte(SRS_SEED))
	var tau fr.Element
	tau.SetBytes(sum[:])
	var ret big.Int
	return tau.BigInt(&ret)
}()

var CID_VK = func() (val fr.Element) {
	val.SetString("3124939751307232918276103718217209832470389122937281012387412939721930138791")
	return
}()
