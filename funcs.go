package vkey

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/poseidon2"
)

var permutation = sync.OnceValue(func() *poseidon2.Permutation {
	return poseidon2.NewPermutationWithSeed(HASH_T, HASH_RF, HASH_RP, HASH_SEED)
})

func DecomposeG1(val bls12381.G1Affine) [2][2]fr.Element {
	var ixq, ixm, iyq, iym big.Int
	var exq, exm, eyq, eym fr.Element
	val.X.BigInt(&ixq)
	val.Y.BigInt(&iyq)
	ixq.DivMod(&ixq, fr.Modulus(), &ixm)
	iyq.DivMod(&iyq, fr.Modulus(), &iym)
	exq.SetBigInt(&ixq)
	exm.SetBigInt(&ixm)
	eyq.SetBigInt(&iyq)
	eym.SetBigInt(&iym)
	return [2][2]fr.Element{{exq, exm}, {eyq, eym}}
}

func HashG1(val bls12381.G1Affine) fr.Element {
	decompose := DecomposeG1(val)
	x := HashCompress(decompose[0][0], decompose[0][1])
	y := HashCompress(decompose[1][0], decompose[1][1])
	return HashCompress(x, y)
}

// HashCompress is perm([x,y])[1] + y.
func HashCompress(x, y fr.Element) fr.Element {
	vars := [2]fr.Element{x, y}
	if err := permutation().Permutation(vars[:]); err != nil {
		// width is fixed to HASH_T
		panic(err)
	}
	var ret fr.Element
	ret.Add(&vars[1], &y)
	return ret
}

func HashSum(val ...fr.Element) fr.Element {
	var ret fr.Element
	for _, v := range val {
		ret = HashCompress(ret, v)
	}
	return ret
}

// ParseProvingKey reads size points stored as raw big-endian limbs of X then Y.
func ParseProvingKey(bytepk []byte, size int) (val []bls12381.G1Affine, err error) {
	var g1 bls12381.G1Affine
	buf := make([]byte, 8)
	reader := bytes.NewReader(bytepk)
	val = make([]bls12381.G1Affine, 0, size)
	for n := 0; n < size; n++ {
		for i := 0; i < len(g1.X); i++ {
			if _, err = io.ReadFull(reader, buf); err != nil {
				return
			}
			g1.X[i] = binary.BigEndian.Uint64(buf)
		}
		for i := 0; i < len(g1.Y); i++ {
			if _, err = io.ReadFull(reader, buf); err != nil {
				return
			}
			g1.Y[i] = binary.BigEndian.Uint64(buf)
		}
		val = append(val, g1)
	}
	return
}

func MarshalProvingKey(g1 []bls12381.G1Affine) []byte {
	buf := make([]byte, 0, len(g1)*bls12381.SizeOfG1AffineUncompressed)
	for _, xy := range g1 {
		for _, v := range xy.X {
			buf = binary.BigEndian.AppendUint64(buf, v)
		}
		for _, v := range xy.Y {
			buf = binary.BigEndian.AppendUint64(buf, v)
		}
	}
	return buf
}

var errCacheChecksum = errors.New("cache checksum mismatch")

// read_cache returns the contents of path if its sha256 matches path.sha256.
func read_cache(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	want, err := os.ReadFile(path + ".sha256")
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != strings.TrimSpace(string(want)) {
		return nil, fmt.Errorf("%s: %w", path, errCacheChecksum)
	}
	return data, nil
}

func write_cache(path string, data []byte) error {
	sum := sha256.Sum256(data)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	return os.WriteFile(path+".sha256", []byte(hex.EncodeToString(sum[:])+"\n"), 0o644)
}
