package vkey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/plonk"
	plonkbls12381 "github.com/consensys/gnark/backend/plonk/bls12-381"
)

// Vk is the program-specific part of a BLS12-381 PLONK verifying key. The
// KZG key and coset shift are global and checked on import.
type Vk struct {
	S1, S2, S3, QL, QR, QM, QO, QK bls12381.G1Affine
	QC                             []bls12381.G1Affine
	CI                             []uint64
	NP                             uint64
	SZ                             uint8
}

func (me *Vk) FromGnarkVerifyingKey(vk plonk.VerifyingKey) error {
	cvk, ok := vk.(*plonkbls12381.VerifyingKey)
	if !ok {
		return fmt.Errorf("unexpected verifying key type %T", vk)
	}
	if bits.OnesCount64(cvk.Size) != 1 {
		return errors.New("vk.size should be power of 2")
	}
	srsvk, err := SRSVerifyingKey()
	if err != nil {
		return err
	}
	if cvk.Kzg.G1 != srsvk.G1 || cvk.Kzg.G2 != srsvk.G2 {
		return errors.New("invalid KZG VK")
	}
	if cvk.CosetShift != COSET_SHIFT {
		return errors.New("invalid coset shift")
	}
	if len(cvk.Qcp) != len(cvk.CommitmentConstraintIndexes) {
		return fmt.Errorf("%d commitments for %d commitment constraints", len(cvk.Qcp), len(cvk.CommitmentConstraintIndexes))
	}
	me.SZ = uint8(bits.TrailingZeros64(cvk.Size))
	me.NP = cvk.NbPublicVariables
	me.S1 = cvk.S[0]
	me.S2 = cvk.S[1]
	me.S3 = cvk.S[2]
	me.QL = cvk.Ql
	me.QR = cvk.Qr
	me.QM = cvk.Qm
	me.QO = cvk.Qo
	me.QK = cvk.Qk
	me.QC = append([]bls12381.G1Affine(nil), cvk.Qcp...)
	me.CI = append([]uint64(nil), cvk.CommitmentConstraintIndexes...)
	return nil
}

// Digest binds every commitment and the circuit shape of the key.
func (me *Vk) Digest() fr.Element {
	commitments := []fr.Element{CID_VK, HashG1(me.S1), HashG1(me.S2), HashG1(me.S3), HashG1(me.QL), HashG1(me.QR), HashG1(me.QM), HashG1(me.QO), HashG1(me.QK)}
	for _, c := range me.QC {
		commitments = append(commitments, HashG1(c))
	}
	shape := []fr.Element{fr.NewElement(uint64(me.SZ)), fr.NewElement(me.NP), fr.NewElement(uint64(len(me.CI)))}
	for _, ci := range me.CI {
		shape = append(shape, fr.NewElement(ci))
	}
	return HashCompress(HashSum(commitments...), HashSum(shape...))
}

func (me *Vk) Bytes32() [32]byte {
	digest := me.Digest()
	return digest.Bytes()
}

func (me *Vk) WriteTo(w io.Writer) (int64, error) {
	enc := bls12381.NewEncoder(w)
	for _, p := range []*bls12381.G1Affine{&me.S1, &me.S2, &me.S3, &me.QL, &me.QR, &me.QM, &me.QO, &me.QK} {
		if err := enc.Encode(p); err != nil {
			return enc.BytesWritten(), err
		}
	}
	if err := enc.Encode(me.QC); err != nil {
		return enc.BytesWritten(), err
	}
	buf := make([]byte, 0, 4+8*len(me.CI)+9)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(me.CI)))
	for _, ci := range me.CI {
		buf = binary.BigEndian.AppendUint64(buf, ci)
	}
	buf = binary.BigEndian.AppendUint64(buf, me.NP)
	buf = append(buf, me.SZ)
	n, err := w.Write(buf)
	return int64(n) + enc.BytesWritten(), err
}

func (me *Vk) ReadFrom(r io.Reader) (int64, error) {
	dec := bls12381.NewDecoder(r)
	for _, p := range []*bls12381.G1Affine{&me.S1, &me.S2, &me.S3, &me.QL, &me.QR, &me.QM, &me.QO, &me.QK} {
		if err := dec.Decode(p); err != nil {
			return dec.BytesRead(), err
		}
	}
	if err := dec.Decode(&me.QC); err != nil {
		return dec.BytesRead(), err
	}
	read := dec.BytesRead()
	buf := [8]byte{}
	if n, err := io.ReadFull(r, buf[:4]); err != nil {
		return read + int64(n), err
	}
	read += 4
	nci := binary.BigEndian.Uint32(buf[:4])
	if nci != uint32(len(me.QC)) {
		return read, fmt.Errorf("%d commitment indexes for %d commitments", nci, len(me.QC))
	}
	me.CI = make([]uint64, nci)
	for i := range me.CI {
		if n, err := io.ReadFull(r, buf[:]); err != nil {
			return read + int64(n), err
		}
		read += 8
		me.CI[i] = binary.BigEndian.Uint64(buf[:])
	}
	if n, err := io.ReadFull(r, buf[:]); err != nil {
		return read + int64(n), err
	}
	read += 8
	me.NP = binary.BigEndian.Uint64(buf[:])
	if n, err := io.ReadFull(r, buf[:1]); err != nil {
		return read + int64(n), err
	}
	me.SZ = buf[0]
	return read + 1, nil
}
