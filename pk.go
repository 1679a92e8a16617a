package vkey

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/backend/plonk"
	plonkbls12381 "github.com/consensys/gnark/backend/plonk/bls12-381"
	"github.com/consensys/gnark/constraint"
	csbls12381 "github.com/consensys/gnark/constraint/bls12-381"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/logger"
)

type Pk struct {
	vk  Vk
	ccs *csbls12381.SparseR1CS
}

// Compile builds the constraint system of circuit and runs the PLONK setup
// against the SRS served by cache.
func (me *Pk) Compile(circuit frontend.Circuit, cache *SRSCache) error {
	log := logger.Logger()
	ccs, err := frontend.Compile(FIELD, scs.NewBuilder, circuit)
	if err != nil {
		return err
	}
	log.Debug().Int("constraints", ccs.GetNbConstraints()).Msg("circuit compiled")
	spkc, spkl, err := cache.Read(plonk.SRSSize(ccs))
	if err != nil {
		return err
	}
	srsvk, err := SRSVerifyingKey()
	if err != nil {
		return err
	}
	ipk, _, err := plonk.Setup(ccs, &kzg.SRS{Pk: spkc, Vk: srsvk}, &kzg.SRS{Pk: spkl, Vk: srsvk})
	if err != nil {
		return err
	}
	return me.FromGnarkConstraintSystemAndProvingKey(ccs, ipk)
}

func (me *Pk) Vk() Vk {
	return me.vk
}

func (me *Pk) ToGnarkConstraintSystem() constraint.ConstraintSystem {
	return me.ccs
}

func (me *Pk) FromGnarkConstraintSystemAndProvingKey(ccs constraint.ConstraintSystem, pk plonk.ProvingKey) error {
	cvk, ok := pk.VerifyingKey().(*plonkbls12381.VerifyingKey)
	if !ok {
		return fmt.Errorf("unexpected verifying key type %T", pk.VerifyingKey())
	}
	if err := me.vk.FromGnarkVerifyingKey(cvk); err != nil {
		return err
	}
	cs, ok := ccs.(*csbls12381.SparseR1CS)
	if !ok {
		return fmt.Errorf("unexpected constraint system type %T", ccs)
	}
	me.ccs = cs
	return nil
}

func (me *Pk) WriteTo(w io.Writer) (int64, error) {
	if n, err := me.vk.WriteTo(w); err != nil {
		return n, err
	} else {
		m, err := me.ccs.WriteTo(w)
		return m + n, err
	}
}

func (me *Pk) ReadFrom(r io.Reader) (int64, error) {
	if n, err := me.vk.ReadFrom(r); err != nil {
		return n, err
	} else {
		me.ccs = new(csbls12381.SparseR1CS)
		m, err := me.ccs.ReadFrom(r)
		return m + n, err
	}
}
