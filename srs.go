package vkey

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/logger"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// srsHead is the two-point prefix of the SRS; it carries the KZG verifying
// key and the first power of tau used to recognise cached files.
var srsHead = sync.OnceValues(func() (*kzg.SRS, error) {
	return kzg.NewSRS(2, SRS_TAU)
})

func SRSVerifyingKey() (kzg.VerifyingKey, error) {
	head, err := srsHead()
	if err != nil {
		return kzg.VerifyingKey{}, err
	}
	return head.Vk, nil
}

// SRSCache produces the canonical and Lagrange KZG keys for SRS_TAU. With Dir
// set, generated keys are kept under Dir and reused when their checksums match.
type SRSCache struct {
	Dir      string
	Progress io.Writer
}

func (me *SRSCache) dir() string {
	sum := sha256.Sum256([]byte(SRS_SEED))
	return filepath.Join(me.Dir, hex.EncodeToString(sum[:8]))
}

func (me *SRSCache) Read(sc, sl int) (ck kzg.ProvingKey, lk kzg.ProvingKey, err error) {
	logsl := bits.TrailingZeros(uint(sl))
	if sl < 2 || bits.OnesCount(uint(sl)) != 1 || logsl > SRS_MAX_LOG {
		err = fmt.Errorf("invalid lagrange srs size %d", sl)
		return
	}
	if sc < sl {
		err = fmt.Errorf("canonical srs size %d smaller than lagrange size %d", sc, sl)
		return
	}
	log := logger.Logger().With().Int("sc", sc).Int("sl", sl).Logger()
	pathck := filepath.Join(me.dir(), "SRS.CK.BIN")
	pathlk := filepath.Join(me.dir(), fmt.Sprintf("SRS.LK.%v.BIN", logsl))
	cached := false
	persist := me.Dir != ""
	if me.Dir != "" {
		if ck.G1, err = me.readCK(pathck, sc); err == nil {
			cached = true
			if lk.G1, err = me.readLK(pathlk, sl); err == nil {
				log.Debug().Str("dir", me.dir()).Msg("srs loaded from cache")
				return
			}
		}
		log.Info().Err(err).Msg("local srs cache not usable; generating ...")
		if err = os.MkdirAll(me.dir(), 0o755); err != nil {
			log.Warn().Err(err).Msg("srs cache not writable; continuing without it")
			persist = false
		}
		err = nil
	}

	bar := me.bar(3, "Generating SRS")
	defer bar.Finish()
	if !cached {
		var srs *kzg.SRS
		if srs, err = kzg.NewSRS(uint64(sc), SRS_TAU); err != nil {
			return
		}
		ck = srs.Pk
	}
	bar.Add(1)

	var g errgroup.Group
	g.Go(func() error {
		defer bar.Add(1)
		if !persist || cached {
			return nil
		}
		if err := write_cache(pathck, MarshalProvingKey(ck.G1)); err != nil {
			log.Warn().Err(err).Str("path", pathck).Msg("could not cache srs")
		}
		return nil
	})
	g.Go(func() error {
		defer bar.Add(1)
		var err error
		if lk.G1, err = kzg.ToLagrangeG1(ck.G1[:sl]); err != nil {
			return err
		}
		if !persist {
			return nil
		}
		if err := write_cache(pathlk, MarshalProvingKey(lk.G1)); err != nil {
			log.Warn().Err(err).Str("path", pathlk).Msg("could not cache srs")
		}
		return nil
	})
	err = g.Wait()
	return
}

func (me *SRSCache) readCK(path string, size int) ([]bls12381.G1Affine, error) {
	data, err := read_cache(path)
	if err != nil {
		return nil, err
	}
	if len(data) < size*bls12381.SizeOfG1AffineUncompressed {
		return nil, fmt.Errorf("%s holds %d points, need %d", path, len(data)/bls12381.SizeOfG1AffineUncompressed, size)
	}
	g1, err := ParseProvingKey(data, size)
	if err != nil {
		return nil, err
	}
	head, err := srsHead()
	if err != nil {
		return nil, err
	}
	if !g1[0].Equal(&head.Pk.G1[0]) || !g1[1].Equal(&head.Pk.G1[1]) {
		return nil, errors.New("cached srs was generated for another tau")
	}
	return g1, nil
}

func (me *SRSCache) readLK(path string, size int) ([]bls12381.G1Affine, error) {
	data, err := read_cache(path)
	if err != nil {
		return nil, err
	}
	if len(data) != size*bls12381.SizeOfG1AffineUncompressed {
		return nil, fmt.Errorf("%s has size %d, want %d points", path, len(data), size)
	}
	return ParseProvingKey(data, size)
}

func (me *SRSCache) bar(max int, description string) *progressbar.ProgressBar {
	w := me.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
	)
}
