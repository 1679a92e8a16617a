package vkey

import (
	"fmt"
	"io"
	"os"

	"github.com/rift-labs-inc/vkey/circuits/rom"
	"github.com/rift-labs-inc/vkey/program"
)

// ProvingKey is the companion artifact of a setup run.
type ProvingKey interface {
	io.WriterTo
}

// VerifyingKey is a key with a canonical 32-byte digest.
type VerifyingKey interface {
	Bytes32() [32]byte
}

// Setup derives the key pair of a program image. It must be deterministic in
// the image bytes and must not retain or modify them.
type Setup func(image []byte) (ProvingKey, VerifyingKey, error)

type SetupConfig struct {
	// CacheDir keeps generated SRS files; empty disables caching.
	CacheDir string
	// Progress receives progress bars for long SRS generation steps.
	Progress io.Writer
}

func NewSetup(cfg SetupConfig) Setup {
	cache := &SRSCache{Dir: cfg.CacheDir, Progress: cfg.Progress}
	return func(image []byte) (ProvingKey, VerifyingKey, error) {
		if len(image) == 0 {
			return nil, nil, fmt.Errorf("%w: %w", ErrSetupFailed, program.ErrEmpty)
		}
		prog, err := program.Decode(image)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrSetupFailed, err)
		}
		var pk Pk
		if err := pk.Compile(rom.New(prog), cache); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrSetupFailed, err)
		}
		vk := pk.Vk()
		return &pk, &vk, nil
	}
}

// WithVerifyingKeyFile stores the binary encoding of every verifying key
// produced by setup at path.
func WithVerifyingKeyFile(setup Setup, path string) Setup {
	return func(image []byte) (ProvingKey, VerifyingKey, error) {
		pk, vk, err := setup(image)
		if err != nil {
			return nil, nil, err
		}
		wt, ok := vk.(io.WriterTo)
		if !ok {
			return nil, nil, fmt.Errorf("%w: verifying key %T has no binary encoding", ErrSetupFailed, vk)
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}
		_, err = wt.WriteTo(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, nil, fmt.Errorf("writing %s: %w", path, err)
		}
		return pk, vk, nil
	}
}
