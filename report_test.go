package vkey

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

const secret = "proving-key-material-must-not-leak"

type fixedPk struct{}

func (fixedPk) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, secret)
	return int64(n), err
}

type fixedVk [32]byte

func (me fixedVk) Bytes32() [32]byte { return me }

func countingVk() fixedVk {
	var vk fixedVk
	for i := range vk {
		vk[i] = byte(i)
	}
	return vk
}

func fixedSetup(vk VerifyingKey, err error) Setup {
	return func([]byte) (ProvingKey, VerifyingKey, error) {
		if err != nil {
			return nil, nil, err
		}
		return fixedPk{}, vk, nil
	}
}

func TestReportFixedKey(t *testing.T) {
	var logs, out bytes.Buffer
	require.NoError(t, SetupLogger(&logs, "debug"))
	defer SetupLogger(io.Discard, "disabled")

	err := Report(&out, NewImage([]byte{1, 2, 3}), fixedSetup(countingVk(), nil))
	require.NoError(t, err)
	require.Equal(t, "Program Verification Key: 0x000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f\n", out.String())
	require.NotContains(t, out.String(), secret)
	require.NotContains(t, logs.String(), secret)
}

func TestReportPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^Program Verification Key: 0x[0-9a-f]{64}\n$`)
	for _, vk := range []fixedVk{{}, {0xff, 0xab}, countingVk()} {
		var out bytes.Buffer
		require.NoError(t, Report(&out, NewImage([]byte{1}), fixedSetup(vk, nil)))
		require.Regexp(t, pattern, out.String())
	}
}

func TestReportSetupFailure(t *testing.T) {
	var out bytes.Buffer
	cause := errors.New("allocation failed")
	err := Report(&out, NewImage([]byte{1}), fixedSetup(nil, cause))
	require.ErrorIs(t, err, ErrSetupFailed)
	require.ErrorIs(t, err, cause)
	require.Empty(t, out.String())

	err = Report(&out, NewImage([]byte{1}), fixedSetup(nil, nil))
	require.ErrorIs(t, err, ErrSetupFailed)
	require.Empty(t, out.String())

	// a nil *Vk behind the interface is still no key
	require.NotPanics(t, func() {
		err = Report(&out, NewImage([]byte{1}), fixedSetup((*Vk)(nil), nil))
	})
	require.ErrorIs(t, err, ErrSetupFailed)
	require.Empty(t, out.String())
}

func TestReportDoesNotShareImage(t *testing.T) {
	image := NewImage([]byte{1, 2, 3})
	mutating := func(b []byte) (ProvingKey, VerifyingKey, error) {
		b[0] = 0xff
		return fixedPk{}, countingVk(), nil
	}
	require.NoError(t, Report(io.Discard, image, mutating))
	require.Equal(t, []byte{1, 2, 3}, image.Bytes())
}

func TestRunMissingResource(t *testing.T) {
	var out bytes.Buffer
	called := false
	setup := func([]byte) (ProvingKey, VerifyingKey, error) {
		called = true
		return fixedPk{}, countingVk(), nil
	}
	err := Run(&out, File(filepath.Join(t.TempDir(), "nope")), setup)
	require.ErrorIs(t, err, ErrResourceUnavailable)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.False(t, called)
	require.Empty(t, out.String())
}

func TestRunEmptyResources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	for _, src := range []Source{File(path), Embedded{Name: "truncated"}} {
		var out bytes.Buffer
		err := Run(&out, src, fixedSetup(countingVk(), nil))
		require.ErrorIs(t, err, ErrResourceUnavailable)
		require.Empty(t, out.String())
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program")
	require.NoError(t, os.WriteFile(path, []byte{0xde, 0xad}, 0o644))
	var seen []byte
	setup := func(b []byte) (ProvingKey, VerifyingKey, error) {
		seen = b
		return fixedPk{}, countingVk(), nil
	}
	var out bytes.Buffer
	require.NoError(t, Run(&out, File(path), setup))
	require.Equal(t, []byte{0xde, 0xad}, seen)
	require.Contains(t, out.String(), KEY_LINE_PREFIX)
}
