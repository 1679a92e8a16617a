package vkey

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rift-labs-inc/vkey/program"
	"github.com/rift-labs-inc/vkey/program/programtest"
)

func testImage(words ...uint32) []byte {
	return programtest.Build(0x1000,
		programtest.Text(0x1000, append([]uint32{0x00000513, 0x00000073}, words...)...),
		programtest.Data(0x8000, 0x6e726568, 0x65646f6e),
	)
}

func TestSetupDeterministic(t *testing.T) {
	setup := NewSetup(SetupConfig{})
	image := testImage()

	_, vk1, err := setup(image)
	require.NoError(t, err)
	_, vk2, err := setup(bytes.Clone(image))
	require.NoError(t, err)
	require.Equal(t, vk1.Bytes32(), vk2.Bytes32())

	// a cached SRS must give the same key
	cached := NewSetup(SetupConfig{CacheDir: t.TempDir()})
	for i := 0; i < 2; i++ {
		_, vk, err := cached(image)
		require.NoError(t, err)
		require.Equal(t, vk1.Bytes32(), vk.Bytes32())
	}
}

func TestSetupDistinguishesPrograms(t *testing.T) {
	setup := NewSetup(SetupConfig{})
	_, base, err := setup(testImage())
	require.NoError(t, err)

	_, other, err := setup(testImage(0x0000006f))
	require.NoError(t, err)
	require.NotEqual(t, base.Bytes32(), other.Bytes32())

	// same text, different entry point
	entry := programtest.Build(0x1004,
		programtest.Text(0x1000, 0x00000513, 0x00000073),
		programtest.Data(0x8000, 0x6e726568, 0x65646f6e),
	)
	_, moved, err := setup(entry)
	require.NoError(t, err)
	require.NotEqual(t, base.Bytes32(), moved.Bytes32())
}

func TestSetupDoesNotMutateImage(t *testing.T) {
	image := testImage()
	orig := bytes.Clone(image)
	_, _, err := NewSetup(SetupConfig{})(image)
	require.NoError(t, err)
	require.Equal(t, orig, image)
}

func TestSetupRejectsBadImages(t *testing.T) {
	setup := NewSetup(SetupConfig{})
	for name, image := range map[string][]byte{
		"empty":     nil,
		"corrupted": []byte("\x7fELF\x01\x01\x01garbage"),
		"truncated": testImage()[:60],
	} {
		t.Run(name, func(t *testing.T) {
			pk, vk, err := setup(image)
			require.ErrorIs(t, err, ErrSetupFailed)
			require.Nil(t, pk)
			require.Nil(t, vk)
		})
	}
	_, _, err := setup(nil)
	require.ErrorIs(t, err, program.ErrEmpty)
}

func TestVerifyingKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vk.bin")
	_, vk, err := WithVerifyingKeyFile(NewSetup(SetupConfig{}), path)(testImage())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var read Vk
	n, err := read.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	require.Equal(t, vk.Bytes32(), read.Bytes32())
	require.Len(t, read.QC, len(vk.(*Vk).QC))
	require.Equal(t, vk.(*Vk).CI, read.CI)
}

func TestPkRoundTrip(t *testing.T) {
	pk, _, err := NewSetup(SetupConfig{})(testImage())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := pk.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	var read Pk
	_, err = read.ReadFrom(&buf)
	require.NoError(t, err)
	want := pk.(*Pk).Vk()
	got := read.Vk()
	require.Equal(t, want.Bytes32(), got.Bytes32())
	require.Equal(t, pk.(*Pk).ToGnarkConstraintSystem().GetNbConstraints(), read.ToGnarkConstraintSystem().GetNbConstraints())
}
