package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rift-labs-inc/vkey"
)

func TestDigestsStableAcrossCache(t *testing.T) {
	var fresh, cached bytes.Buffer
	require.NoError(t, digests(&fresh, &vkey.SRSCache{}, 4))
	dir := t.TempDir()
	require.NoError(t, digests(&bytes.Buffer{}, &vkey.SRSCache{Dir: dir}, 4))
	require.NoError(t, digests(&cached, &vkey.SRSCache{Dir: dir}, 4))
	require.Equal(t, fresh.String(), cached.String())
	require.Len(t, strings.Split(strings.TrimSpace(fresh.String()), "\n"), 4)
}
