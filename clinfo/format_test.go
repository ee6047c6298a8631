package clinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizes(t *testing.T) {
	require.Equal(t, uint64(1024), Mebibytes(1073741824))
	require.Equal(t, uint64(32), Kibibytes(32768))
	require.Equal(t, uint64(0), Mebibytes(1<<20-1))
	require.Equal(t, uint64(1), Kibibytes(2047))
	require.Equal(t, uint64(1<<24), Mebibytes(1<<44))
}
