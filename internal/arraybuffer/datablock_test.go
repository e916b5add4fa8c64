package arraybuffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataBlockLockUnlockNoOpWhenNotShared(t *testing.T) {
	d := NewDataBlock(4, false)
	// Would deadlock on a second Lock if shared; must be a no-op here.
	d.Lock()
	d.Lock()
	d.Unlock()
	d.Unlock()
}

func TestDataBlockRefUnrefDropsStorageAtZero(t *testing.T) {
	d := NewDataBlock(8, false)
	require.Equal(t, 8, d.Len())

	d.Ref()
	d.Unref() // count back to 1
	require.NotNil(t, d.Bytes())

	d.Unref() // count to 0
	require.Nil(t, d.Bytes())
}

func TestDataBlockSharedFlag(t *testing.T) {
	require.False(t, NewDataBlock(1, false).Shared())
	require.True(t, NewDataBlock(1, true).Shared())
}
