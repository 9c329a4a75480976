package tracebuf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferValueAtRoundTrip(t *testing.T) {
	buf := New[uint16](4)
	buf.Set(0, 10)
	buf.Set(1, 20)

	assert.Equal(t, float64(10), buf.ValueAt(0))
	assert.Equal(t, float64(20), buf.ValueAt(1))

	buf.SetValue(2, 30)
	assert.Equal(t, uint16(30), buf.At(2))
}

func TestLoadWriteBufRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.bin")

	out := New[uint8](5)
	for i := 0; i < 5; i++ {
		out.Set(i, uint8(i*10))
	}

	require.NoError(t, WriteBuf(path, out))

	in := New[uint8](5)
	require.NoError(t, LoadBuf(path, in))

	assert.Equal(t, out.Slice(), in.Slice())
}

func TestLoadBufMissingFile(t *testing.T) {
	buf := New[uint8](4)
	err := LoadBuf(filepath.Join(os.TempDir(), "does-not-exist-tracecpa"), buf)
	assert.Error(t, err)
}
