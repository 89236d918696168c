package rawio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histoenhance/internal/models"
)

func TestReadByteOrder(t *testing.T) {
	data := []byte{0x01, 0x02, 0xff, 0x00}

	le, err := Read(bytes.NewReader(data), 2, 1, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0201, 0x00ff}, le.Pix)

	be, err := Read(bytes.NewReader(data), 1, 2, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0102, 0xff00}, be.Pix)
	assert.Equal(t, 1, be.Width)
	assert.Equal(t, 2, be.Height)
}

func TestReadShort(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte{1, 2, 3}), 2, 1, binary.LittleEndian)
	assert.ErrorIs(t, err, ErrShortRead)

	_, err = Read(bytes.NewReader(nil), 2, 1, binary.LittleEndian)
	assert.ErrorIs(t, err, ErrShortRead)

	_, err = Read(bytes.NewReader(nil), 0, 1, binary.LittleEndian)
	assert.ErrorIs(t, err, models.ErrDimensions)
}

func TestReadOversizedDimensions(t *testing.T) {
	for _, dims := range [][2]int{{1 << 62, 3}, {1 << 32, 1 << 32}} {
		buf, err := Read(bytes.NewReader(nil), dims[0], dims[1], binary.LittleEndian)
		assert.ErrorIs(t, err, models.ErrDimensions, "%dx%d", dims[0], dims[1])
		assert.Nil(t, buf)
	}
}

func TestReadIgnoresTrailingBytes(t *testing.T) {
	buf, err := Read(bytes.NewReader([]byte{1, 0, 2, 0, 9, 9}), 2, 1, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2}, buf.Pix)
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.raw")
	want := &models.PixelBuffer{Width: 3, Height: 2, Pix: []uint16{0, 1, 255, 256, 4095, 65535}}

	assert.False(t, Exists(path))
	require.NoError(t, WriteFile(path, want, binary.BigEndian))
	assert.True(t, Exists(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 12, info.Size())

	got, err := ReadFile(path, 3, 2, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.raw"), 1, 1, binary.LittleEndian)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestWriteRejectsBadBuffer(t *testing.T) {
	var out bytes.Buffer
	err := Write(&out, &models.PixelBuffer{Width: 2, Height: 2, Pix: []uint16{1}}, binary.LittleEndian)
	assert.ErrorIs(t, err, models.ErrDimensions)
	assert.Zero(t, out.Len())
}

func TestParseByteOrder(t *testing.T) {
	for name, want := range map[string]binary.ByteOrder{
		"":       binary.LittleEndian,
		"little": binary.LittleEndian,
		"LE":     binary.LittleEndian,
		"big":    binary.BigEndian,
	} {
		got, err := ParseByteOrder(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseByteOrder("middle")
	assert.Error(t, err)
}
