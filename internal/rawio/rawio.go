// Package rawio reads and writes headerless 16-bit sample files. The format
// carries no metadata: dimensions and byte order are supplied by the caller.
package rawio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"histoenhance/internal/models"
)

var (
	ErrNotExist   = errors.New("file not found")
	ErrShortRead  = errors.New("short read")
	ErrShortWrite = errors.New("short write")
)

// Exists reports whether path names a file that can be opened for reading.
func Exists(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// ParseByteOrder maps "little" or "big" to a binary.ByteOrder. An empty
// string selects little endian.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "", "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}

// Read loads exactly width*height samples from r.
func Read(r io.Reader, width, height int, order binary.ByteOrder) (*models.PixelBuffer, error) {
	buf, err := models.NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 2*buf.Len())
	n, err := io.ReadFull(r, data)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, len(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	for i := range buf.Pix {
		buf.Pix[i] = order.Uint16(data[2*i:])
	}
	return buf, nil
}

// ReadFile opens path and reads a width*height image from it
func ReadFile(path string, width, height int, order binary.ByteOrder) (*models.PixelBuffer, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := Read(bufio.NewReader(f), width, height, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Write stores every sample of buf to w.
func Write(w io.Writer, buf *models.PixelBuffer, order binary.ByteOrder) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	data := make([]byte, 2*buf.Len())
	for i, v := range buf.Pix {
		order.PutUint16(data[2*i:], v)
	}

	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, len(data))
	}
	return nil
}

// WriteFile creates or truncates path and writes buf to it.
func WriteFile(path string, buf *models.PixelBuffer, order binary.ByteOrder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := Write(f, buf, order); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
