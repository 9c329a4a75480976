package tracebuf

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// LoadBuf reads len(buf) raw, little-endian elements from path into buf.
// Adapted from the original load_buf: any OS or short-read error is logged
// with the offending path and returned rather than left to the caller to
// infer from a bare error value.
func LoadBuf[T Sample](path string, buf *Buffer[T]) error {
	f, err := os.Open(path)
	if err != nil {
		log.Errorf("tracebuf: open %s: %v", path, err)
		return fmt.Errorf("tracebuf: load %s: %w", path, err)
	}
	defer f.Close()

	if err := binary.Read(f, binary.LittleEndian, buf.data); err != nil {
		log.Errorf("tracebuf: read %s: %v", path, err)
		return fmt.Errorf("tracebuf: load %s: %w", path, err)
	}

	return nil
}

// WriteBuf writes buf's elements to path as raw, little-endian bytes,
// truncating any existing file. Adapted from the original write_buf.
func WriteBuf[T Sample](path string, buf *Buffer[T]) error {
	f, err := os.Create(path)
	if err != nil {
		log.Errorf("tracebuf: create %s: %v", path, err)
		return fmt.Errorf("tracebuf: write %s: %w", path, err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, buf.data); err != nil {
		log.Errorf("tracebuf: write %s: %v", path, err)
		return fmt.Errorf("tracebuf: write %s: %w", path, err)
	}

	return nil
}
