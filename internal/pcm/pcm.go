// Package pcm reads and writes headerless little-endian sample files, the
// format produced by most capture tools with `-t raw`.
package pcm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// ReadInt16 decodes all complete 16-bit samples from r. A trailing odd byte
// is ignored.
func ReadInt16(r io.Reader) ([]int16, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return out, nil
}

// ReadInt16File loads a raw int16 file.
func ReadInt16File(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample file %s: %w", path, err)
	}
	defer f.Close()

	samples, err := ReadInt16(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read sample file %s: %w", path, err)
	}
	return samples, nil
}

// WriteInt16File writes samples to path, replacing any existing file.
func WriteInt16File(path string, samples []int16) error {
	return writeFile(path, samples)
}

// WriteFloat32File writes float samples to path, replacing any existing file.
func WriteFloat32File(path string, samples []float32) error {
	return writeFile(path, samples)
}

func writeFile(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
