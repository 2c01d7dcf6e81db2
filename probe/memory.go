package probe

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/structlayout/errors"
)

// PageSize is the WebAssembly linear memory page size.
const PageSize = 65536

// Memory is the byte-addressed view the probe writes structures through.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
	Size() uint32
	Grow(pages uint32) error
}

// WrapMemory wraps a wazero api.Memory.
func WrapMemory(mem api.Memory) Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the Memory interface.
type Wrapper struct {
	Mem api.Memory
}

func outOfBounds(offset, length uint32, size uint32) error {
	return errors.OutOfBounds(errors.PhaseProbe, []string{"memory"}, int64(offset)+int64(length), int64(size))
}

// Read reads bytes from memory. The returned slice is a copy.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds(offset, length, m.Mem.Size())
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return outOfBounds(offset, uint32(len(data)), m.Mem.Size())
	}
	return nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Wrapper) WriteU8(offset uint32, value uint8) error {
	if !m.Mem.WriteByte(offset, value) {
		return outOfBounds(offset, 1, m.Mem.Size())
	}
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Wrapper) WriteU16(offset uint32, value uint16) error {
	if !m.Mem.WriteUint16Le(offset, value) {
		return outOfBounds(offset, 2, m.Mem.Size())
	}
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return outOfBounds(offset, 4, m.Mem.Size())
	}
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return outOfBounds(offset, 8, m.Mem.Size())
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Grow adds pages to the memory.
func (m *Wrapper) Grow(pages uint32) error {
	if pages == 0 {
		return nil
	}
	if _, ok := m.Mem.Grow(pages); !ok {
		return errors.New(errors.PhaseProbe, errors.KindOutOfBounds).
			Path("memory").
			Value(pages).
			Detail("cannot grow memory by %d pages", pages).
			Build()
	}
	return nil
}
