package guest

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/termhost/termhost/errors"
)

// Memory is the bounds-checked accessor for the linear memory shared with
// the guest. All host callbacks that dereference guest-supplied offsets go
// through it; there is no other path from guest integers to host memory.
type Memory struct {
	mem api.Memory
}

// Read returns the memory region [offset, offset+length).
//
// The returned slice is a view into the live linear memory, valid only until
// the guest runs again; callers that retain the bytes must copy them. A
// region that exceeds the current memory size fails with a memory error and
// touches nothing.
func (m *Memory) Read(offset, length uint32) ([]byte, error) {
	buf, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(offset, length, m.mem.Size())
	}
	return buf, nil
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}
