package device

import "fmt"

// Buffer is an allocation in device memory.
type Buffer struct {
	dev  *Device
	data []byte
}

// Len returns the allocation size in bytes, or 0 once freed.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes exposes the device memory to kernels. Host code must move data
// with CopyToDevice and CopyToHost instead.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Malloc allocates n bytes of device memory.
func (d *Device) Malloc(n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: malloc(%d)", ErrInvalidValue, n)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cfg.Memory > 0 && d.used+int64(n) > d.cfg.Memory {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrDeviceAlloc, n, d.used, d.cfg.Memory)
	}
	d.used += int64(n)
	return &Buffer{dev: d, data: make([]byte, n)}, nil
}

// Free releases b. Freeing twice or freeing another device's buffer fails.
func (d *Device) Free(b *Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(b); err != nil {
		return err
	}
	d.used -= int64(len(b.data))
	b.data = nil
	b.dev = nil
	return nil
}

// CopyToDevice copies src into dst; the sizes must match.
func (d *Device) CopyToDevice(dst *Buffer, src []byte) error {
	if err := d.check(dst); err != nil {
		return err
	}
	if len(src) != len(dst.data) {
		return fmt.Errorf("%w: host->device copy of %d bytes into %d", ErrInvalidValue, len(src), len(dst.data))
	}
	copy(dst.data, src)
	return nil
}

// CopyToHost copies src into dst; the sizes must match.
func (d *Device) CopyToHost(dst []byte, src *Buffer) error {
	if err := d.check(src); err != nil {
		return err
	}
	if len(dst) != len(src.data) {
		return fmt.Errorf("%w: device->host copy of %d bytes into %d", ErrInvalidValue, len(src.data), len(dst))
	}
	copy(dst, src.data)
	return nil
}

func (d *Device) check(b *Buffer) error {
	if b == nil || b.dev == nil {
		return fmt.Errorf("%w: nil or freed buffer", ErrInvalidValue)
	}
	if b.dev != d {
		return fmt.Errorf("%w: buffer belongs to another device", ErrInvalidValue)
	}
	return nil
}
