package drm

import "unsafe"

// sysCap is struct drm_get_cap.
type sysCap struct {
	id  uint64
	val uint64
}

// Capability ids accepted by GetCap.
const (
	CapDumbBuffer = iota + 1
	CapVBlankHighCRTC
	CapDumbPreferredDepth
	CapDumbPreferShadow
	CapPrime
	CapTimestampMonotonic
	CapAsyncPageFlip
	CapCursorWidth
	CapCursorHeight

	CapAddFB2Modifiers = 0x10
)

// GetCap queries the value of one driver capability.
func (c *Card) GetCap(id uint64) (uint64, error) {
	cap := sysCap{id: id}
	if err := c.Ioctl(IOCTLGetCap, unsafe.Pointer(&cap)); err != nil {
		return 0, err
	}
	return cap.val, nil
}

// HasDumbBuffer reports whether the driver can allocate dumb buffers:
// simple memory-mappable buffers needing no driver-dependent code.
func (c *Card) HasDumbBuffer() bool {
	val, err := c.GetCap(CapDumbBuffer)
	if err != nil {
		return false
	}
	return val != 0
}
