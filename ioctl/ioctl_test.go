package ioctl

import (
	"strconv"
	"testing"
)

func getbits(n uint32) string {
	return strconv.FormatUint(uint64(n), 2)
}

func TestNewCode(t *testing.T) {
	// VFAT_IOCTL_READDIR_BOTH: _IOR('r', 1, struct dirent [2])
	code := NewCode(Read, 0x218, 'r', 1)
	expected := uint32(0x82187201)
	if code != expected {
		t.Errorf("Expected %s but got %s", getbits(expected),
			getbits(code))
	}
}

func TestNewCodeReadWrite(t *testing.T) {
	// DRM_IOWR(0x0c, struct drm_get_cap): two u64 fields
	code := NewCode(Read|Write, 16, 'd', 0x0c)
	expected := uint32(0xc010640c)
	if code != expected {
		t.Errorf("Expected %s but got %s", getbits(expected),
			getbits(code))
	}
}
