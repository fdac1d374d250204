// Package ioctl encodes ioctl request codes and issues the raw
// syscall.
package ioctl

import (
	"fmt"
	"syscall"
)

// Request codes follow the generic encoding shared by most
// architectures (powerpc differs, see include/ARCH/ioctl.h):
//
//  bits    meaning
//  31-30   direction: 00 none (_IO), 10 read (_IOR),
//          01 write (_IOW), 11 read/write (_IOWR)
//  29-16   size of the argument struct
//  15-8    ascii character unique to the driver
//  7-0     function number
//
// So 0x82187201 is a read with arg length 0x218, character 'r',
// function 1, which the kernel source reveals to be:
//
// #define VFAT_IOCTL_READDIR_BOTH _IOR('r', 1, struct dirent [2])
//
// Source: https://www.kernel.org/doc/Documentation/ioctl/ioctl-decoding.txt

// Direction bits of a request code.
const (
	None  = uint8(0x0)
	Write = uint8(0x1)
	Read  = uint8(0x2)
)

// NewCode builds a request code from the direction bits, the argument
// size, the driver character and the function number. Values outside
// the encodable range are programming errors and panic.
func NewCode(dir uint8, sz uint16, uniq, fn uint8) uint32 {
	if dir > Write|Read {
		panic(fmt.Errorf("invalid ioctl direction value: %d", dir))
	}
	if sz > 2<<14 {
		panic(fmt.Errorf("invalid ioctl size value: %d", sz))
	}

	var code uint32
	code |= uint32(dir) << 30
	code |= uint32(sz) << 16 // sz has 14 usable bits
	code |= uint32(uniq) << 8
	code |= uint32(fn)
	return code
}

// Do issues one blocking ioctl. The returned error, when any, is the
// raw syscall.Errno, unmodified.
func Do(fd, cmd, ptr uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, cmd, ptr)
	if errno != 0 {
		return errno
	}
	return nil
}
