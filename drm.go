package drm

import (
	"bytes"
	"fmt"
	"os"
	"unsafe"

	"github.com/gfxlab/drm/ioctl"
)

const driPath = "/dev/dri"

// Device is the transport a control-plane resource is queried through:
// a raw file-descriptor identity plus an ioctl primitive operating on
// it. *Card implements it against a real device node; tests substitute
// their own. Calls block until the kernel answers; this package adds
// no timeout or cancellation on top.
type Device interface {
	Fd() uintptr
	Ioctl(cmd uint32, data unsafe.Pointer) error
}

// Card is an open DRM device node.
type Card struct {
	file *os.File
}

// OpenCard opens the primary node of card n, /dev/dri/card<n>.
func OpenCard(n int) (*Card, error) {
	return open(fmt.Sprintf("%s/card%d", driPath, n))
}

// OpenControlDev opens the legacy control node of card n.
func OpenControlDev(n int) (*Card, error) {
	return open(fmt.Sprintf("%s/controlD%d", driPath, n))
}

// OpenRenderDev opens the render node of card n.
func OpenRenderDev(n int) (*Card, error) {
	return open(fmt.Sprintf("%s/renderD%d", driPath, n))
}

func open(path string) (*Card, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Card{file: f}, nil
}

// Fd returns the raw file descriptor of the node.
func (c *Card) Fd() uintptr {
	return c.file.Fd()
}

// Ioctl issues cmd against the node. The error, when any, is the raw
// errno reported by the kernel.
func (c *Card) Ioctl(cmd uint32, data unsafe.Pointer) error {
	return ioctl.Do(c.file.Fd(), uintptr(cmd), uintptr(data))
}

// Close releases the node. Handles obtained through it are no longer
// meaningful afterwards.
func (c *Card) Close() error {
	return c.file.Close()
}

type (
	sysVersion struct {
		major   int32
		minor   int32
		patch   int32
		namelen int64
		name    uintptr
		datelen int64
		date    uintptr
		desclen int64
		desc    uintptr
	}

	// Version identifies the DRM driver behind a device node.
	Version struct {
		Major, Minor, Patch int32
		Name                string // driver name (eg.: i915)
		Date                string
		Desc                string
	}
)

// Available probes whether a usable DRM device exists, returning the
// driver version of card 0.
func Available() (Version, error) {
	c, err := OpenCard(0)
	if err != nil {
		// handle backward linux compat?
		// check /proc/dri/0 ?
		return Version{}, err
	}
	defer c.Close()
	return c.Version()
}

// Version queries the driver version. The ioctl runs twice: the first
// pass reports the string lengths, the second fills the buffers.
func (c *Card) Version() (Version, error) {
	var v sysVersion
	if err := c.Ioctl(IOCTLVersion, unsafe.Pointer(&v)); err != nil {
		return Version{}, err
	}

	var name, date, desc []byte
	if v.namelen > 0 {
		name = make([]byte, v.namelen+1)
		v.name = uintptr(unsafe.Pointer(&name[0]))
	}
	if v.datelen > 0 {
		date = make([]byte, v.datelen+1)
		v.date = uintptr(unsafe.Pointer(&date[0]))
	}
	if v.desclen > 0 {
		desc = make([]byte, v.desclen+1)
		v.desc = uintptr(unsafe.Pointer(&desc[0]))
	}

	if err := c.Ioctl(IOCTLVersion, unsafe.Pointer(&v)); err != nil {
		return Version{}, err
	}

	return Version{
		Major: v.major,
		Minor: v.minor,
		Patch: v.patch,
		Name:  cstring(name[:v.namelen]),
		Date:  cstring(date[:v.datelen]),
		Desc:  cstring(desc[:v.desclen]),
	}, nil
}

func cstring(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
