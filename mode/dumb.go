package mode

import (
	"unsafe"

	"launchpad.net/gommap"

	"github.com/gfxlab/drm"
	"github.com/gfxlab/drm/ioctl"
)

type (
	// sysCreateDumb is struct drm_mode_create_dumb.
	sysCreateDumb struct {
		height, width uint32
		bpp           uint32
		flags         uint32

		// returned values
		handle uint32
		pitch  uint32
		size   uint64
	}

	// sysMapDumb is struct drm_mode_map_dumb.
	sysMapDumb struct {
		handle uint32
		pad    uint32

		// Fake offset for the subsequent mmap call; fixed-size for
		// 32/64 compatibility.
		offset uint64
	}

	// sysDestroyDumb is struct drm_mode_destroy_dumb.
	sysDestroyDumb struct {
		handle uint32
	}
)

var (
	// DRM_IOWR(0xB2, struct drm_mode_create_dumb)
	IOCTLModeCreateDumb = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysCreateDumb{})), drm.IOCTLBase, 0xB2)

	// DRM_IOWR(0xB3, struct drm_mode_map_dumb)
	IOCTLModeMapDumb = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysMapDumb{})), drm.IOCTLBase, 0xB3)

	// DRM_IOWR(0xB4, struct drm_mode_destroy_dumb)
	IOCTLModeDestroyDumb = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysDestroyDumb{})), drm.IOCTLBase, 0xB4)
)

// DumbBuffer is a driver-independent buffer suitable for scanout,
// allocated through the dumb-buffer interface. Register it as a
// framebuffer with AddFB using BOHandle.
type DumbBuffer struct {
	handle uint32

	Width, Height uint32
	BPP           uint32
	Pitch         uint32
	Size          uint64
}

// CreateDumb allocates a width x height dumb buffer at bpp bits per
// pixel.
func CreateDumb(dev drm.Device, width, height uint16, bpp uint32) (*DumbBuffer, error) {
	buf := sysCreateDumb{
		width:  uint32(width),
		height: uint32(height),
		bpp:    bpp,
	}
	if err := dev.Ioctl(IOCTLModeCreateDumb, unsafe.Pointer(&buf)); err != nil {
		return nil, err
	}

	return &DumbBuffer{
		handle: buf.handle,
		Width:  buf.width,
		Height: buf.height,
		BPP:    buf.bpp,
		Pitch:  buf.pitch,
		Size:   buf.size,
	}, nil
}

// BOHandle returns the driver buffer object handle backing the buffer.
func (b *DumbBuffer) BOHandle() uint32 {
	return b.handle
}

// Map maps the buffer read-write into memory. The kernel hands out a
// fake mmap offset through a separate ioctl; the buffer is then mapped
// through the device node at that offset. Unmap the returned mapping
// before destroying the buffer.
func (b *DumbBuffer) Map(dev drm.Device) (gommap.MMap, error) {
	req := sysMapDumb{handle: b.handle}
	if err := dev.Ioctl(IOCTLModeMapDumb, unsafe.Pointer(&req)); err != nil {
		return nil, err
	}
	return gommap.MapRegion(dev.Fd(), int64(req.offset), int64(b.Size),
		gommap.PROT_READ|gommap.PROT_WRITE, gommap.MAP_SHARED)
}

// Destroy releases the buffer.
func (b *DumbBuffer) Destroy(dev drm.Device) error {
	return dev.Ioctl(IOCTLModeDestroyDumb,
		unsafe.Pointer(&sysDestroyDumb{b.handle}))
}
