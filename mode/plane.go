package mode

import (
	"unsafe"

	"github.com/gfxlab/drm"
	"github.com/gfxlab/drm/ioctl"
)

type (
	// sysGetPlaneRes is struct drm_mode_get_plane_res.
	sysGetPlaneRes struct {
		planeIDPtr  uintptr
		countPlanes uint32
	}

	// sysGetPlane is struct drm_mode_get_plane.
	sysGetPlane struct {
		id     uint32
		crtcID uint32
		fbID   uint32

		possibleCrtcs uint32
		gammaSize     uint32

		countFormatTypes uint32
		formatTypePtr    uintptr
	}
)

var (
	// DRM_IOWR(0xB5, struct drm_mode_get_plane_res)
	IOCTLModeGetPlaneResources = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysGetPlaneRes{})), drm.IOCTLBase, 0xB5)

	// DRM_IOWR(0xB6, struct drm_mode_get_plane)
	IOCTLModeGetPlane = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysGetPlane{})), drm.IOCTLBase, 0xB6)
)

// GetPlaneResources lists the plane handles dev exposes, in the
// kernel's enumeration order.
func GetPlaneResources(dev drm.Device) ([]PlaneHandle, error) {
	res := sysGetPlaneRes{}
	if err := dev.Ioctl(IOCTLModeGetPlaneResources, unsafe.Pointer(&res)); err != nil {
		return nil, err
	}

	var planes []PlaneHandle
	if res.countPlanes > 0 {
		planes = make([]PlaneHandle, res.countPlanes)
		res.planeIDPtr = uintptr(unsafe.Pointer(&planes[0]))
	}

	if err := dev.Ioctl(IOCTLModeGetPlaneResources, unsafe.Pointer(&res)); err != nil {
		return nil, err
	}
	return planes, nil
}

// Plane is the snapshot of one hardware plane: an image source the
// device can composite onto a CRTC's output.
type Plane struct {
	handle PlaneHandle
	crtc   CrtcHandle
	fb     FBHandle

	possibleCrtcs Bitmask
	GammaSize     uint32
	Formats       []uint32 // supported fourcc pixel formats
}

var _ ResourceInfo[PlaneHandle] = (*Plane)(nil)

// GetPlane queries dev for the plane behind handle. A second pass
// fetches the pixel format list when the plane advertises one.
func GetPlane(dev drm.Device, handle PlaneHandle) (*Plane, error) {
	pl := sysGetPlane{id: uint32(handle)}
	if err := dev.Ioctl(IOCTLModeGetPlane, unsafe.Pointer(&pl)); err != nil {
		return nil, err
	}

	var formats []uint32
	if pl.countFormatTypes > 0 {
		formats = make([]uint32, pl.countFormatTypes)
		pl.formatTypePtr = uintptr(unsafe.Pointer(&formats[0]))

		if err := dev.Ioctl(IOCTLModeGetPlane, unsafe.Pointer(&pl)); err != nil {
			return nil, err
		}
	}

	return &Plane{
		handle:        handle,
		crtc:          CrtcHandle(pl.crtcID),
		fb:            FBHandle(pl.fbID),
		possibleCrtcs: Bitmask(pl.possibleCrtcs),
		GammaSize:     pl.gammaSize,
		Formats:       formats,
	}, nil
}

// Handle returns the handle this snapshot describes.
func (p *Plane) Handle() PlaneHandle {
	return p.handle
}

// CurrentCrtc returns the CRTC the plane is attached to, if any.
func (p *Plane) CurrentCrtc() (CrtcHandle, bool) {
	if !p.crtc.Valid() {
		return 0, false
	}
	return p.crtc, true
}

// CurrentFB returns the framebuffer the plane reads from, if any.
func (p *Plane) CurrentFB() (FBHandle, bool) {
	if !p.fb.Valid() {
		return 0, false
	}
	return p.fb, true
}

// SupportsCrtc reports whether the CRTC at index idx can use this
// plane.
func (p *Plane) SupportsCrtc(idx CrtcIndex) bool {
	return p.possibleCrtcs.Has(idx)
}

// PossibleCrtcs returns the CRTC compatibility mask exactly as the
// kernel reported it.
func (p *Plane) PossibleCrtcs() Bitmask {
	return p.possibleCrtcs
}
