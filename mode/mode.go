// Package mode models the KMS control plane: the resource graph of
// CRTCs, encoders, connectors, planes and framebuffers a device
// exposes for mode setting. Resources are addressed by typed handles
// and described by immutable snapshots loaded with one ioctl
// round-trip each.
package mode

import (
	"unsafe"

	"github.com/gfxlab/drm"
	"github.com/gfxlab/drm/ioctl"
)

const (
	DisplayInfoLen   = 32
	ConnectorNameLen = 32
	DisplayModeLen   = 32
	PropNameLen      = 32
)

// Connection states of a connector.
const (
	Connected = iota + 1
	Disconnected
	UnknownConnection
)

type (
	// sysResources is struct drm_mode_card_res.
	sysResources struct {
		fbIDPtr              uintptr
		crtcIDPtr            uintptr
		connectorIDPtr       uintptr
		encoderIDPtr         uintptr
		countFbs             uint32
		countCrtcs           uint32
		countConnectors      uint32
		countEncoders        uint32
		minWidth, maxWidth   uint32
		minHeight, maxHeight uint32
	}

	// sysGetConnector is struct drm_mode_get_connector.
	sysGetConnector struct {
		encodersPtr   uintptr
		modesPtr      uintptr
		propsPtr      uintptr
		propValuesPtr uintptr

		countModes    uint32
		countProps    uint32
		countEncoders uint32

		encoderID       uint32 // current encoder
		id              uint32
		connectorType   uint32
		connectorTypeID uint32

		connection        uint32
		mmWidth, mmHeight uint32 // physical size in millimeters
		subpixel          uint32
	}

	// sysCrtc is struct drm_mode_crtc.
	sysCrtc struct {
		setConnectorsPtr uintptr
		countConnectors  uint32

		id   uint32
		fbID uint32

		x, y uint32 // position on the framebuffer

		gammaSize uint32
		modeValid uint32
		mode      ModeInfo
	}

	// sysFBCmd is struct drm_mode_fb_cmd.
	sysFBCmd struct {
		fbID          uint32
		width, height uint32
		pitch         uint32
		bpp           uint32
		depth         uint32

		// driver specific handle
		handle uint32
	}

	sysRmFB struct {
		handle uint32
	}

	// ModeInfo is struct drm_mode_modeinfo: one display timing.
	ModeInfo struct {
		Clock                                         uint32
		Hdisplay, HsyncStart, HsyncEnd, Htotal, Hskew uint16
		Vdisplay, VsyncStart, VsyncEnd, Vtotal, Vscan uint16

		Vrefresh uint32

		Flags uint32
		Type  uint32
		Name  [DisplayModeLen]uint8
	}
)

var (
	// DRM_IOWR(0xA0, struct drm_mode_card_res)
	IOCTLModeResources = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysResources{})), drm.IOCTLBase, 0xA0)

	// DRM_IOWR(0xA1, struct drm_mode_crtc)
	IOCTLModeGetCrtc = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysCrtc{})), drm.IOCTLBase, 0xA1)

	// DRM_IOWR(0xA2, struct drm_mode_crtc)
	IOCTLModeSetCrtc = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysCrtc{})), drm.IOCTLBase, 0xA2)

	// DRM_IOWR(0xA7, struct drm_mode_get_connector)
	IOCTLModeGetConnector = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysGetConnector{})), drm.IOCTLBase, 0xA7)

	// DRM_IOWR(0xAE, struct drm_mode_fb_cmd)
	IOCTLModeAddFB = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysFBCmd{})), drm.IOCTLBase, 0xAE)

	// DRM_IOWR(0xAF, unsigned int)
	IOCTLModeRmFB = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(uint32(0))), drm.IOCTLBase, 0xAF)
)

// Resources lists every mode resource a device exposes, each slice in
// the kernel's enumeration order.
type Resources struct {
	FBs        []FBHandle
	Crtcs      []CrtcHandle
	Connectors []ConnectorHandle
	Encoders   []EncoderHandle

	MinWidth, MaxWidth   uint32
	MinHeight, MaxHeight uint32
}

// GetResources enumerates the mode resources of dev. The ioctl runs
// twice: the first pass reports the counts, the second fills the
// handle arrays.
func GetResources(dev drm.Device) (*Resources, error) {
	res := sysResources{}
	if err := dev.Ioctl(IOCTLModeResources, unsafe.Pointer(&res)); err != nil {
		return nil, err
	}

	var (
		fbs        []FBHandle
		crtcs      []CrtcHandle
		connectors []ConnectorHandle
		encoders   []EncoderHandle
	)

	if res.countFbs > 0 {
		fbs = make([]FBHandle, res.countFbs)
		res.fbIDPtr = uintptr(unsafe.Pointer(&fbs[0]))
	}
	if res.countCrtcs > 0 {
		crtcs = make([]CrtcHandle, res.countCrtcs)
		res.crtcIDPtr = uintptr(unsafe.Pointer(&crtcs[0]))
	}
	if res.countConnectors > 0 {
		connectors = make([]ConnectorHandle, res.countConnectors)
		res.connectorIDPtr = uintptr(unsafe.Pointer(&connectors[0]))
	}
	if res.countEncoders > 0 {
		encoders = make([]EncoderHandle, res.countEncoders)
		res.encoderIDPtr = uintptr(unsafe.Pointer(&encoders[0]))
	}

	if err := dev.Ioctl(IOCTLModeResources, unsafe.Pointer(&res)); err != nil {
		return nil, err
	}

	// TODO: retry when a hotplug between the two passes changes the counts

	return &Resources{
		FBs:        fbs,
		Crtcs:      crtcs,
		Connectors: connectors,
		Encoders:   encoders,
		MinWidth:   res.minWidth,
		MaxWidth:   res.maxWidth,
		MinHeight:  res.minHeight,
		MaxHeight:  res.maxHeight,
	}, nil
}

// IndexOfCrtc returns crtc's position in the device enumeration
// order. The compatibility bitmasks carried by encoders and planes are
// indexed by this position, never by the raw handle value.
func (r *Resources) IndexOfCrtc(crtc CrtcHandle) (CrtcIndex, bool) {
	for i, h := range r.Crtcs {
		if h == crtc {
			return CrtcIndex(i), true
		}
	}
	return 0, false
}

// Connector is the snapshot of one connector: the physical output at
// the end of a display pipeline.
type Connector struct {
	handle  ConnectorHandle
	encoder EncoderHandle

	Type   uint32
	TypeID uint32

	Connection    uint8
	Width, Height uint32 // physical size in millimeters
	Subpixel      uint8

	Modes []ModeInfo

	Props      []uint32
	PropValues []uint64

	// Encoders able to drive this connector.
	Encoders []EncoderHandle
}

var _ ResourceInfo[ConnectorHandle] = (*Connector)(nil)

// GetConnector queries dev for the connector behind handle, following
// the same count-then-fill protocol as GetResources.
func GetConnector(dev drm.Device, handle ConnectorHandle) (*Connector, error) {
	conn := sysGetConnector{id: uint32(handle)}
	if err := dev.Ioctl(IOCTLModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return nil, err
	}

	var (
		props      []uint32
		propValues []uint64
		modes      []ModeInfo
		encoders   []EncoderHandle
	)

	if conn.countProps > 0 {
		props = make([]uint32, conn.countProps)
		conn.propsPtr = uintptr(unsafe.Pointer(&props[0]))

		propValues = make([]uint64, conn.countProps)
		conn.propValuesPtr = uintptr(unsafe.Pointer(&propValues[0]))
	}

	if conn.countModes == 0 {
		conn.countModes = 1
	}
	modes = make([]ModeInfo, conn.countModes)
	conn.modesPtr = uintptr(unsafe.Pointer(&modes[0]))

	if conn.countEncoders > 0 {
		encoders = make([]EncoderHandle, conn.countEncoders)
		conn.encodersPtr = uintptr(unsafe.Pointer(&encoders[0]))
	}

	if err := dev.Ioctl(IOCTLModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return nil, err
	}

	// a hotplug between the passes may change the counts; trust only
	// what fits the buffers handed to the kernel
	if n := int(conn.countModes); n < len(modes) {
		modes = modes[:n]
	}

	return &Connector{
		handle:  handle,
		encoder: EncoderHandle(conn.encoderID),

		Type:   conn.connectorType,
		TypeID: conn.connectorTypeID,

		Connection: uint8(conn.connection),
		Width:      conn.mmWidth,
		Height:     conn.mmHeight,

		// convert subpixel from kernel to userspace
		Subpixel: uint8(conn.subpixel + 1),

		Modes:      modes,
		Props:      props,
		PropValues: propValues,
		Encoders:   encoders,
	}, nil
}

// Handle returns the handle this snapshot describes.
func (c *Connector) Handle() ConnectorHandle {
	return c.handle
}

// CurrentEncoder returns the encoder currently driving the connector,
// if any.
func (c *Connector) CurrentEncoder() (EncoderHandle, bool) {
	if !c.encoder.Valid() {
		return 0, false
	}
	return c.encoder, true
}

// Crtc is the snapshot of one CRTC: the unit generating a pixel stream
// from a framebuffer.
type Crtc struct {
	handle CrtcHandle
	fb     FBHandle

	X, Y          uint32 // position on the framebuffer
	Width, Height uint32
	ModeValid     bool
	Mode          ModeInfo

	GammaSize int // number of gamma stops
}

var _ ResourceInfo[CrtcHandle] = (*Crtc)(nil)

// GetCrtc queries dev for the CRTC behind handle.
func GetCrtc(dev drm.Device, handle CrtcHandle) (*Crtc, error) {
	crtc := sysCrtc{id: uint32(handle)}
	if err := dev.Ioctl(IOCTLModeGetCrtc, unsafe.Pointer(&crtc)); err != nil {
		return nil, err
	}

	return &Crtc{
		handle:    handle,
		fb:        FBHandle(crtc.fbID),
		X:         crtc.x,
		Y:         crtc.y,
		Width:     uint32(crtc.mode.Hdisplay),
		Height:    uint32(crtc.mode.Vdisplay),
		ModeValid: crtc.modeValid != 0,
		Mode:      crtc.mode,
		GammaSize: int(crtc.gammaSize),
	}, nil
}

// Handle returns the handle this snapshot describes.
func (c *Crtc) Handle() CrtcHandle {
	return c.handle
}

// CurrentFB returns the framebuffer the CRTC scans out, if any.
func (c *Crtc) CurrentFB() (FBHandle, bool) {
	if !c.fb.Valid() {
		return 0, false
	}
	return c.fb, true
}

// SetCrtc binds crtc to fb at position x,y, driving the given
// connectors with mode. A zero fb with no connectors disables the
// CRTC.
func SetCrtc(dev drm.Device, crtc CrtcHandle, fb FBHandle, x, y uint32,
	connectors []ConnectorHandle, mode *ModeInfo) error {

	req := sysCrtc{
		id:   uint32(crtc),
		fbID: uint32(fb),
		x:    x,
		y:    y,
	}
	if len(connectors) > 0 {
		req.setConnectorsPtr = uintptr(unsafe.Pointer(&connectors[0]))
		req.countConnectors = uint32(len(connectors))
	}
	if mode != nil {
		req.mode = *mode
		req.modeValid = 1
	}
	return dev.Ioctl(IOCTLModeSetCrtc, unsafe.Pointer(&req))
}

// AddFB registers a framebuffer backed by the driver buffer object
// boHandle and returns its handle.
func AddFB(dev drm.Device, width, height uint16,
	depth, bpp uint8, pitch, boHandle uint32) (FBHandle, error) {

	req := sysFBCmd{
		width:  uint32(width),
		height: uint32(height),
		pitch:  pitch,
		bpp:    uint32(bpp),
		depth:  uint32(depth),
		handle: boHandle,
	}
	if err := dev.Ioctl(IOCTLModeAddFB, unsafe.Pointer(&req)); err != nil {
		return 0, err
	}
	return FBHandle(req.fbID), nil
}

// RmFB unregisters a framebuffer.
func RmFB(dev drm.Device, fb FBHandle) error {
	return dev.Ioctl(IOCTLModeRmFB, unsafe.Pointer(&sysRmFB{uint32(fb)}))
}
