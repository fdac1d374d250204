package mode

import (
	"syscall"
	"unsafe"
)

// fakeConnector is the scripted kernel-side state of one connector.
type fakeConnector struct {
	encoderID  uint32
	connection uint32
	mmWidth    uint32
	mmHeight   uint32
	subpixel   uint32

	modes      []ModeInfo
	encoders   []uint32
	props      []uint32
	propValues []uint64
}

// fakePlane is the scripted kernel-side state of one plane.
type fakePlane struct {
	crtcID        uint32
	fbID          uint32
	possibleCrtcs uint32
	gammaSize     uint32
	formats       []uint32
}

// fakeDevice stands in for an open card, answering mode ioctls from a
// scripted resource table. When err is set every call fails with it,
// verbatim.
type fakeDevice struct {
	err error

	fbs        []uint32
	crtcs      []uint32
	connectors map[uint32]fakeConnector
	encoders   map[uint32]sysGetEncoder
	planes     map[uint32]fakePlane
}

func (d *fakeDevice) Fd() uintptr { return ^uintptr(0) }

func (d *fakeDevice) Ioctl(cmd uint32, data unsafe.Pointer) error {
	if d.err != nil {
		return d.err
	}

	switch cmd {
	case IOCTLModeGetEncoder:
		req := (*sysGetEncoder)(data)
		enc, ok := d.encoders[req.id]
		if !ok {
			return syscall.ENOENT
		}
		id := req.id
		*req = enc
		req.id = id
		return nil

	case IOCTLModeResources:
		req := (*sysResources)(data)
		fillIDs(req.fbIDPtr, d.fbs)
		fillIDs(req.crtcIDPtr, d.crtcs)
		fillIDs(req.connectorIDPtr, connectorIDs(d.connectors))
		fillIDs(req.encoderIDPtr, encoderIDs(d.encoders))
		req.countFbs = uint32(len(d.fbs))
		req.countCrtcs = uint32(len(d.crtcs))
		req.countConnectors = uint32(len(d.connectors))
		req.countEncoders = uint32(len(d.encoders))
		return nil

	case IOCTLModeGetConnector:
		req := (*sysGetConnector)(data)
		conn, ok := d.connectors[req.id]
		if !ok {
			return syscall.ENOENT
		}
		req.encoderID = conn.encoderID
		req.connection = conn.connection
		req.mmWidth = conn.mmWidth
		req.mmHeight = conn.mmHeight
		req.subpixel = conn.subpixel
		if req.modesPtr != 0 {
			copy(unsafe.Slice((*ModeInfo)(unsafe.Pointer(req.modesPtr)),
				int(req.countModes)), conn.modes)
		}
		fillIDs(req.encodersPtr, conn.encoders)
		fillIDs(req.propsPtr, conn.props)
		if req.propValuesPtr != 0 {
			copy(unsafe.Slice((*uint64)(unsafe.Pointer(req.propValuesPtr)),
				int(req.countProps)), conn.propValues)
		}
		req.countModes = uint32(len(conn.modes))
		req.countProps = uint32(len(conn.props))
		req.countEncoders = uint32(len(conn.encoders))
		return nil

	case IOCTLModeGetPlaneResources:
		req := (*sysGetPlaneRes)(data)
		fillIDs(req.planeIDPtr, planeIDs(d.planes))
		req.countPlanes = uint32(len(d.planes))
		return nil

	case IOCTLModeGetPlane:
		req := (*sysGetPlane)(data)
		pl, ok := d.planes[req.id]
		if !ok {
			return syscall.ENOENT
		}
		req.crtcID = pl.crtcID
		req.fbID = pl.fbID
		req.possibleCrtcs = pl.possibleCrtcs
		req.gammaSize = pl.gammaSize
		fillIDs(req.formatTypePtr, pl.formats)
		req.countFormatTypes = uint32(len(pl.formats))
		return nil
	}

	return syscall.EINVAL
}

// fillIDs writes ids through a userspace pointer the way the kernel
// fills the second pass of a count-then-fill ioctl.
func fillIDs(ptr uintptr, ids []uint32) {
	if ptr == 0 || len(ids) == 0 {
		return
	}
	copy(unsafe.Slice((*uint32)(unsafe.Pointer(ptr)), len(ids)), ids)
}

func connectorIDs(m map[uint32]fakeConnector) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func encoderIDs(m map[uint32]sysGetEncoder) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func planeIDs(m map[uint32]fakePlane) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}
