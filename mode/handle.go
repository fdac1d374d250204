package mode

import "fmt"

// RawHandle is the kernel's untyped id for a mode resource. Zero is
// reserved to mean "none"; every other value is assigned by the kernel
// and only meaningful within the device session that produced it.
type RawHandle uint32

// One handle type per resource class. Keeping the classes distinct
// stops a CRTC id from being passed where, say, an encoder id is
// expected.
type (
	CrtcHandle      RawHandle
	ConnectorHandle RawHandle
	EncoderHandle   RawHandle
	FBHandle        RawHandle
	PlaneHandle     RawHandle
)

// ResourceHandle is satisfied by every typed handle in this package.
// Constructing a handle from a RawHandle is the plain type conversion;
// AsRaw goes the other way. Both are total: any raw value is accepted
// as opaque kernel data.
type ResourceHandle interface {
	~uint32
	AsRaw() RawHandle
}

// ResourceInfo is a point-in-time snapshot of one resource, bound to
// the handle type of its class. Snapshots are produced only by a query
// against a device and never change afterwards; callers wanting
// fresher state query again.
type ResourceInfo[H ResourceHandle] interface {
	Handle() H
}

func (h CrtcHandle) AsRaw() RawHandle      { return RawHandle(h) }
func (h ConnectorHandle) AsRaw() RawHandle { return RawHandle(h) }
func (h EncoderHandle) AsRaw() RawHandle   { return RawHandle(h) }
func (h FBHandle) AsRaw() RawHandle        { return RawHandle(h) }
func (h PlaneHandle) AsRaw() RawHandle     { return RawHandle(h) }

// Valid reports whether the handle refers to a resource at all; the
// kernel uses zero as the "none" sentinel.
func (h CrtcHandle) Valid() bool      { return h != 0 }
func (h ConnectorHandle) Valid() bool { return h != 0 }
func (h EncoderHandle) Valid() bool   { return h != 0 }
func (h FBHandle) Valid() bool        { return h != 0 }
func (h PlaneHandle) Valid() bool     { return h != 0 }

func (h CrtcHandle) String() string      { return fmt.Sprintf("crtc(%d)", uint32(h)) }
func (h ConnectorHandle) String() string { return fmt.Sprintf("connector(%d)", uint32(h)) }
func (h EncoderHandle) String() string   { return fmt.Sprintf("encoder(%d)", uint32(h)) }
func (h FBHandle) String() string        { return fmt.Sprintf("fb(%d)", uint32(h)) }
func (h PlaneHandle) String() string     { return fmt.Sprintf("plane(%d)", uint32(h)) }

// CrtcIndex is a CRTC's position in the device enumeration order. The
// possible-CRTC bitmasks carried by encoders and planes are indexed by
// this position, not by the CRTC's raw id; obtain one from
// Resources.IndexOfCrtc.
type CrtcIndex uint32

// Bitmask is a 32-bit membership set over CRTC enumeration indices:
// bit i set means the CRTC at index i is compatible.
type Bitmask uint32

// Has reports whether index i is a member. An index of 32 or more
// wraps to i mod 32: the mask and index both come straight from the
// kernel and an out-of-range value must not fault.
func (m Bitmask) Has(i CrtcIndex) bool {
	return m&(1<<(uint32(i)&31)) != 0
}
