package mode

import (
	"unsafe"

	"github.com/gfxlab/drm"
	"github.com/gfxlab/drm/ioctl"
)

// EncoderType is the signal technology an encoder drives its connector
// with.
type EncoderType uint32

// Encoder type codes, matching the kernel ABI values.
const (
	EncoderNone EncoderType = iota
	EncoderDAC
	EncoderTMDS
	EncoderLVDS
	EncoderTVDAC
	EncoderVirtual
	EncoderDSI
	EncoderDPMST
	EncoderDPI
)

// NewEncoderType decodes a kernel encoder type code. The mapping is
// total: codes this package does not know (newer kernels grow the set)
// decode to EncoderNone instead of failing.
func NewEncoderType(code uint32) EncoderType {
	if code > uint32(EncoderDPI) {
		return EncoderNone
	}
	return EncoderType(code)
}

func (t EncoderType) String() string {
	switch t {
	case EncoderDAC:
		return "DAC"
	case EncoderTMDS:
		return "TMDS"
	case EncoderLVDS:
		return "LVDS"
	case EncoderTVDAC:
		return "TVDAC"
	case EncoderVirtual:
		return "Virtual"
	case EncoderDSI:
		return "DSI"
	case EncoderDPMST:
		return "DPMST"
	case EncoderDPI:
		return "DPI"
	}
	return "None"
}

// sysGetEncoder is struct drm_mode_get_encoder. Field order and widths
// are kernel ABI.
type sysGetEncoder struct {
	id  uint32
	typ uint32

	crtcID uint32

	possibleCrtcs  uint32
	possibleClones uint32
}

// DRM_IOWR(0xA6, struct drm_mode_get_encoder)
var IOCTLModeGetEncoder = ioctl.NewCode(ioctl.Read|ioctl.Write,
	uint16(unsafe.Sizeof(sysGetEncoder{})), drm.IOCTLBase, 0xA6)

// Encoder is the snapshot of one encoder: the bridge that takes a
// CRTC's pixel stream and encodes it into a format its connector
// understands.
type Encoder struct {
	handle EncoderHandle
	crtc   CrtcHandle
	typ    EncoderType

	possibleCrtcs  Bitmask
	possibleClones Bitmask
}

var _ ResourceInfo[EncoderHandle] = (*Encoder)(nil)

// GetEncoder queries dev for the encoder behind handle. One blocking
// round-trip per call, no caching; transport errors are returned
// unchanged.
func GetEncoder(dev drm.Device, handle EncoderHandle) (*Encoder, error) {
	enc := sysGetEncoder{id: uint32(handle)}
	if err := dev.Ioctl(IOCTLModeGetEncoder, unsafe.Pointer(&enc)); err != nil {
		return nil, err
	}

	return &Encoder{
		handle:         handle,
		crtc:           CrtcHandle(enc.crtcID),
		typ:            NewEncoderType(enc.typ),
		possibleCrtcs:  Bitmask(enc.possibleCrtcs),
		possibleClones: Bitmask(enc.possibleClones),
	}, nil
}

// Handle returns the handle this snapshot describes.
func (e *Encoder) Handle() EncoderHandle {
	return e.handle
}

// EncoderType returns the encoder's signal technology.
func (e *Encoder) EncoderType() EncoderType {
	return e.typ
}

// CurrentCrtc returns the CRTC currently driving this encoder, if any.
func (e *Encoder) CurrentCrtc() (CrtcHandle, bool) {
	if !e.crtc.Valid() {
		return 0, false
	}
	return e.crtc, true
}

// SupportsCrtc reports whether the CRTC at index idx can drive this
// encoder.
func (e *Encoder) SupportsCrtc(idx CrtcIndex) bool {
	return e.possibleCrtcs.Has(idx)
}

// SupportsClone reports whether this encoder can be cloned with the
// CRTC at index idx.
func (e *Encoder) SupportsClone(idx CrtcIndex) bool {
	return e.possibleClones.Has(idx)
}

// PossibleCrtcs returns the CRTC compatibility mask exactly as the
// kernel reported it.
func (e *Encoder) PossibleCrtcs() Bitmask {
	return e.possibleCrtcs
}

// PossibleClones returns the clone compatibility mask exactly as the
// kernel reported it.
func (e *Encoder) PossibleClones() Bitmask {
	return e.possibleClones
}
