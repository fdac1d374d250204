package mode

import (
	"fmt"

	"github.com/gfxlab/drm"
)

// Pipe is one display pipeline: a connected connector wired to a CRTC
// with its preferred mode.
type Pipe struct {
	Conn ConnectorHandle
	Crtc CrtcHandle
	Mode ModeInfo

	Width, Height uint16
}

// Pipeline holds one Pipe per connected connector on a device, each
// with a distinct CRTC.
type Pipeline struct {
	Pipes []Pipe
}

// NewPipeline enumerates the device and assigns a CRTC to every
// connected connector. Connectors without a monitor are skipped; a
// connected connector with no usable mode or no free CRTC is an error.
func NewPipeline(dev drm.Device) (*Pipeline, error) {
	res, err := GetResources(dev)
	if err != nil {
		return nil, fmt.Errorf("cannot retrieve resources: %w", err)
	}

	p := &Pipeline{}
	taken := make(map[CrtcHandle]bool)
	for _, handle := range res.Connectors {
		conn, err := GetConnector(dev, handle)
		if err != nil {
			return nil, fmt.Errorf("cannot retrieve connector: %w", err)
		}
		if conn.Connection != Connected {
			continue
		}
		if len(conn.Modes) == 0 {
			return nil, fmt.Errorf("no valid mode for %v", handle)
		}

		crtc, err := FindCrtc(dev, res, conn, taken)
		if err != nil {
			return nil, err
		}
		taken[crtc] = true

		p.Pipes = append(p.Pipes, Pipe{
			Conn:   handle,
			Crtc:   crtc,
			Mode:   conn.Modes[0],
			Width:  conn.Modes[0].Hdisplay,
			Height: conn.Modes[0].Vdisplay,
		})
	}
	return p, nil
}

// FindCrtc picks a CRTC able to drive conn, preferring the CRTC its
// current encoder is already attached to. CRTCs present in taken are
// skipped.
func FindCrtc(dev drm.Device, res *Resources, conn *Connector,
	taken map[CrtcHandle]bool) (CrtcHandle, error) {

	if handle, ok := conn.CurrentEncoder(); ok {
		enc, err := GetEncoder(dev, handle)
		if err != nil {
			return 0, fmt.Errorf("cannot retrieve encoder: %w", err)
		}
		if crtc, ok := enc.CurrentCrtc(); ok && !taken[crtc] {
			return crtc, nil
		}
	}

	// The connector is unbound, or its encoder's CRTC belongs to
	// another pipe already. Test each candidate encoder against every
	// CRTC on the device; the compatibility mask is indexed by the
	// CRTC's enumeration position.
	for _, handle := range conn.Encoders {
		enc, err := GetEncoder(dev, handle)
		if err != nil {
			return 0, fmt.Errorf("cannot retrieve encoder: %w", err)
		}
		for i, crtc := range res.Crtcs {
			if !enc.SupportsCrtc(CrtcIndex(i)) || taken[crtc] {
				continue
			}
			return crtc, nil
		}
	}

	return 0, fmt.Errorf("no suitable CRTC for %v", conn.Handle())
}
