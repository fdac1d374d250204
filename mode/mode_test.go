package mode

import (
	"testing"
)

func TestGetResources(t *testing.T) {
	dev := &fakeDevice{
		fbs:   []uint32{10},
		crtcs: []uint32{21, 22, 23},
		connectors: map[uint32]fakeConnector{
			31: {connection: Disconnected},
		},
		encoders: map[uint32]sysGetEncoder{
			41: {}, 42: {},
		},
	}

	res, err := GetResources(dev)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.FBs) != 1 || res.FBs[0] != FBHandle(10) {
		t.Errorf("FBs = %v", res.FBs)
	}
	if len(res.Crtcs) != 3 || res.Crtcs[0] != CrtcHandle(21) {
		t.Errorf("Crtcs = %v", res.Crtcs)
	}
	if len(res.Connectors) != 1 || res.Connectors[0] != ConnectorHandle(31) {
		t.Errorf("Connectors = %v", res.Connectors)
	}
	if len(res.Encoders) != 2 {
		t.Errorf("Encoders = %v", res.Encoders)
	}
}

func TestIndexOfCrtc(t *testing.T) {
	res := &Resources{Crtcs: []CrtcHandle{21, 22, 23}}

	// The raw handle value is unrelated to the enumeration index.
	idx, ok := res.IndexOfCrtc(CrtcHandle(23))
	if !ok || idx != 2 {
		t.Errorf("IndexOfCrtc(23) = %d, %v, want 2, true", idx, ok)
	}
	if _, ok := res.IndexOfCrtc(CrtcHandle(99)); ok {
		t.Error("IndexOfCrtc found a CRTC not on the device")
	}
}

func TestGetConnector(t *testing.T) {
	modes := []ModeInfo{
		{Hdisplay: 1920, Vdisplay: 1080, Vrefresh: 60},
		{Hdisplay: 1280, Vdisplay: 720, Vrefresh: 60},
	}
	dev := &fakeDevice{
		connectors: map[uint32]fakeConnector{
			31: {
				encoderID:  41,
				connection: Connected,
				mmWidth:    600,
				mmHeight:   340,
				modes:      modes,
				encoders:   []uint32{41, 42},
				props:      []uint32{1, 2},
				propValues: []uint64{7, 8},
			},
		},
	}

	conn, err := GetConnector(dev, ConnectorHandle(31))
	if err != nil {
		t.Fatal(err)
	}
	if conn.Handle() != ConnectorHandle(31) {
		t.Errorf("Handle() = %v", conn.Handle())
	}
	if enc, ok := conn.CurrentEncoder(); !ok || enc != EncoderHandle(41) {
		t.Errorf("CurrentEncoder() = %v, %v", enc, ok)
	}
	if conn.Connection != Connected {
		t.Errorf("Connection = %d", conn.Connection)
	}
	if conn.Width != 600 || conn.Height != 340 {
		t.Errorf("physical size = %dx%d", conn.Width, conn.Height)
	}
	if len(conn.Modes) != 2 || conn.Modes[0].Hdisplay != 1920 {
		t.Errorf("Modes = %v", conn.Modes)
	}
	if len(conn.Encoders) != 2 || conn.Encoders[1] != EncoderHandle(42) {
		t.Errorf("Encoders = %v", conn.Encoders)
	}
	if len(conn.Props) != 2 || conn.PropValues[1] != 8 {
		t.Errorf("Props = %v, PropValues = %v", conn.Props, conn.PropValues)
	}
}

func TestGetConnectorNoEncoder(t *testing.T) {
	dev := &fakeDevice{
		connectors: map[uint32]fakeConnector{
			31: {connection: Disconnected},
		},
	}

	conn, err := GetConnector(dev, ConnectorHandle(31))
	if err != nil {
		t.Fatal(err)
	}
	if enc, ok := conn.CurrentEncoder(); ok {
		t.Errorf("CurrentEncoder() = %v, true, want none", enc)
	}
	if len(conn.Modes) != 0 {
		t.Errorf("Modes = %v, want none", conn.Modes)
	}
}
