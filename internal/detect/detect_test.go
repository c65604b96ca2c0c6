package detect

import (
	"errors"
	"testing"

	"github.com/n1geiger/n1burner/internal/serial"
)

func fakePorts(t *testing.T, ports []serial.PortInfo, err error) {
	t.Helper()
	orig := listPorts
	listPorts = func() ([]serial.PortInfo, error) { return ports, err }
	t.Cleanup(func() { listPorts = orig })
}

func TestListDevices_Ordering(t *testing.T) {
	fakePorts(t, []serial.PortInfo{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "10c4", PID: "ea60"},
		{Name: "/dev/ttyUSB1", IsUSB: true, VID: "2341", PID: "0043", Product: "Arduino Uno"},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "303A", PID: "1001", Product: "USB JTAG/serial debug unit"},
	}, nil)

	devices, err := ListDevices()
	if err != nil {
		t.Fatalf("ListDevices() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("ListDevices() returned %d devices, want 2", len(devices))
	}
	if devices[0].Port != "/dev/ttyACM0" || devices[0].Kind != KindUSBSerialJTAG {
		t.Errorf("devices[0] = %+v, want ESP32-C6 on /dev/ttyACM0", devices[0])
	}
	if devices[1].Port != "/dev/ttyUSB0" || devices[1].Kind != KindUSBBridge {
		t.Errorf("devices[1] = %+v, want bridge on /dev/ttyUSB0", devices[1])
	}
	if devices[1].Product != "Silicon Labs CP210x" {
		t.Errorf("devices[1].Product = %q, want bridge name", devices[1].Product)
	}
}

func TestDetectDevice_NoneFound(t *testing.T) {
	fakePorts(t, []serial.PortInfo{{Name: "COM1"}}, nil)

	if _, err := DetectDevice(); err == nil {
		t.Errorf("DetectDevice() succeeded, want error")
	}
}

func TestDetectDevice_ListError(t *testing.T) {
	listErr := errors.New("permission denied")
	fakePorts(t, nil, listErr)

	if _, err := DetectDevice(); !errors.Is(err, listErr) {
		t.Errorf("DetectDevice() error = %v, want %v", err, listErr)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUSBSerialJTAG, "ESP32-C6 USB Serial/JTAG"},
		{KindUSBBridge, "USB-UART bridge"},
		{KindUnknown, "unknown"},
	}
	for _, tc := range tests {
		if tc.kind.String() != tc.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, tc.kind.String(), tc.expected)
		}
	}
}
