package detect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/n1geiger/n1burner/internal/serial"
)

// Kind classifies how a port is connected to the ESP32-C6.
type Kind int

const (
	KindUnknown Kind = iota
	KindUSBBridge
	KindUSBSerialJTAG
)

func (k Kind) String() string {
	switch k {
	case KindUSBSerialJTAG:
		return "ESP32-C6 USB Serial/JTAG"
	case KindUSBBridge:
		return "USB-UART bridge"
	default:
		return "unknown"
	}
}

// Result represents a candidate N1 device.
type Result struct {
	Port    string
	Kind    Kind
	USBID   string
	Product string
}

const espressifVID = "303A"

// Common USB-UART bridges found on ESP32 boards, keyed by VID.
var bridgeVIDs = map[string]string{
	"10C4": "Silicon Labs CP210x",
	"1A86": "WCH CH34x",
	"0403": "FTDI",
}

var listPorts = serial.ListDetailed

// DetectDevice returns the most likely N1 port.
func DetectDevice() (*Result, error) {
	devices, err := ListDevices()
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no ESP32-C6 device found")
	}
	return &devices[0], nil
}

// ListDevices returns every USB port that could be an N1, best match first.
func ListDevices() ([]Result, error) {
	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}

	var results []Result
	for _, p := range ports {
		if r, ok := classify(p); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Kind > results[j].Kind
	})
	return results, nil
}

func classify(p serial.PortInfo) (Result, bool) {
	if !p.IsUSB {
		return Result{}, false
	}

	vid := strings.ToUpper(p.VID)
	r := Result{Port: p.Name, USBID: p.USBID(), Product: p.Product}

	switch {
	case vid == espressifVID:
		r.Kind = KindUSBSerialJTAG
	case bridgeVIDs[vid] != "":
		r.Kind = KindUSBBridge
		if r.Product == "" {
			r.Product = bridgeVIDs[vid]
		}
	default:
		return Result{}, false
	}
	return r, true
}
