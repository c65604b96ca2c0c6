package layout

import "fmt"

// Target chip as understood by esptool and espefuse.
const Chip = "esp32c6"

// Flash offsets for the N1
const (
	BootloaderAddress     = 0x0000
	PartitionTableAddress = 0x8000
	FirmwareAddress       = 0x10000
)

// Baud rate used for every write
const BaudRate = 460800

// JTAGDisableEfuse is burned once to disable the JTAG pads permanently.
const JTAGDisableEfuse = "DIS_PAD_JTAG"

// Region is one image to write at a fixed flash offset.
type Region struct {
	Address uint32
	Name    string
	Path    string
}

// Offset returns the address in the form esptool expects ("0x8000").
func (r Region) Offset() string {
	return FormatOffset(r.Address)
}

// FormatOffset formats a flash address as a lower-case hex literal.
func FormatOffset(addr uint32) string {
	return fmt.Sprintf("0x%x", addr)
}
