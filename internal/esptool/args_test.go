package esptool

import (
	"reflect"
	"testing"

	"github.com/n1geiger/n1burner/internal/layout"
)

func TestWriteFlashArgs_FirstBurn(t *testing.T) {
	regions := []layout.Region{
		{Address: layout.BootloaderAddress, Name: "bootloader", Path: "bldr.bin"},
		{Address: layout.PartitionTableAddress, Name: "partition table", Path: "table.bin"},
		{Address: layout.FirmwareAddress, Name: "firmware", Path: "fw.bin"},
	}

	result := WriteFlashArgs("/dev/ttyACM0", regions)
	expected := []string{
		"--chip", "esp32c6",
		"--port", "/dev/ttyACM0",
		"--baud", "460800",
		"write_flash",
		"0x0", "bldr.bin",
		"0x8000", "table.bin",
		"0x10000", "fw.bin",
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("WriteFlashArgs() = %v, want %v", result, expected)
	}
}

func TestWriteFlashArgs_FirmwareOnly(t *testing.T) {
	regions := []layout.Region{
		{Address: layout.FirmwareAddress, Name: "firmware", Path: "C:\\fw\\n1.bin"},
	}

	result := WriteFlashArgs("COM5", regions)
	expected := []string{
		"--chip", "esp32c6",
		"--port", "COM5",
		"--baud", "460800",
		"write_flash",
		"0x10000", "C:\\fw\\n1.bin",
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("WriteFlashArgs() = %v, want %v", result, expected)
	}
}

func TestBurnEfuseArgs(t *testing.T) {
	result := BurnEfuseArgs("/dev/ttyUSB0", layout.JTAGDisableEfuse)
	expected := []string{
		"--chip", "esp32c6",
		"--port", "/dev/ttyUSB0",
		"--do-not-confirm",
		"burn_efuse", "DIS_PAD_JTAG",
	}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("BurnEfuseArgs() = %v, want %v", result, expected)
	}
}
