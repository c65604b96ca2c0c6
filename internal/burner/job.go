package burner

import (
	"errors"
	"fmt"
	"os"

	"github.com/n1geiger/n1burner/internal/layout"
)

// NoPortsPlaceholder is what port pickers show when nothing is connected.
const NoPortsPlaceholder = "No ports available"

var (
	ErrNoFirmware          = errors.New("please select a valid firmware file")
	ErrNoPort              = errors.New("please select a serial port")
	ErrNoBootloader        = errors.New("please select a valid bootloader file")
	ErrNoPartitionTable    = errors.New("please select a valid partition table file")
	ErrEfuseNeedsFirstBurn = errors.New("eFuse can only be burned together with a first burn")
	ErrImageNeedsFirstBurn = errors.New("bootloader and partition table can only be flashed with a first burn")
)

// MissingFileError reports an image path that does not exist.
type MissingFileError struct {
	Role string
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found at %s", e.Role, e.Path)
}

func (e *MissingFileError) Unwrap() error {
	return e.Err
}

// Job is everything needed for one burn.
type Job struct {
	Port           string
	Firmware       string
	Bootloader     string
	PartitionTable string
	FirstBurn      bool
	BurnEfuse      bool
}

// Validate checks the job before any tool is started.
func (j Job) Validate() error {
	if j.Firmware == "" {
		return ErrNoFirmware
	}
	if err := checkFile("firmware", j.Firmware); err != nil {
		return err
	}

	if j.Port == "" || j.Port == NoPortsPlaceholder {
		return ErrNoPort
	}

	if err := j.CheckFirstBurn(); err != nil {
		return err
	}

	if j.FirstBurn {
		if j.Bootloader == "" {
			return ErrNoBootloader
		}
		if err := checkFile("bootloader", j.Bootloader); err != nil {
			return err
		}
		if j.PartitionTable == "" {
			return ErrNoPartitionTable
		}
		if err := checkFile("partition table", j.PartitionTable); err != nil {
			return err
		}
	}

	return nil
}

// CheckFirstBurn rejects options that only make sense on a first burn.
func (j Job) CheckFirstBurn() error {
	if j.FirstBurn {
		return nil
	}
	if j.BurnEfuse {
		return ErrEfuseNeedsFirstBurn
	}
	if j.Bootloader != "" || j.PartitionTable != "" {
		return ErrImageNeedsFirstBurn
	}
	return nil
}

// Regions returns the images to write in flash order. Without a first
// burn only the firmware is written; Validate rejects a job that names
// other images anyway.
func (j Job) Regions() []layout.Region {
	var regions []layout.Region

	if j.FirstBurn {
		regions = append(regions,
			layout.Region{
				Address: layout.BootloaderAddress,
				Name:    "bootloader",
				Path:    j.Bootloader,
			},
			layout.Region{
				Address: layout.PartitionTableAddress,
				Name:    "partition table",
				Path:    j.PartitionTable,
			},
		)
	}

	regions = append(regions, layout.Region{
		Address: layout.FirmwareAddress,
		Name:    "firmware",
		Path:    j.Firmware,
	})

	return regions
}

func checkFile(role, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &MissingFileError{Role: role, Path: path, Err: err}
	}
	if info.IsDir() {
		return &MissingFileError{Role: role, Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}
	return nil
}
