// Package assets locates the default bootloader and partition table shipped
// alongside the executable.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths of the bundled images, relative to the base directory.
var (
	BootloaderPath     = filepath.Join("bootloader_default", "bldr.bin")
	PartitionTablePath = filepath.Join("partition_table_default", "table.bin")
	BackgroundPath     = filepath.Join("res", "bg.png")
)

var executable = os.Executable

// MissingError reports a default image that is not where it should be.
type MissingError struct {
	Role string
	Path string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("default %s not found at:\n%s", e.Role, e.Path)
}

// BaseDir returns the directory containing the running executable.
func BaseDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Set is a directory holding the default images.
type Set struct {
	Dir string
}

// New returns the image set in dir, or next to the executable when dir is
// empty.
func New(dir string) (Set, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return Set{}, err
		}
		return Set{Dir: abs}, nil
	}
	base, err := BaseDir()
	if err != nil {
		return Set{}, err
	}
	return Set{Dir: base}, nil
}

// DefaultBootloader returns the absolute path of the bundled bootloader.
func (s Set) DefaultBootloader() (string, error) {
	return s.resolve("bootloader", BootloaderPath)
}

// DefaultPartitionTable returns the absolute path of the bundled partition
// table.
func (s Set) DefaultPartitionTable() (string, error) {
	return s.resolve("partition table", PartitionTablePath)
}

func (s Set) resolve(role, rel string) (string, error) {
	path := filepath.Join(s.Dir, rel)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path, &MissingError{Role: role, Path: path}
	}
	return path, nil
}

// Background returns the header image for the desktop form, if present.
func (s Set) Background() (string, bool) {
	path, err := s.resolve("background", BackgroundPath)
	return path, err == nil
}
