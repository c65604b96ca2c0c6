package gui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/n1geiger/n1burner/internal/assets"
	"github.com/n1geiger/n1burner/internal/burner"
)

type fakeDefaults struct {
	bootloader, partitions string
	err                    error
}

func (f fakeDefaults) DefaultBootloader() (string, error)     { return f.bootloader, f.err }
func (f fakeDefaults) DefaultPartitionTable() (string, error) { return f.partitions, f.err }

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{0xE9, 0x03}, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormState_FirmwareOnly(t *testing.T) {
	dir := t.TempDir()
	s := FormState{
		Port:      "COM7",
		Firmware:  touch(t, dir, "fw.bin"),
		BurnEfuse: true, // ignored without a first burn
	}

	job, err := s.Job(fakeDefaults{err: errors.New("must not be called")})
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if job.FirstBurn || job.BurnEfuse || job.Bootloader != "" {
		t.Errorf("Job() = %+v, want firmware only", job)
	}
}

func TestFormState_FirstBurnDefaults(t *testing.T) {
	dir := t.TempDir()
	defaults := fakeDefaults{
		bootloader: touch(t, dir, "bldr.bin"),
		partitions: touch(t, dir, "table.bin"),
	}
	s := FormState{
		Port:           "/dev/ttyACM0",
		Firmware:       touch(t, dir, "fw.bin"),
		FirstBurn:      true,
		Bootloader:     ImageChoice{Default: true},
		PartitionTable: ImageChoice{Default: true},
		BurnEfuse:      true,
	}

	job, err := s.Job(defaults)
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if job.Bootloader != defaults.bootloader || job.PartitionTable != defaults.partitions {
		t.Errorf("Job() = %+v, want default images", job)
	}
	if !job.BurnEfuse {
		t.Errorf("Job().BurnEfuse = false, want true")
	}
}

func TestFormState_FirstBurnCustom(t *testing.T) {
	dir := t.TempDir()
	custom := touch(t, dir, "my_table.bin")
	s := FormState{
		Port:           "/dev/ttyACM0",
		Firmware:       touch(t, dir, "fw.bin"),
		FirstBurn:      true,
		Bootloader:     ImageChoice{Default: true},
		PartitionTable: ImageChoice{Custom: custom},
	}

	job, err := s.Job(fakeDefaults{bootloader: touch(t, dir, "bldr.bin")})
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if job.PartitionTable != custom {
		t.Errorf("PartitionTable = %q, want %q", job.PartitionTable, custom)
	}
}

func TestFormState_Errors(t *testing.T) {
	dir := t.TempDir()
	fw := touch(t, dir, "fw.bin")

	tests := []struct {
		name     string
		state    FormState
		defaults Defaults
		want     error
	}{
		{
			name:  "no firmware",
			state: FormState{Port: "COM1"},
			want:  burner.ErrNoFirmware,
		},
		{
			name:  "no ports",
			state: FormState{Port: burner.NoPortsPlaceholder, Firmware: fw},
			want:  burner.ErrNoPort,
		},
		{
			name:     "custom bootloader not chosen",
			state:    FormState{Port: "COM1", Firmware: fw, FirstBurn: true, PartitionTable: ImageChoice{Default: true}},
			defaults: fakeDefaults{partitions: fw},
			want:     burner.ErrNoBootloader,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.state.Job(tc.defaults)
			if !errors.Is(err, tc.want) {
				t.Errorf("Job() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFormState_MissingDefault(t *testing.T) {
	dir := t.TempDir()
	s := FormState{
		Port:           "COM1",
		Firmware:       touch(t, dir, "fw.bin"),
		FirstBurn:      true,
		Bootloader:     ImageChoice{Default: true},
		PartitionTable: ImageChoice{Default: true},
	}

	_, err := s.Job(assets.Set{Dir: dir})
	var missing *assets.MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("Job() error = %v, want *assets.MissingError", err)
	}
	if missing.Role != "bootloader" {
		t.Errorf("Role = %q, want bootloader", missing.Role)
	}
}
