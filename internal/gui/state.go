package gui

import (
	"github.com/n1geiger/n1burner/internal/burner"
)

const (
	useDefault = "Use default"
	customize  = "Customize"
)

// Defaults supplies the bundled images used when "Use default" is selected.
type Defaults interface {
	DefaultBootloader() (string, error)
	DefaultPartitionTable() (string, error)
}

// ImageChoice is one "Use default / Customize" row.
type ImageChoice struct {
	Default bool
	Custom  string
}

// FormState is a snapshot of the form when Burn is pressed.
type FormState struct {
	Port           string
	Firmware       string
	FirstBurn      bool
	Bootloader     ImageChoice
	PartitionTable ImageChoice
	BurnEfuse      bool
}

// Job turns the form into a validated burn job.
func (s FormState) Job(defaults Defaults) (burner.Job, error) {
	job := burner.Job{
		Port:      s.Port,
		Firmware:  s.Firmware,
		FirstBurn: s.FirstBurn,
		BurnEfuse: s.FirstBurn && s.BurnEfuse,
	}

	// Checked in the order the form reads, top to bottom.
	if err := (burner.Job{Port: job.Port, Firmware: job.Firmware}).Validate(); err != nil {
		return job, err
	}

	if s.FirstBurn {
		var err error
		if job.Bootloader, err = pick(s.Bootloader, defaults.DefaultBootloader); err != nil {
			return job, err
		}
		if job.PartitionTable, err = pick(s.PartitionTable, defaults.DefaultPartitionTable); err != nil {
			return job, err
		}
	}

	return job, job.Validate()
}

func pick(c ImageChoice, def func() (string, error)) (string, error) {
	if c.Default {
		return def()
	}
	return c.Custom, nil
}
