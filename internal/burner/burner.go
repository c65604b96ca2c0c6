// Package burner sequences the esptool invocations for one burn.
package burner

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/n1geiger/n1burner/internal/esptool"
	"github.com/n1geiger/n1burner/internal/layout"
)

// Executor runs the external tools.
type Executor interface {
	WriteFlash(ctx context.Context, port string, regions []layout.Region, onLine esptool.LineFunc) error
	BurnEfuse(ctx context.Context, port, efuse string, onLine esptool.LineFunc) error
}

// ProgressCallback is called with bytes written so far across all regions.
type ProgressCallback func(current, total int)

// LogCallback receives every line of tool output and status messages.
type LogCallback func(line string)

// Burner writes a Job to a device.
type Burner struct {
	exec     Executor
	progress ProgressCallback
	log      LogCallback
}

// New creates a Burner that runs tools through exec.
func New(exec Executor) *Burner {
	return &Burner{exec: exec}
}

// SetProgressCallback sets the progress callback function.
func (b *Burner) SetProgressCallback(cb ProgressCallback) {
	b.progress = cb
}

// SetLogCallback sets the log callback function.
func (b *Burner) SetLogCallback(cb LogCallback) {
	b.log = cb
}

func (b *Burner) reportProgress(current, total int) {
	if b.progress != nil {
		b.progress(current, total)
	}
}

func (b *Burner) reportLog(line string) {
	if b.log != nil {
		b.log(line)
	}
}

// Burn validates the job, writes all regions, then burns the JTAG eFuse if
// requested. The first failure aborts the sequence; the eFuse is never
// burned after a failed write.
func (b *Burner) Burn(ctx context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	regions := job.Regions()
	tracker, err := newTracker(regions)
	if err != nil {
		return err
	}

	onLine := func(line string) {
		b.reportLog(line)
		if p, ok := esptool.ParseProgress(line); ok {
			if current, changed := tracker.update(p); changed {
				b.reportProgress(current, tracker.total)
			}
		}
	}

	glog.Infof("writing %d region(s) to %s", len(regions), job.Port)
	if err := b.exec.WriteFlash(ctx, job.Port, regions, onLine); err != nil {
		return fmt.Errorf("write flash: %w", err)
	}
	b.reportProgress(tracker.total, tracker.total)
	b.reportLog("Firmware burned successfully")

	if job.BurnEfuse {
		glog.Warningf("burning %s on %s", layout.JTAGDisableEfuse, job.Port)
		if err := b.exec.BurnEfuse(ctx, job.Port, layout.JTAGDisableEfuse, b.reportLog); err != nil {
			return fmt.Errorf("burn eFuse %s: %w", layout.JTAGDisableEfuse, err)
		}
		b.reportLog("eFuse burned successfully")
	}

	return nil
}

// tracker turns per-region percentages into bytes across the whole write.
type tracker struct {
	sizes   map[uint32]int
	offsets map[uint32]int
	total   int
	last    int
}

func newTracker(regions []layout.Region) (*tracker, error) {
	t := &tracker{
		sizes:   make(map[uint32]int, len(regions)),
		offsets: make(map[uint32]int, len(regions)),
	}
	for _, r := range regions {
		info, err := os.Stat(r.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", r.Name, err)
		}
		t.offsets[r.Address] = t.total
		t.sizes[r.Address] = int(info.Size())
		t.total += int(info.Size())
	}
	return t, nil
}

// update maps a progress line to a byte count. esptool reports the address
// of the block being written, so the owning region is the one with the
// highest start address not above it.
func (t *tracker) update(p esptool.Progress) (int, bool) {
	var start uint32
	found := false
	for addr := range t.sizes {
		if addr <= p.Address && (!found || addr > start) {
			start = addr
			found = true
		}
	}
	if !found {
		return t.last, false
	}

	current := t.offsets[start] + int(float64(t.sizes[start])*p.Percent/100)
	if current > t.total {
		current = t.total
	}
	if current <= t.last {
		return t.last, false
	}
	t.last = current
	return current, true
}
