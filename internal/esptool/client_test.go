package esptool

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/n1geiger/n1burner/internal/layout"
)

type call struct {
	tool Tool
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, tool Tool, args []string, onLine LineFunc) error {
	f.calls = append(f.calls, call{tool: tool, args: args})
	if onLine != nil {
		onLine("Hash of data verified.")
	}
	return f.err
}

func TestClient_WriteFlash(t *testing.T) {
	fakeLookPath(t, map[string]string{"esptool.py": "/usr/bin/esptool.py"})
	runner := &fakeRunner{}
	c := &Client{runner: runner}

	var lines []string
	regions := []layout.Region{{Address: layout.FirmwareAddress, Name: "firmware", Path: "fw.bin"}}
	err := c.WriteFlash(context.Background(), "/dev/ttyACM0", regions, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("WriteFlash() error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(runner.calls))
	}
	if !reflect.DeepEqual(runner.calls[0].args, WriteFlashArgs("/dev/ttyACM0", regions)) {
		t.Errorf("args = %v", runner.calls[0].args)
	}
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Running esptool command: /usr/bin/esptool.py --chip esp32c6") {
		t.Errorf("lines = %q", lines)
	}
}

func TestClient_BurnEfuse(t *testing.T) {
	fakeLookPath(t, map[string]string{"espefuse": "/usr/bin/espefuse"})
	runner := &fakeRunner{}
	c := &Client{runner: runner}

	if err := c.BurnEfuse(context.Background(), "COM3", layout.JTAGDisableEfuse, nil); err != nil {
		t.Fatalf("BurnEfuse() error = %v", err)
	}
	if runner.calls[0].tool.Argv[0] != "/usr/bin/espefuse" {
		t.Errorf("tool = %v", runner.calls[0].tool)
	}
	if !reflect.DeepEqual(runner.calls[0].args, BurnEfuseArgs("COM3", "DIS_PAD_JTAG")) {
		t.Errorf("args = %v", runner.calls[0].args)
	}
}

func TestClient_ExitErrorPassesThrough(t *testing.T) {
	fakeLookPath(t, map[string]string{"esptool": "/usr/bin/esptool"})
	exitErr := &ExitError{Code: 2, LastLine: "A fatal error occurred"}
	c := &Client{runner: &fakeRunner{err: exitErr}}

	err := c.WriteFlash(context.Background(), "COM3", nil, nil)
	if err != exitErr {
		t.Errorf("WriteFlash() error = %v, want %v", err, exitErr)
	}
}

func TestClient_ToolMissing(t *testing.T) {
	fakeLookPath(t, nil)
	runner := &fakeRunner{}
	c := &Client{runner: runner}

	err := c.BurnEfuse(context.Background(), "COM3", layout.JTAGDisableEfuse, nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("BurnEfuse() error = %v, want ErrToolNotFound", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner called %d times, want 0", len(runner.calls))
	}
}
