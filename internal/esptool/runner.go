package esptool

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"
)

// Longest output line kept; esptool lines are far shorter.
const maxLineSize = 1 << 20

// How long Wait keeps the output pipe open after the tool is killed.
const waitDelay = 2 * time.Second

// LineFunc receives each non-empty line a tool prints.
type LineFunc func(line string)

// ExitError reports a tool that ran and exited with a non-zero status.
type ExitError struct {
	Code     int
	Command  string
	LastLine string
}

func (e *ExitError) Error() string {
	if e.LastLine == "" {
		return fmt.Sprintf("Command failed (code %d): %s", e.Code, e.Command)
	}
	return fmt.Sprintf("Command failed (code %d): %s", e.Code, e.LastLine)
}

// Runner starts tools and streams their merged stdout and stderr.
type Runner struct{}

// Run executes tool with args and blocks until it exits. Cancelling ctx
// kills the tool together with any processes it started.
func (Runner) Run(ctx context.Context, tool Tool, args []string, onLine LineFunc) error {
	if len(tool.Argv) == 0 {
		return errors.Trace(ErrToolNotFound)
	}

	argv := append(append([]string{}, tool.Argv[1:]...), args...)
	cmd := exec.CommandContext(ctx, tool.Argv[0], argv...)
	setupProcess(cmd)
	cmd.WaitDelay = waitDelay

	// A non-*os.File writer makes exec own the OS pipe, so WaitDelay can
	// close it even if a grandchild still holds the write end.
	pr, pw := io.Pipe()
	defer pr.Close()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return errors.Annotatef(ErrToolNotFound, "start %s", tool.Name)
		}
		return errors.Annotatef(err, "start %s", tool.Name)
	}

	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		done <- err
	}()

	var last string
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanLines)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			continue
		}
		last = line
		if onLine != nil {
			onLine(line)
		}
	}
	if err := scanner.Err(); err != nil {
		glog.Warningf("%s output no longer streamed: %v", tool.Name, err)
		// Keep the tool from blocking on a full pipe.
		io.Copy(io.Discard, pr)
	}

	err := <-done
	if ctx.Err() != nil {
		return errors.Annotatef(ctx.Err(), "%s interrupted", tool.Name)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				Code:     exitErr.ExitCode(),
				Command:  tool.String() + " " + strings.Join(args, " "),
				LastLine: last,
			}
		}
		// Exited cleanly but left a child holding the output open.
		if errors.Is(err, exec.ErrWaitDelay) {
			return nil
		}
		return errors.Annotatef(err, "wait for %s", tool.Name)
	}
	return nil
}

// scanLines splits on '\n' and on the bare '\r' esptool uses to redraw
// progress lines.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
