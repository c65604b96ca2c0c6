package esptool

import (
	"context"
	"strings"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/n1geiger/n1burner/internal/layout"
)

type commandRunner interface {
	Run(ctx context.Context, tool Tool, args []string, onLine LineFunc) error
}

// Client writes flash and burns eFuses by invoking the Espressif tools.
// Tools are located on first use, so a missing espefuse only matters when
// an eFuse is actually burned.
type Client struct {
	paths  Paths
	runner commandRunner
}

// NewClient creates a Client that resolves tools using paths.
func NewClient(paths Paths) *Client {
	return &Client{paths: paths, runner: Runner{}}
}

// WriteFlash writes all regions with a single write_flash invocation.
func (c *Client) WriteFlash(ctx context.Context, port string, regions []layout.Region, onLine LineFunc) error {
	tool, err := LocateEsptool(c.paths)
	if err != nil {
		return errors.Trace(err)
	}
	return c.run(ctx, tool, WriteFlashArgs(port, regions), onLine)
}

// BurnEfuse burns the named eFuse.
func (c *Client) BurnEfuse(ctx context.Context, port, efuse string, onLine LineFunc) error {
	tool, err := LocateEspefuse(c.paths)
	if err != nil {
		return errors.Trace(err)
	}
	return c.run(ctx, tool, BurnEfuseArgs(port, efuse), onLine)
}

func (c *Client) run(ctx context.Context, tool Tool, args []string, onLine LineFunc) error {
	cmdline := tool.String() + " " + strings.Join(args, " ")
	glog.V(1).Infof("exec: %s", cmdline)
	if onLine != nil {
		onLine("Running " + tool.Name + " command: " + cmdline)
	}

	if err := c.runner.Run(ctx, tool, args, onLine); err != nil {
		glog.Warningf("%s failed: %v", tool.Name, err)
		// ExitError already carries the tool's own message.
		if _, ok := err.(*ExitError); ok {
			return err
		}
		return errors.Trace(err)
	}
	return nil
}
