// Package notifier delivers desktop notifications through an external command.
package notifier

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Notifier shows a user-visible notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Command runs a notify-send style binary: `<cmd> <title> <body>`. On darwin with
// no command configured it falls back to osascript. When nothing is available it
// rings the terminal bell on Fallback.
type Command struct {
	Name     string
	Fallback io.Writer
}

func NewCommand(name string, fallback io.Writer) *Command {
	return &Command{Name: name, Fallback: fallback}
}

// Available reports whether a desktop notifier binary can be found.
func (c *Command) Available() bool {
	_, err := exec.LookPath(c.binary())
	return c.binary() != "" && err == nil
}

func (c *Command) binary() string {
	if c.Name != "" {
		return c.Name
	}
	if runtime.GOOS == "darwin" {
		return "osascript"
	}
	return ""
}

func (c *Command) Notify(ctx context.Context, title, body string) error {
	bin := c.binary()
	if bin == "" || !c.Available() {
		return c.bell(title, body)
	}
	var cmd *exec.Cmd
	if bin == "osascript" {
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.CommandContext(ctx, bin, "-e", script)
	} else {
		cmd = exec.CommandContext(ctx, bin, title, body)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run notifier %s: %w (%s)", bin, err, out)
	}
	return nil
}

func (c *Command) bell(title, body string) error {
	if c.Fallback == nil {
		return fmt.Errorf("no notifier available")
	}
	_, err := fmt.Fprintf(c.Fallback, "\a%s: %s\n", title, body)
	return err
}
