// Package shell runs external commands in a PTY and streams their output
// line by line to the logger.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes build-tool and compiler commands.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes argv in dir and blocks until the command exits. Output lines
// are written to both the logger and out (usually a telemetry span). The
// returned exit code is -1 when the process could not be started or did not
// exit normally.
func (r *Runner) Run(ctx context.Context, dir string, argv []string, env []string, out io.Writer) (int, error) {
	if len(argv) == 0 {
		return -1, zerr.New("empty command")
	}

	stdoutLog := &logWriter{logger: r.logger}
	sink := io.MultiWriter(stdoutLog, out)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // command comes from project configuration
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return -1, zerr.Wrap(err, "failed to start command")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer func() { _ = stdoutLog.Close() }()
		// The PTY merges stdout and stderr into one stream.
		_, _ = io.Copy(sink, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, zerr.Wrap(err, "command failed")
	}
	return 0, nil
}

// logWriter forwards complete output lines to the logger, buffering partial
// lines across writes.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r. Remove it.
	w.logger.Info(strings.TrimSuffix(string(line), "\r"))
}
