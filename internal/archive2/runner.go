// Package archive2 invokes the external Archive2 tool to extract, create,
// and list BA2 archives. The tool is a black box: this package builds its
// command lines, bounds each invocation with a timeout, captures output,
// and turns failures into structured ToolErrors.
package archive2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"
)

// Op names the tool operation that failed.
type Op string

const (
	OpExtract Op = "extract"
	OpCreate  Op = "create"
	OpList    Op = "list"
)

// Format selects the archive container layout.
type Format string

const (
	FormatGeneral  Format = "General"
	FormatTextures Format = "DX10"
)

// Compression selects the tool's compression mode. Audio content is packed
// with CompressionNone: it is already compressed at the codec level, and
// recompressing it degrades load performance.
type Compression string

const (
	CompressionDefault Compression = "Default"
	CompressionNone    Compression = "None"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 10 * time.Minute

// Runner invokes the archive tool executable.
type Runner struct {
	// Path is the tool executable.
	Path string
	// Timeout bounds each invocation; DefaultTimeout when zero.
	Timeout time.Duration
}

// NewRunner creates a Runner for the tool at path with the default timeout.
func NewRunner(path string) *Runner {
	return &Runner{Path: path, Timeout: DefaultTimeout}
}

// Extract unpacks archive into destDir.
func (r *Runner) Extract(ctx context.Context, archive, destDir string) error {
	return r.run(ctx, OpExtract, archive, archive, "-e="+destDir)
}

// Create packs srcDir into the archive at dest.
func (r *Runner) Create(ctx context.Context, srcDir, dest string, format Format, comp Compression) error {
	return r.run(ctx, OpCreate, dest,
		srcDir,
		"-c="+dest,
		"-f="+string(format),
		"-compression="+string(comp),
		"-r="+srcDir,
	)
}

// List enumerates archive contents. Used as a liveness check; the output
// itself is discarded.
func (r *Runner) List(ctx context.Context, archive string) error {
	return r.run(ctx, OpList, archive, archive, "-l")
}

func (r *Runner) run(ctx context.Context, op Op, target string, args ...string) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	terr := &ToolError{
		Op:       op,
		Archive:  filepath.Base(target),
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
	if ctx.Err() == context.DeadlineExceeded {
		terr.Err = fmt.Errorf("timed out after %s: %w", timeout, context.DeadlineExceeded)
		return terr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		terr.ExitCode = exitErr.ExitCode()
	}
	return terr
}
