package archive2

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ToolError describes a failed tool invocation: which operation, against
// which archive, with what exit code and captured output.
type ToolError struct {
	Op       Op
	Archive  string
	ExitCode int // -1 when the process produced no exit code
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("archive2 %s %s: %s", e.Op, e.Archive, e.Diagnose())
}

func (e *ToolError) Unwrap() error { return e.Err }

// Diagnose inspects the captured output and underlying error for known
// failure signatures and returns a one-line actionable cause. Falls back
// to a generic message carrying the exit code.
func (e *ToolError) Diagnose() string {
	out := strings.ToLower(e.Stdout + "\n" + e.Stderr)

	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		return "tool did not finish in time; the archive may be very large or the tool is hung"
	case errors.Is(e.Err, exec.ErrNotFound), errors.Is(e.Err, os.ErrNotExist):
		return "tool executable not found; check the Archive2 path"
	case errors.Is(e.Err, os.ErrPermission),
		strings.Contains(out, "access") && strings.Contains(out, "denied"):
		return "access denied; try running elevated or fix file permissions"
	case strings.Contains(out, "disk") && (strings.Contains(out, "full") || strings.Contains(out, "space")):
		return "not enough disk space; free space and retry"
	case strings.Contains(out, "not found"):
		return "a referenced file was not found; the source may have been moved or deleted"
	case strings.Contains(out, "corrupt") || strings.Contains(out, "invalid"):
		return "the archive appears corrupt or invalid"
	case strings.Contains(out, "in use") || strings.Contains(out, "locked"):
		return "a file is in use or locked; close the game and other tools and retry"
	case e.ExitCode >= 0:
		return fmt.Sprintf("unexpected error (code %d)", e.ExitCode)
	default:
		return fmt.Sprintf("unexpected error: %v", e.Err)
	}
}
