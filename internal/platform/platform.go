// Package platform provides the fastest available file copy on each OS,
// falling back to plain read/write where kernel-assisted copies are not
// supported.
package platform

import (
	"fmt"
	"os"
)

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
	Sendfile                 // Linux sendfile(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyFile copies src to dst (truncating dst if it exists) using the most
// efficient method the platform offers. File mode is carried over from src;
// timestamps are left to the caller.
func CopyFile(src, dst string) (CopyResult, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return CopyResult{}, fmt.Errorf("stat %s: %w", src, err)
	}

	dstFd, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return CopyResult{}, fmt.Errorf("create %s: %w", dst, err)
	}

	result, err := copyFile(src, dstFd, srcInfo.Size())
	if cerr := dstFd.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close %s: %w", dst, cerr)
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// CopyPreserve copies src to dst and carries over src's modification time,
// the way a backup copy must so the restored file matches the original.
func CopyPreserve(src, dst string) (CopyResult, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return CopyResult{}, fmt.Errorf("stat %s: %w", src, err)
	}
	result, err := CopyFile(src, dst)
	if err != nil {
		return result, err
	}
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return result, fmt.Errorf("preserve times %s: %w", dst, err)
	}
	return result, nil
}

// CopyFresh copies src to dst leaving dst with a current modification
// time. Used when a stale timestamp would defeat downstream cache
// invalidation.
func CopyFresh(src, dst string) (CopyResult, error) {
	return CopyFile(src, dst)
}
