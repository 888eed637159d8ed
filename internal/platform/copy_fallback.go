//go:build !linux

package platform

import "os"

// copyFile falls back to read/write on platforms without a kernel-assisted path.
func copyFile(src string, dstFd *os.File, size int64) (CopyResult, error) {
	return copyReadWrite(src, dstFd, size)
}
