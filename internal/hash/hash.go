// Package hash provides file content digests for duplicate detection and
// copy verification.
package hash

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const chunkSize = 64 * 1024

// File computes the 64-bit xxHash digest of the file at path, reading in
// fixed-size chunks.
func File(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return 0, fmt.Errorf("failed to hash file: %w", err)
	}

	return h.Sum64(), nil
}

// FileHex returns the digest of path as a hex string.
func FileHex(path string) (string, error) {
	sum, err := File(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

// Verify checks that dst is a byte-exact replica of src by comparing sizes
// first and digests second.
func Verify(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("source file not found: %w", err)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("destination file not found: %w", err)
	}

	if srcInfo.Size() != dstInfo.Size() {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", srcInfo.Size(), dstInfo.Size())
	}

	srcSum, err := File(src)
	if err != nil {
		return fmt.Errorf("failed to hash source: %w", err)
	}
	dstSum, err := File(dst)
	if err != nil {
		return fmt.Errorf("failed to hash destination: %w", err)
	}

	if srcSum != dstSum {
		return fmt.Errorf("hash mismatch: source=%016x destination=%016x", srcSum, dstSum)
	}

	return nil
}
