//go:build !(linux || darwin)

package validate

import "errors"

func writable(path string) bool {
	return true
}

func freeSpace(path string) (uint64, error) {
	return 0, errors.New("free space check not supported on this platform")
}
