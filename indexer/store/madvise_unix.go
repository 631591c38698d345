//go:build linux || darwin

package store

import "golang.org/x/sys/unix"

func madviseRandom(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Madvise(b, unix.MADV_RANDOM)
}
