package render

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("bindgen-fingerprint-key-00000000")

// Fingerprint returns a stable 64-bit hash of rendered content, formatted
// as 16 hex digits.
func Fingerprint(data []byte) (string, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}
	if _, err = hash.Write(data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", hash.Sum64()), nil
}
