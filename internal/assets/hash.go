package assets

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HashLength is the number of hex digits kept from the content digest.
const HashLength = 8

// HashFile returns the short content hash of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()
	return HashReader(f)
}

// HashReader returns the short content hash of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := md5.New() //nolint:gosec
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil))[:HashLength], nil
}
