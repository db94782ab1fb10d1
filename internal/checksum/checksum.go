// Package checksum builds the OC-Checksum values attached to uploads.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
)

const (
	Header = "OC-Checksum"
	MD5    = "MD5"
)

// FromReader returns "MD5:<hex>" for everything read from src.
func FromReader(src io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, src); err != nil {
		return "", errors.Wrap(err, "checksum")
	}
	return MD5 + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

func FromBytes(data []byte) string {
	sum := md5.Sum(data)
	return MD5 + ":" + hex.EncodeToString(sum[:])
}

func FromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return FromReader(f)
}

// Match compares an OC-Checksum header against data. Headers naming an
// algorithm other than MD5 cannot be checked and match.
func Match(header string, data []byte) bool {
	algo, _, ok := strings.Cut(header, ":")
	if !ok || !strings.EqualFold(algo, MD5) {
		return true
	}
	return strings.EqualFold(header, FromBytes(data))
}
