package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name identifies one derived asset.
type Name struct {
	Base string
	Hash string
	Ext  string
}

// String formats the name as {base}-{hash}.{ext}.
func (n Name) String() string {
	return fmt.Sprintf("%s-%s.%s", n.Base, n.Hash, n.Ext)
}

// BaseName strips directory and extension from a source path. The result is
// NFC normalized so the same file name typed on different systems maps to one
// URL.
func BaseName(source string) string {
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return norm.NFC.String(name)
}

// DerivedName builds the derived name for a source file that hashed to hash.
func DerivedName(source, hash, ext string) Name {
	return Name{
		Base: BaseName(source),
		Hash: hash,
		Ext:  strings.TrimPrefix(ext, "."),
	}
}

// ParseDerivedName splits a file name of the form {base}-{hash}.{ext}. The
// base may itself contain dashes; the hash is always the last dash-separated
// token before the extension.
func ParseDerivedName(file string) (Name, bool) {
	file = filepath.Base(file)
	ext := filepath.Ext(file)
	if ext == "" || len(ext) == 1 {
		return Name{}, false
	}
	stem := strings.TrimSuffix(file, ext)
	idx := strings.LastIndexByte(stem, '-')
	if idx <= 0 {
		return Name{}, false
	}
	hash := stem[idx+1:]
	if !isHash(hash) {
		return Name{}, false
	}
	return Name{Base: stem[:idx], Hash: hash, Ext: ext[1:]}, true
}

func isHash(value string) bool {
	if len(value) != HashLength {
		return false
	}
	for _, r := range value {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
