package scanner

import (
	"bytes"
	"os"
)

// BOM is the UTF-8 byte-order mark every table and script file is
// expected to start with.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTextFile reads path and reports whether it began with the BOM. The
// returned text never includes the marker.
func ReadTextFile(path string) (string, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	if !bytes.HasPrefix(raw, BOM) {
		return string(raw), false, nil
	}
	return string(raw[len(BOM):]), true, nil
}

// WriteTextFile writes text to path with the BOM prepended, regardless of
// how the file started out.
func WriteTextFile(path string, text string) error {
	buf := make([]byte, 0, len(BOM)+len(text))
	buf = append(buf, BOM...)
	buf = append(buf, text...)
	return os.WriteFile(path, buf, 0644)
}
