package csv

import (
	"bytes"
	"unicode/utf8"
)

// utf8BOM is prepended by Excel and most Windows tools when saving as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sanitize strips a leading UTF-8 BOM and replaces invalid UTF-8 sequences
// with U+FFFD. Valid input is returned without copying.
func sanitize(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + 8)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}
	return buf.Bytes()
}
