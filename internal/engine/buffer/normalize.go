package buffer

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts CRLF and lone CR line endings to LF and puts the text
// in Unicode Normalization Form C.
func Normalize(s string) string {
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
