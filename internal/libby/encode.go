package libby

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf16"
)

// encodeTagName escapes each UTF-16 code unit of the tag name as %uXXXX
// and base64-encodes the result. Tag URLs carry names in this form when
// enc=1 is set.
func encodeTagName(name string) string {
	var b strings.Builder
	for _, unit := range utf16.Encode([]rune(name)) {
		fmt.Fprintf(&b, "%%u%02X", unit)
	}
	return base64.StdEncoding.EncodeToString([]byte(b.String()))
}
