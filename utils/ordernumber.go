package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// GenerateOrderNumber builds the human-facing order code from the work type,
// the material and a running sequence, e.g. "COR-ZIR-0042".
func GenerateOrderNumber(workType, material string, sequence uint) string {
	return fmt.Sprintf("%s-%s-%04d", codePrefix(workType), codePrefix(material), sequence)
}

// codePrefix reduces a free-text label to a 3-letter uppercase code.
// Non-letters are dropped; short or empty labels pad with 'X'.
func codePrefix(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsLetter(r) && r < 128 {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() >= 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}
