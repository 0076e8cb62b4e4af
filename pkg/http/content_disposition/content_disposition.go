package content_disposition

import (
	"fmt"
	"strings"
)

func isTokenCharacter(c byte) bool {
	if c <= 0x20 || c >= 0x7f {
		return false
	}
	return !strings.ContainsRune(`()<>@,;:\"/[]?={}`, rune(c))
}

func isAttributeCharacter(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

func formatFilename(name string) string {
	var builder strings.Builder
	for _, r := range name {
		if r >= 0x80 || r < 0x20 || r == 0x7f {
			builder.WriteByte('_')
			continue
		}
		builder.WriteRune(r)
	}
	sanitized := builder.String()

	token := sanitized != ""
	for i := 0; i < len(sanitized); i++ {
		if !isTokenCharacter(sanitized[i]) {
			token = false
			break
		}
	}
	if token {
		return sanitized
	}

	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + replacer.Replace(sanitized) + `"`
}

func encodeExtendedValue(s string) string {
	var builder strings.Builder
	builder.WriteString("UTF-8''")
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttributeCharacter(c) {
			builder.WriteByte(c)
		} else {
			fmt.Fprintf(&builder, "%%%02X", c)
		}
	}
	return builder.String()
}

// Attachment formats an attachment disposition carrying both the filename parameter and its
// UTF-8 extended form.
func Attachment(filename string) string {
	value := "attachment"
	if filename == "" {
		return value
	}

	value += "; filename=" + formatFilename(filename)
	value += "; filename*=" + encodeExtendedValue(filename)

	return value
}
