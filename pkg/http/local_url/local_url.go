package local_url

import (
	"strings"
)

func hasControlCharacter(s string) bool {
	for _, c := range s {
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}

// IsLocal reports whether u refers to the application itself: an absolute path that is not
// protocol-relative, or an application-relative path beginning with "~/".
func IsLocal(u string) bool {
	if u == "" {
		return false
	}

	switch {
	case u[0] == '/':
		if len(u) == 1 {
			return true
		}
		if u[1] == '/' || u[1] == '\\' {
			return false
		}
		return !hasControlCharacter(u[1:])
	case strings.HasPrefix(u, "~/"):
		if len(u) == 2 {
			return true
		}
		if u[2] == '/' || u[2] == '\\' {
			return false
		}
		return !hasControlCharacter(u[2:])
	default:
		return false
	}
}

// Expand replaces a leading "~/" with pathBase followed by "/". Other values are returned unchanged.
func Expand(u string, pathBase string) string {
	if !strings.HasPrefix(u, "~/") {
		return u
	}
	return strings.TrimSuffix(pathBase, "/") + u[1:]
}
