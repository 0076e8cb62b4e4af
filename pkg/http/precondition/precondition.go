package precondition

import (
	"net/http"
	"strings"
	"time"
)

type Outcome int

const (
	Proceed Outcome = iota
	NotModified
	PreconditionFailed
)

func (outcome Outcome) StatusCode() int {
	switch outcome {
	case NotModified:
		return http.StatusNotModified
	case PreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return 0
	}
}

// Validators are the selected representation's validators.
type Validators struct {
	ETag         string
	LastModified time.Time
}

type EntityTag struct {
	Opaque string
	Weak   bool
}

func (tag *EntityTag) String() string {
	if tag.Weak {
		return `W/"` + tag.Opaque + `"`
	}
	return `"` + tag.Opaque + `"`
}

func StrongMatch(a *EntityTag, b *EntityTag) bool {
	return a != nil && b != nil && !a.Weak && !b.Weak && a.Opaque == b.Opaque
}

func WeakMatch(a *EntityTag, b *EntityTag) bool {
	return a != nil && b != nil && a.Opaque == b.Opaque
}

// ParseEntityTag parses a single entity tag, returning nil when s is not one.
func ParseEntityTag(s string) *EntityTag {
	s = strings.TrimSpace(s)

	var weak bool
	if strings.HasPrefix(s, "W/") {
		weak = true
		s = s[2:]
	}

	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return nil
	}

	opaque := s[1 : len(s)-1]
	if strings.ContainsRune(opaque, '"') {
		return nil
	}

	return &EntityTag{Opaque: opaque, Weak: weak}
}

// ParseEntityTagList parses an If-Match or If-None-Match field value. Elements that are not
// entity tags are skipped.
func ParseEntityTagList(value string) (tags []*EntityTag, wildcard bool) {
	for _, element := range strings.Split(value, ",") {
		element = strings.TrimSpace(element)
		if element == "" {
			continue
		}
		if element == "*" {
			wildcard = true
			continue
		}
		if tag := ParseEntityTag(element); tag != nil {
			tags = append(tags, tag)
		}
	}

	return tags, wildcard
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isSafe(method string) bool {
	return method == "" || method == http.MethodGet || method == http.MethodHead
}

// Evaluate applies If-Match, If-Unmodified-Since, If-None-Match and If-Modified-Since to the
// validators in that order. Malformed dates are ignored.
func Evaluate(request *http.Request, validators Validators) Outcome {
	if request == nil {
		return Proceed
	}

	header := request.Header
	etag := ParseEntityTag(validators.ETag)
	lastModified := validators.LastModified.Truncate(time.Second)

	if ifMatch := header.Get("If-Match"); ifMatch != "" {
		tags, wildcard := ParseEntityTagList(ifMatch)
		if !wildcard {
			matched := false
			for _, tag := range tags {
				if StrongMatch(tag, etag) {
					matched = true
					break
				}
			}
			if !matched {
				return PreconditionFailed
			}
		}
	} else if date, ok := parseDate(header.Get("If-Unmodified-Since")); ok && !lastModified.IsZero() {
		if lastModified.After(date) {
			return PreconditionFailed
		}
	}

	if ifNoneMatch := header.Get("If-None-Match"); ifNoneMatch != "" {
		tags, wildcard := ParseEntityTagList(ifNoneMatch)
		matched := wildcard
		for _, tag := range tags {
			if WeakMatch(tag, etag) {
				matched = true
				break
			}
		}
		if matched {
			if isSafe(request.Method) {
				return NotModified
			}
			return PreconditionFailed
		}
	} else if isSafe(request.Method) {
		if date, ok := parseDate(header.Get("If-Modified-Since")); ok && !lastModified.IsZero() {
			if !lastModified.After(date) {
				return NotModified
			}
		}
	}

	return Proceed
}

// IfRangeSatisfied reports whether a Range header may be honored given the If-Range header.
// An entity tag must match strongly; a date must not precede the last modification.
func IfRangeSatisfied(request *http.Request, validators Validators) bool {
	if request == nil {
		return true
	}

	ifRange := strings.TrimSpace(request.Header.Get("If-Range"))
	if ifRange == "" {
		return true
	}

	if strings.HasPrefix(ifRange, `"`) || strings.HasPrefix(ifRange, "W/") {
		return StrongMatch(ParseEntityTag(ifRange), ParseEntityTag(validators.ETag))
	}

	date, ok := parseDate(ifRange)
	if !ok || validators.LastModified.IsZero() {
		return false
	}

	return !validators.LastModified.Truncate(time.Second).After(date)
}
