package model

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Target is one identifier submitted to a batch. For manual submissions the
// identifier is the profile handle; for post reactions it is the provider URN.
type Target struct {
	Identifier string `json:"urn"`
	Name       string `json:"name,omitempty"`
	ProfileURL string `json:"profile_url"`
	// Invalid carries the skip reason for a manual URL that could not yield a handle.
	Invalid string `json:"-"`
}

const minHandleLen = 3

var reservedHandles = map[string]bool{
	"in":               true,
	"company":          true,
	"school":           true,
	"www.linkedin.com": true,
	"linkedin.com":     true,
}

// Reasons recorded for manual URLs that cannot be turned into a handle.
const (
	ReasonNoProfileID       = "Invalid URL format (no profile ID)"
	ReasonReservedProfileID = "Invalid URL (reserved word as profile ID)"
	ReasonShortProfileID    = "Invalid URL (profile ID too short)"
)

// LooksLikeProfileURL reports whether a manual entry is acceptable for submission.
func LooksLikeProfileURL(raw string) bool {
	s := strings.TrimSpace(raw)
	return strings.Contains(strings.ToLower(s), "linkedin.com/in/") || strings.HasPrefix(s, "/")
}

// NormalizeProfileURL strips the query string and trailing slash and forces https.
func NormalizeProfileURL(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	switch {
	case strings.HasPrefix(s, "http://"):
		s = "https://" + strings.TrimPrefix(s, "http://")
	case strings.HasPrefix(s, "https://"):
	case strings.HasPrefix(s, "/"):
		s = "https://www.linkedin.com" + s
	default:
		s = "https://" + s
	}
	return s
}

// ParseProfileHandle extracts the stable handle from a profile URL. The second
// return value is a skip reason when no usable handle exists.
func ParseProfileHandle(raw string) (string, string) {
	u := NormalizeProfileURL(raw)
	path := u
	if parsed, err := url.Parse(u); err == nil {
		path = parsed.Path
	}
	path = strings.TrimRight(path, "/")

	idx := strings.LastIndex(strings.ToLower(path), "/in/")
	if idx < 0 {
		return "", ReasonNoProfileID
	}
	handle := path[idx+len("/in/"):]
	if i := strings.Index(handle, "/"); i >= 0 {
		handle = handle[:i]
	}
	if unescaped, err := url.PathUnescape(handle); err == nil {
		handle = unescaped
	}
	handle = CanonicalIdentifier(handle)
	switch {
	case handle == "":
		return "", ReasonNoProfileID
	case reservedHandles[handle]:
		return "", ReasonReservedProfileID
	case len([]rune(handle)) < minHandleLen:
		return "", ReasonShortProfileID
	}
	return handle, ""
}

// CanonicalIdentifier lower-cases and NFC-normalises a handle so differently
// cased submissions of the same profile dedup against each other.
func CanonicalIdentifier(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// TargetFromURL builds a Target for a manually submitted profile URL.
func TargetFromURL(raw string) Target {
	u := NormalizeProfileURL(raw)
	handle, reason := ParseProfileHandle(raw)
	return Target{Identifier: handle, ProfileURL: u, Invalid: reason}
}

// ParsePostID reduces a post URL or URN to its numeric activity id. Inputs
// without an all-digit segment are returned trimmed and unchanged.
func ParsePostID(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == ':' || r == '-' || r == '_'
	})
	for i := len(segments) - 1; i >= 0; i-- {
		if isDigits(segments[i]) {
			return segments[i]
		}
	}
	return strings.TrimSpace(raw)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
