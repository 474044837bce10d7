package openlaw

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ContractMarker is the path segment that precedes a contract identifier in web URLs.
const ContractMarker = "contract"

var (
	bareIdentifier = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
	hasDigit       = regexp.MustCompile(`[0-9]`)
)

// looksLikeIdentifier rejects status words such as "OK" or "created" that a
// service may answer with in place of an identifier.
func looksLikeIdentifier(s string) bool {
	return bareIdentifier.MatchString(s) && hasDigit.MatchString(s)
}

// ParseIdentifier extracts an identifier from a response body. Accepted shapes are
// a JSON string, a JSON object carrying one of keys, or a bare identifier token.
// Whole-body strings must contain a digit; object fields are taken as given.
func ParseIdentifier(body []byte, keys ...string) (string, bool) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", false
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		if looksLikeIdentifier(trimmed) {
			return trimmed, true
		}
		return "", false
	}

	switch v := decoded.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, looksLikeIdentifier(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case map[string]any:
		for _, key := range keys {
			if id, ok := scalarString(v[key]); ok {
				return id, true
			}
		}
	}
	return "", false
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// IdentifierFromPath returns the segment following the contract marker in a URL
// or path, e.g. "C2" for https://host/web/ws/contract/C2.
func IdentifierFromPath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.EscapedPath()
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != ContractMarker || i+1 >= len(segments) {
			continue
		}
		next, err := url.PathUnescape(segments[i+1])
		if err != nil || next == "" {
			continue
		}
		return next, true
	}
	return "", false
}
