package identity

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"petitionsigner/internal/openlaw"
)

// tokenCandidate is one place a login response may carry the session token.
type tokenCandidate struct {
	name   string
	lookup func(resp *openlaw.RawResponse) (string, bool)
}

// tokenCandidates are tried in order; the first non-empty value wins.
var tokenCandidates = []tokenCandidate{
	{name: "header:" + openlaw.TokenHeader, lookup: headerValue(openlaw.TokenHeader)},
	{name: "header:openlaw_jwt", lookup: headerValue("openlaw_jwt")},
	{name: "body:token", lookup: bodyField("token")},
}

// claimNames are searched in order for the remote user identifier.
var claimNames = []string{"id", "userId", "sub", "uid"}

// ExtractToken finds the session token in a login response. A missing token
// is reported through ok, never as an error.
func ExtractToken(resp *openlaw.RawResponse) (token string, source string, ok bool) {
	if resp == nil {
		return "", "", false
	}
	for _, c := range tokenCandidates {
		if v, found := c.lookup(resp); found {
			return v, c.name, true
		}
	}
	return "", "", false
}

func headerValue(key string) func(*openlaw.RawResponse) (string, bool) {
	return func(resp *openlaw.RawResponse) (string, bool) {
		if resp.Header == nil {
			return "", false
		}
		// Headers set outside net/http may keep their literal casing.
		if vals := resp.Header[key]; len(vals) > 0 && strings.TrimSpace(vals[0]) != "" {
			return strings.TrimSpace(vals[0]), true
		}
		if v := strings.TrimSpace(resp.Header.Get(key)); v != "" {
			return v, true
		}
		return "", false
	}
}

func bodyField(key string) func(*openlaw.RawResponse) (string, bool) {
	return func(resp *openlaw.RawResponse) (string, bool) {
		if len(resp.Body) == 0 {
			return "", false
		}
		var body map[string]any
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return "", false
		}
		v, ok := body[key].(string)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
}

// CreatorIDFromToken decodes the token's claims without verifying the signature
// and returns the first usable identifier claim.
func CreatorIDFromToken(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	for _, name := range claimNames {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64), true
			}
		}
	}
	return "", false
}
