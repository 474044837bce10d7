package openlaw

import (
	"net/url"
	"strings"
)

// FallbackWebBase is used when no web base can be derived from the API root.
const FallbackWebBase = "https://lib.openlaw.io/web/default"

// WebBase derives the human-facing web root from an API root:
// https://host/api/v1/<workspace> becomes https://host/web/<workspace>.
// Any other absolute URL maps to <origin>/web/default.
func WebBase(root string) string {
	u, err := url.Parse(strings.TrimSpace(root))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return FallbackWebBase
	}
	origin := u.Scheme + "://" + u.Host

	segments := strings.Split(strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), "/"), "/")
	if len(segments) == 3 && strings.EqualFold(segments[0], "api") && strings.EqualFold(segments[1], "v1") && segments[2] != "" {
		return origin + "/web/" + segments[2]
	}
	return origin + "/web/default"
}

// ContractURL is the page where a contract can be reviewed and signed.
func ContractURL(root, contractID string) string {
	return WebBase(root) + "/" + ContractMarker + "/" + url.PathEscape(contractID)
}
