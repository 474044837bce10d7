package submission

import (
	"encoding/json"
	"net/http"

	"petitionsigner/internal/openlaw"
)

// Tier names an upload strategy.
type Tier string

const (
	TierDirect           Tier = "direct"
	TierRedirectLocation Tier = "redirect_location"
	TierFollowedRedirect Tier = "followed_redirect"
)

// idKeys are the body fields an upload answer may carry the contract id under.
var idKeys = []string{"id", "contractId"}

// Outcome is one observed upload answer. Each variant knows how to pull a
// contract identifier out of its own shape.
type Outcome interface {
	Tier() Tier
	HTTPStatus() int
	ContractID() (string, bool)
}

// DirectBody is a plain answer whose body names the contract.
type DirectBody struct {
	Status int
	Body   []byte
}

func (DirectBody) Tier() Tier        { return TierDirect }
func (o DirectBody) HTTPStatus() int { return o.Status }

// ContractID accepts a 2xx body holding a string or an object with an id field.
func (o DirectBody) ContractID() (string, bool) {
	if o.Status < 200 || o.Status >= 300 {
		return "", false
	}
	return openlaw.ParseIdentifier(o.Body, idKeys...)
}

// RedirectLocation is a 3xx answer captured before any redirect was followed.
type RedirectLocation struct {
	Status   int
	Location string
}

func (RedirectLocation) Tier() Tier        { return TierRedirectLocation }
func (o RedirectLocation) HTTPStatus() int { return o.Status }

// ContractID reads the segment after the contract marker in the Location path.
func (o RedirectLocation) ContractID() (string, bool) {
	if o.Status < 300 || o.Status >= 400 {
		return "", false
	}
	return openlaw.IdentifierFromPath(o.Location)
}

// FollowedRedirectURL is the answer after redirects were followed to the end.
type FollowedRedirectURL struct {
	Status int
	URL    string
	Body   []byte
}

func (FollowedRedirectURL) Tier() Tier        { return TierFollowedRedirect }
func (o FollowedRedirectURL) HTTPStatus() int { return o.Status }

// ContractID prefers the final URL path and falls back to a JSON body field.
// An empty URL means no redirect was followed, so only the body is consulted.
func (o FollowedRedirectURL) ContractID() (string, bool) {
	if o.Status >= http.StatusBadRequest {
		return "", false
	}
	if o.URL != "" {
		if id, ok := openlaw.IdentifierFromPath(o.URL); ok {
			return id, true
		}
	}
	if !json.Valid(o.Body) {
		return "", false
	}
	return openlaw.ParseIdentifier(o.Body, idKeys...)
}

// strategy is one upload attempt: how redirects are handled and how the raw
// answer is captured as an Outcome.
type strategy struct {
	tier    Tier
	policy  openlaw.RedirectPolicy
	capture func(resp *openlaw.RawResponse) Outcome
}

// strategies run strictly in this order; each one is a separate POST.
var strategies = []strategy{
	{
		tier:   TierDirect,
		policy: openlaw.RedirectFollow,
		capture: func(resp *openlaw.RawResponse) Outcome {
			return DirectBody{Status: resp.Status, Body: resp.Body}
		},
	},
	{
		tier:   TierRedirectLocation,
		policy: openlaw.RedirectManual,
		capture: func(resp *openlaw.RawResponse) Outcome {
			return RedirectLocation{Status: resp.Status, Location: resp.Header.Get("Location")}
		},
	},
	{
		tier:   TierFollowedRedirect,
		policy: openlaw.RedirectFollow,
		capture: func(resp *openlaw.RawResponse) Outcome {
			var final string
			if resp.FinalURL != nil {
				final = resp.FinalURL.String()
			}
			return FollowedRedirectURL{Status: resp.Status, URL: final, Body: resp.Body}
		},
	},
}
