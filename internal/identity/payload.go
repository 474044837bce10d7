package identity

import (
	"encoding/json"
)

// IdentityProvider is the provider id the document service expects in identity fields.
const IdentityProvider = "openlaw"

// Payload is the identity-typed parameter value.
// Field order is fixed so equal inputs always serialize to equal bytes.
type Payload struct {
	ID          *UserRef     `json:"id,omitempty"`
	Email       string       `json:"email"`
	Identifiers []Identifier `json:"identifiers"`
}

type UserRef struct {
	ID string `json:"id"`
}

type Identifier struct {
	IdentityProviderID string `json:"identityProviderId"`
	Identifier         string `json:"identifier"`
}

// NewPayload binds an email, and a creator id when one other than the email is known.
func NewPayload(creatorID, email string) Payload {
	p := Payload{
		Email:       email,
		Identifiers: []Identifier{{IdentityProviderID: IdentityProvider, Identifier: email}},
	}
	if creatorID != "" && creatorID != email {
		p.ID = &UserRef{ID: creatorID}
	}
	return p
}

// Identity returns the JSON string form of NewPayload(creatorID, email).
func Identity(creatorID, email string) string {
	raw, err := json.Marshal(NewPayload(creatorID, email))
	if err != nil {
		// Only strings are marshaled; this cannot fail.
		panic(err)
	}
	return string(raw)
}
