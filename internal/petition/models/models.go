// Package models holds the domain types shared by the petition flow: the session
// identity, petition parameters, contract records and signature records.
package models

import "time"

// Session is the identity established by a successful login. It is owned by the
// caller and passed explicitly to every operation; nothing in the core keeps it
// in package state. CreatorID may equal Email when the remote login exposed no
// decodable user identifier.
type Session struct {
	ID        string
	CreatorID string
	Email     string
	AuthToken string // empty when the login response exposed no token
	Root      string // remote API root chosen at login
	CreatedAt time.Time
}

// HasToken reports whether a bearer token is known for the session.
func (s *Session) HasToken() bool {
	return s != nil && s.AuthToken != ""
}

// CreatorIsEmail reports the degraded mode where no user id could be recovered.
func (s *Session) CreatorIsEmail() bool {
	return s != nil && s.CreatorID == s.Email
}

// Parameters are raw petition field values keyed by field name. Values are
// strings, bools, numbers (epoch milliseconds for dates) or []byte raster images.
type Parameters map[string]any

// Clone returns a shallow copy; byte slices are copied so the snapshot is independent.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		if b, ok := v.([]byte); ok {
			v = append([]byte(nil), b...)
		}
		out[k] = v
	}
	return out
}

// Normalized holds parameters after normalization: string values only, which is
// the only type the remote engine accepts for transport.
type Normalized map[string]string

// Clone returns a copy of the normalized set.
func (n Normalized) Clone() Normalized {
	out := make(Normalized, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// Raw converts the normalized set back into raw parameters, e.g. to feed a
// resubmission through the normalizer again.
func (n Normalized) Raw() Parameters {
	out := make(Parameters, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// ContractStatus tracks a contract record through the mismatch-repair lifecycle.
type ContractStatus string

const (
	ContractCreated    ContractStatus = "created"
	ContractSuperseded ContractStatus = "superseded"
)

// ContractRecord is a successfully submitted contract. It is never mutated in
// place apart from being marked superseded; a repair creates a new record.
type ContractRecord struct {
	ContractID          string         `json:"contract_id"`
	TemplateID          string         `json:"template_id"`
	Title               string         `json:"title"`
	Creator             string         `json:"creator"`
	SubmittedParameters Normalized     `json:"submitted_parameters"`
	Status              ContractStatus `json:"status"`
	Supersedes          string         `json:"supersedes,omitempty"`
	SignURL             string         `json:"sign_url,omitempty"`
	ResolvedBy          string         `json:"resolved_by"`
	CreatedAt           time.Time      `json:"created_at"`
}

// SignatureRecord is the result of one wallet signing operation. RecoveredAddress
// is derived once from Message and SignatureHex.
type SignatureRecord struct {
	Message          string    `json:"message"`
	SignatureHex     string    `json:"signature"`
	Account          string    `json:"account"`
	RecoveredAddress string    `json:"recovered_address"`
	DeclaredAddress  string    `json:"declared_address,omitempty"`
	SignedAt         time.Time `json:"signed_at"`
}

// Mismatch records a disagreement between the declared wallet address and the
// address recovered from the signature. Both strings keep their original case.
type Mismatch struct {
	ContractID string `json:"contract_id"`
	Declared   string `json:"declared"`
	Recovered  string `json:"recovered"`
}

// Verification is the outcome of signing: the record and, when the addresses
// disagree, the mismatch to hand to reconciliation.
type Verification struct {
	Record   SignatureRecord `json:"record"`
	Mismatch *Mismatch       `json:"mismatch,omitempty"`
}

// Mismatched reports whether reconciliation is required.
func (v *Verification) Mismatched() bool {
	return v != nil && v.Mismatch != nil
}
