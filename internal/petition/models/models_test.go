package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParametersCloneIsIndependent(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G'}
	p := Parameters{"Petition Title": "Save the park", "Signature": img}

	c := p.Clone()
	c["Petition Title"] = "changed"
	c["Signature"].([]byte)[0] = 0

	assert.Equal(t, "Save the park", p["Petition Title"])
	assert.Equal(t, byte(0x89), p["Signature"].([]byte)[0])
}

func TestNormalizedRawRoundTrip(t *testing.T) {
	n := Normalized{"Filing Date": "1700000000000", "Allow Public Display": "true"}

	raw := n.Raw()

	assert.Equal(t, "1700000000000", raw["Filing Date"])
	assert.Equal(t, "true", raw["Allow Public Display"])
}

func TestSessionHelpers(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.HasToken())
	assert.False(t, nilSession.CreatorIsEmail())

	degraded := &Session{CreatorID: "a@example.com", Email: "a@example.com"}
	assert.True(t, degraded.CreatorIsEmail())
	assert.False(t, degraded.HasToken())

	full := &Session{CreatorID: "u1", Email: "a@example.com", AuthToken: "tok"}
	assert.False(t, full.CreatorIsEmail())
	assert.True(t, full.HasToken())
}

func TestVerificationMismatched(t *testing.T) {
	var v *Verification
	assert.False(t, v.Mismatched())
	assert.False(t, (&Verification{}).Mismatched())
	assert.True(t, (&Verification{Mismatch: &Mismatch{Declared: "0xa", Recovered: "0xb"}}).Mismatched())
}
