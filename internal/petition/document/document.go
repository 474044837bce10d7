// Package document holds the petition template and the field schema the
// normalizer uses to coerce values into the remote engine's encodings.
package document

import "slices"

// Title is the template title used for lookup and creation on the remote service.
const Title = "Public Petition"

// Field names declared by the petition template.
const (
	FieldTitle       = "Petition Title"
	FieldName        = "Petitioner Name"
	FieldEmail       = "Petitioner Email"
	FieldWallet      = "Petitioner Wallet"
	FieldFilingDate  = "Filing Date"
	FieldRecipient   = "Recipient Name"
	FieldBody        = "Petition Body"
	FieldAction      = "Requested Action"
	FieldAllowPublic = "Allow Public Display"
)

// Kind is the value encoding a field needs on the wire.
type Kind string

const (
	KindText      Kind = "Text"
	KindLargeText Kind = "LargeText"
	KindDate      Kind = "Date"
	KindYesNo     Kind = "YesNo"
	KindIdentity  Kind = "Identity"
	KindEmail     Kind = "Email"
	KindAddress   Kind = "EthAddress"
	KindImage     Kind = "Image"
)

// Schema maps field names to their kind. Fields absent from the schema pass
// through normalization unchanged.
type Schema map[string]Kind

// FieldsOf returns the sorted names of every field of the given kind.
func (s Schema) FieldsOf(kind Kind) []string {
	var out []string
	for name, k := range s {
		if k == kind {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// PetitionSchema is the schema of the petition template.
var PetitionSchema = Schema{
	FieldTitle:       KindText,
	FieldName:        KindText,
	FieldEmail:       KindIdentity,
	FieldWallet:      KindAddress,
	FieldFilingDate:  KindDate,
	FieldRecipient:   KindText,
	FieldBody:        KindLargeText,
	FieldAction:      KindLargeText,
	FieldAllowPublic: KindYesNo,
}

// Text is the petition template markup. The document-compilation service owns
// its grammar; here it is only an opaque payload.
const Text = `
# **[[Petition Title: Text]]**

**Petitioner:** [[Petitioner Name: Text]]  
**Petitioner Email:** [[Petitioner Email: Identity | Signature]]  
**Petitioner Wallet:** [[Petitioner Wallet: EthAddress]]  
**Date:** [[Filing Date: Date]]

**Recipient / Authority:** [[Recipient Name: Text]]

---

## Statement
[[Petition Body: LargeText]]

## Requested Action
[[Requested Action: LargeText]]

## Public Display
The Petitioner agrees that this petition may be displayed publicly. [[Allow Public Display: YesNo]]

---

**Signature of Petitioner**  
Wallet: [[Petitioner Wallet]]  
Email Identity: [[Petitioner Email]]  
__________________________  
[[Petitioner Name]]
`
