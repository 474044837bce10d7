package document

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPetitionSchemaCoversTemplateFields(t *testing.T) {
	for name := range PetitionSchema {
		assert.Truef(t, strings.Contains(Text, "[["+name+":"), "template should declare %q", name)
	}
}

func TestFieldsOf(t *testing.T) {
	assert.Equal(t, []string{FieldFilingDate}, PetitionSchema.FieldsOf(KindDate))
	assert.Equal(t, []string{FieldWallet}, PetitionSchema.FieldsOf(KindAddress))

	large := PetitionSchema.FieldsOf(KindLargeText)
	sort.Strings(large)
	assert.Equal(t, []string{FieldBody, FieldAction}, large)

	assert.Empty(t, PetitionSchema.FieldsOf(KindImage))
}
