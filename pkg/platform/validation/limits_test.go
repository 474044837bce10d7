package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "petitionsigner/pkg/domain-errors"
)

func TestCheckCount(t *testing.T) {
	assert.NoError(t, CheckCount("parameters", MaxParameters, MaxParameters))

	err := CheckCount("parameters", MaxParameters+1, MaxParameters)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Contains(t, err.Error(), "too many parameters")
}

func TestCheckStringLength(t *testing.T) {
	assert.NoError(t, CheckStringLength("title", strings.Repeat("a", MaxTitleLength), MaxTitleLength))

	err := CheckStringLength("title", strings.Repeat("a", MaxTitleLength+1), MaxTitleLength)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestCheckParameters(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantErr string
	}{
		{
			name:   "typical petition",
			params: map[string]any{"Petition Title": "Save the park", "Filing Date": 1705276800000.0, "Allow Public Display": true},
		},
		{
			name:    "field name too long",
			params:  map[string]any{strings.Repeat("f", MaxFieldNameLen+1): "x"},
			wantErr: "parameter name",
		},
		{
			name:    "string value too long",
			params:  map[string]any{"Petition Body": strings.Repeat("b", MaxFieldValueLen+1)},
			wantErr: `parameter "Petition Body"`,
		},
		{
			name:   "drawn signature image above the text limit",
			params: map[string]any{"Petitioner Signature": "data:image/png;base64," + strings.Repeat("A", 512*1024)},
		},
		{
			name:    "image beyond the image limit",
			params:  map[string]any{"Petitioner Signature": "data:image/png;base64," + strings.Repeat("A", MaxImageValueLen)},
			wantErr: `parameter "Petitioner Signature"`,
		},
		{
			name:    "text padded past the limit is not an image",
			params:  map[string]any{"Petition Body": "data:text/plain," + strings.Repeat("b", MaxFieldValueLen)},
			wantErr: `parameter "Petition Body"`,
		},
		{
			name:    "too many fields",
			params:  manyParams(MaxParameters + 1),
			wantErr: "too many parameters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckParameters(tt.params)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func manyParams(n int) map[string]any {
	out := make(map[string]any, n)
	for i := range n {
		out[fmt.Sprintf("field %d", i)] = "v"
	}
	return out
}
