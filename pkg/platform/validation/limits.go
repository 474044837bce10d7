// Package validation holds size limits for petition API requests.
package validation

import (
	"fmt"
	"strings"

	dErrors "petitionsigner/pkg/domain-errors"
)

// MaxBodySize bounds request bodies. Drawn signature images arrive inline, so
// this is larger than a plain JSON API would need.
const MaxBodySize = 4 << 20

const (
	MaxParameters     = 64
	MaxFieldNameLen   = 128
	MaxFieldValueLen  = 64 * 1024
	MaxImageValueLen  = 3 << 20 // inline data:image/ URLs for drawn signatures
	MaxEmailLength    = 255
	MaxTitleLength    = 200
	MaxTemplateLength = 256 * 1024
	MaxRootLength     = 2048
	MaxAddressLength  = 64  // "0x" + 40 hex digits, with room for odd input
	MaxSignatureLen   = 200 // "0x" + 130 hex digits
)

// CheckCount fails when count exceeds max.
func CheckCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength fails when value is longer than max bytes.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckParameters applies the per-field limits to a raw parameter set. Only
// string values are length-checked; other kinds are bounded by the body size.
// Image data URLs get the larger image limit.
func CheckParameters(params map[string]any) error {
	if err := CheckCount("parameters", len(params), MaxParameters); err != nil {
		return err
	}
	for name, value := range params {
		if err := CheckStringLength("parameter name", name, MaxFieldNameLen); err != nil {
			return err
		}
		if s, ok := value.(string); ok {
			limit := MaxFieldValueLen
			if strings.HasPrefix(s, "data:image/") {
				limit = MaxImageValueLen
			}
			if err := CheckStringLength(fmt.Sprintf("parameter %q", name), s, limit); err != nil {
				return err
			}
		}
	}
	return nil
}
