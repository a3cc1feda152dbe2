// Package phone normalizes phone numbers before CRM lookups.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// NormalizeE164 formats a phone number to E.164 assuming a US number
// when no country code is present, so "5551234567" becomes
// "+15551234567". Input that cannot be parsed is returned with a bare
// "+1" prefix, matching what the CRM lookup expects.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return phonenumbers.Format(number, phonenumbers.E164)
	}

	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	return "+1" + trimmed
}
