package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "US"

// NormalizePhone formats phone as E.164 when it is a valid number for region
// (or carries its own +country prefix). Anything else is returned trimmed.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if region == "" {
		region = DefaultRegion
	}

	parsedNumber, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(parsedNumber) {
		return phone
	}
	return phonenumbers.Format(parsedNumber, phonenumbers.E164)
}

// IsValidPhone reports whether phone parses to a valid number for region.
func IsValidPhone(phone, region string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}
	if region == "" {
		region = DefaultRegion
	}
	parsedNumber, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	return err == nil && phonenumbers.IsValidNumber(parsedNumber)
}
