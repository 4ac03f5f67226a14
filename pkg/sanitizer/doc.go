// Package sanitizer normalizes visitor-supplied contact details before they are
// validated and sent to the booking backend.
//
// All functions are idempotent. Invalid input never produces an error here:
// normalization leaves what it cannot understand for the validator to reject.
//
//   - Names: trim, collapse internal whitespace
//   - Emails: trim, lowercase the domain part
//   - Phones: E.164 when the number parses for the given region, otherwise the trimmed input
package sanitizer
