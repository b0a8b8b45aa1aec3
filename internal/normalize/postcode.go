package normalize

import (
	"regexp"
	"strings"
)

// UK postcode, e.g. NW5 1LE, SE1 2EZ, W1D 5NA, EC1M 4AY:
// 1-2 letters, 1-2 digits, optional letter, optional space, digit, 2 letters.
var postcodeRegex = regexp.MustCompile(`\b([A-Z]{1,2}[0-9]{1,2}[A-Z]?\s?[0-9][A-Z]{2})\b`)

// ExtractPostcode pulls a UK postcode out of a free-text address. When the
// address contains several candidates the last one wins, since the postcode
// ends a UK address. Returns "" when nothing matches.
func ExtractPostcode(address string) string {
	if address == "" {
		return ""
	}

	matches := postcodeRegex.FindAllString(strings.ToUpper(address), -1)
	if len(matches) == 0 {
		return ""
	}

	postcode := strings.TrimSpace(matches[len(matches)-1])

	// Normalize spacing between the outward and inward codes
	if !strings.Contains(postcode, " ") {
		postcode = postcode[:len(postcode)-3] + " " + postcode[len(postcode)-3:]
	}

	return postcode
}
