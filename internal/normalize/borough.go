package normalize

import "strings"

// The 32 London boroughs plus the City of London, with common variants
var validLondonBoroughs = map[string]bool{
	"barking and dagenham":   true,
	"barnet":                 true,
	"bexley":                 true,
	"brent":                  true,
	"bromley":                true,
	"camden":                 true,
	"city of london":         true,
	"croydon":                true,
	"ealing":                 true,
	"enfield":                true,
	"greenwich":              true,
	"hackney":                true,
	"hammersmith and fulham": true,
	"hammersmith & fulham":   true,
	"haringey":               true,
	"harrow":                 true,
	"havering":               true,
	"hillingdon":             true,
	"hounslow":               true,
	"islington":              true,
	"kensington and chelsea": true,
	"kingston upon thames":   true,
	"lambeth":                true,
	"lewisham":               true,
	"merton":                 true,
	"newham":                 true,
	"redbridge":              true,
	"richmond upon thames":   true,
	"southwark":              true,
	"sutton":                 true,
	"tower hamlets":          true,
	"waltham forest":         true,
	"wandsworth":             true,
	"westminster":            true,
	"city of westminster":    true,
}

// IsValidLondonBorough reports whether a borough value names a real London
// borough, tolerating case differences and the "London Borough of X" prefix
// geocoders sometimes return.
func IsValidLondonBorough(borough string) bool {
	name := strings.ToLower(strings.TrimSpace(borough))
	if name == "" {
		return false
	}

	if validLondonBoroughs[name] {
		return true
	}

	if rest, ok := strings.CutPrefix(name, "london borough of"); ok {
		return validLondonBoroughs[strings.TrimSpace(rest)]
	}

	return false
}
