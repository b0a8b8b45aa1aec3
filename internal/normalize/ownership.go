package normalize

import "strings"

// ownershipRule maps raw ownership strings to one canonical operator name.
// A rule matches when any of its groups matches; a group matches when every
// substring in it is present (case-insensitive). Rules are checked in order
// and the first match wins, so broader patterns sit below narrower ones.
type ownershipRule struct {
	canonical string
	groups    [][]string
}

var ownershipRules = []ownershipRule{
	{"Wetherspoon", [][]string{{"wetherspoon"}}},
	{"Fuller's", [][]string{{"fuller"}}},
	{"Greene King", [][]string{{"greene", "king"}}},
	{"Nicholson's", [][]string{{"nicholson"}, {"mitchell", "butler"}, {"m&b"}, {"m & b"}}},
	{"Young's", [][]string{{"young"}}},
	{"Stonegate", [][]string{{"stonegate"}}},
	{"Craft Beer Co", [][]string{{"craft", "beer"}}},
	{"Stanley Pubs", [][]string{{"stanley"}}},
	{"Three Cheers Pub Co", [][]string{{"three", "cheers"}}},
	{"Antic", [][]string{{"antic"}}},
	{"Berkeley Inns", [][]string{{"berkeley"}}},
	{"Grace Land", [][]string{{"grace", "land"}}},
	{"Inda Pubs", [][]string{{"inda"}}},
	{"Ineos", [][]string{{"ineos"}}},
	{"McMullen", [][]string{{"mcmullen"}}},
	{"Remarkable Pubs", [][]string{{"remarkable"}}},
	{"Samuel Smith's", [][]string{{"samuel", "smith"}}},
	{"Shepherd Neame", [][]string{{"shepherd", "neame"}}},
	{"Urban Pubs & Bars", [][]string{{"urban", "pub"}}},
	{"Market Taverns", [][]string{{"market", "tavern"}}},
	{"Ember Inns", [][]string{{"ember", "inn"}}},
	{"Geronimo Inns", [][]string{{"geronimo", "inn"}}},
	{"BrewDog", [][]string{{"brewdog"}}},
	{"Cubitt House", [][]string{{"cubitt", "house"}}},
	{"Craft Union", [][]string{{"craft", "union"}}},
	{"Glendola Leisure", [][]string{{"glendola", "leisure"}}},
	{"Royal British Legion", [][]string{{"royal", "british"}}},
	{"Five Points Brewing Co", [][]string{{"five", "point"}}},
	{"Hall & Woodhouse", [][]string{{"hall", "woodhous"}}},
	{"Portobello", [][]string{{"portobello"}}},
	{"Punch Pubs", [][]string{{"punch"}}},
	{"London Village Inns", [][]string{{"london", "village"}}},
	{"Big Smoke Brewery", [][]string{{"big", "smoke"}}},
	{"Laine Pub Co", [][]string{{"laine"}}},
	{"Twenty6", [][]string{{"twenty6"}, {"twenty 6"}}},
	{"Davy's", [][]string{{"davy"}}},
	{"Gipsy Hill", [][]string{{"gipsy", "hill"}}},
	{"Allsopp's Brewer", [][]string{{"allsopp"}}},
	{"Bullfinch Brewery", [][]string{{"bullfinch", "brewer"}}},
	{"Pearmain", [][]string{{"pearmain"}}},
	{"Moor Beer Company", [][]string{{"moor", "beer"}}},
	{"Gladwin Brothers", [][]string{{"gladwin", "brother"}}},
	{"Mondo Brewing", [][]string{{"mondo", "brewing"}}},
	{"Porterhouse Brewing Co", [][]string{{"porterhouse", "brewing"}}},
	{"Barworks", [][]string{{"barworks"}}},
	{"Bloomsbury Leisure", [][]string{{"bloomsbury", "leisure"}}},
	{"Brasserie Blanc", [][]string{{"brasserie", "blanc"}}},
	{"Electric Star", [][]string{{"electric", "star"}}},
	{"Enterprise Inns", [][]string{{"enterprise", "inn"}}},
	{"Loci Pubs", [][]string{{"loci", "pub"}}},
	{"London School of Economics", [][]string{{"lse"}, {"london", "economics"}}},
	{"Morton Scott", [][]string{{"morton", "scott"}}},
	{"Parched Pub Co", [][]string{{"parched"}}},
	{"PubLove", [][]string{{"pub", "love"}}},
	{"Rarebreed", [][]string{{"rarebreed"}}},
	{"Star Pubs & Bars", [][]string{{"star", "pub"}}},
	{"True Pub Co", [][]string{{"true", "pub"}}},
	{"Whitbread", [][]string{{"whitbread"}}},
	{"Wren Pubs", [][]string{{"wren", "pub"}}},
	{"Independent", [][]string{{"independent"}, {"member"}, {"private"}}},
}

// StandardizeOwnership canonicalizes a pub operator name against the rule
// table. Unmatched non-empty values come back trimmed but otherwise as-is;
// empty input returns "" with matched false.
func StandardizeOwnership(ownership string) (standardized string, matched bool) {
	clean := strings.TrimSpace(ownership)
	if clean == "" {
		return "", false
	}

	lower := strings.ToLower(clean)
	for _, rule := range ownershipRules {
		for _, group := range rule.groups {
			all := true
			for _, sub := range group {
				if !strings.Contains(lower, sub) {
					all = false
					break
				}
			}
			if all {
				return rule.canonical, true
			}
		}
	}

	return clean, false
}
