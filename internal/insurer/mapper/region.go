package mapper

import "strings"

// Destination region codes accepted by the insurer.
const (
	RegionEurope       = "EUROPE"
	RegionAsia         = "ASIA"
	RegionNorthAmerica = "NORTH_AMERICA"
	RegionSouthAmerica = "SOUTH_AMERICA"
	RegionAfrica       = "AFRICA"
)

// regionKeywords pairs lowercase location fragments with region codes. Polish
// and English spellings both appear in operator-entered trip locations. Order
// matters: the first match wins.
var regionKeywords = []struct {
	keyword string
	region  string
}{
	{"azja", RegionAsia}, {"asia", RegionAsia},
	{"tajlandia", RegionAsia}, {"thailand", RegionAsia},
	{"japonia", RegionAsia}, {"japan", RegionAsia},
	{"chiny", RegionAsia}, {"china", RegionAsia},
	{"wietnam", RegionAsia}, {"vietnam", RegionAsia},
	{"indie", RegionAsia}, {"india", RegionAsia},
	{"indonezja", RegionAsia}, {"indonesia", RegionAsia}, {"bali", RegionAsia},
	{"nepal", RegionAsia}, {"sri lanka", RegionAsia},

	{"usa", RegionNorthAmerica}, {"stany zjednoczone", RegionNorthAmerica},
	{"kanada", RegionNorthAmerica}, {"canada", RegionNorthAmerica},
	{"meksyk", RegionNorthAmerica}, {"mexico", RegionNorthAmerica},
	{"ameryka północna", RegionNorthAmerica}, {"north america", RegionNorthAmerica},

	{"brazylia", RegionSouthAmerica}, {"brazil", RegionSouthAmerica},
	{"argentyna", RegionSouthAmerica}, {"argentina", RegionSouthAmerica},
	{"peru", RegionSouthAmerica}, {"chile", RegionSouthAmerica},
	{"kolumbia", RegionSouthAmerica}, {"colombia", RegionSouthAmerica},
	{"ameryka południowa", RegionSouthAmerica}, {"south america", RegionSouthAmerica},

	{"egipt", RegionAfrica}, {"egypt", RegionAfrica},
	{"maroko", RegionAfrica}, {"morocco", RegionAfrica},
	{"tunezja", RegionAfrica}, {"tunisia", RegionAfrica},
	{"kenia", RegionAfrica}, {"kenya", RegionAfrica},
	{"tanzania", RegionAfrica}, {"zanzibar", RegionAfrica},
	{"afryka", RegionAfrica}, {"africa", RegionAfrica}, {"rpa", RegionAfrica},
}

// RegionFromLocation derives a coarse destination region from the trip's
// free-text location by keyword matching, defaulting to EUROPE when nothing
// matches. This is a heuristic, not authoritative geocoding; mismatches fall
// back to the broadest product region rather than failing the submission.
func RegionFromLocation(location string) string {
	loc := strings.ToLower(location)
	for _, entry := range regionKeywords {
		if strings.Contains(loc, entry.keyword) {
			return entry.region
		}
	}
	return RegionEurope
}
