package mapper

import "testing"

func TestRegionFromLocation(t *testing.T) {
	cases := []struct {
		location string
		want     string
	}{
		{"Tajlandia, Bangkok", RegionAsia},
		{"Trekking in Nepal", RegionAsia},
		{"USA - Grand Canyon", RegionNorthAmerica},
		{"Meksyk", RegionNorthAmerica},
		{"Peru i Chile", RegionSouthAmerica},
		{"Safari, Kenia", RegionAfrica},
		{"Zanzibar", RegionAfrica},
		{"Chorwacja, Dalmacja", RegionEurope},
		{"", RegionEurope},
		{"WŁOCHY", RegionEurope},
	}
	for _, tc := range cases {
		if got := RegionFromLocation(tc.location); got != tc.want {
			t.Errorf("RegionFromLocation(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}
}
