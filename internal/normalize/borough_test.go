package normalize

import "testing"

func TestIsValidLondonBorough(t *testing.T) {
	tests := []struct {
		borough string
		want    bool
	}{
		{"Camden", true},
		{"hackney", true},
		{"TOWER HAMLETS", true},
		{"City of London", true},
		{"Hammersmith and Fulham", true},
		{"Hammersmith & Fulham", true},
		{"Richmond upon Thames", true},
		{"London Borough of Islington", true},
		{"london borough of southwark", true},
		{"  Lambeth  ", true},
		{"Westminster", true},
		{"City of Westminster", true},
		{"Soho", false},
		{"Manchester", false},
		{"London", false},
		{"London Borough of Narnia", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := IsValidLondonBorough(tt.borough); got != tt.want {
			t.Errorf("IsValidLondonBorough(%q) = %v, want %v", tt.borough, got, tt.want)
		}
	}
}
