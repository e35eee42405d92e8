package naming

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple lowercase", input: "office", want: "office"},
		{name: "mixed case with space", input: "Living Room", want: "living_room"},
		{name: "german umlauts", input: "Büro Licht", want: "buro_licht"},
		{name: "sharp s", input: "Straße", want: "strasse"},
		{name: "accents", input: "Café Près", want: "cafe_pres"},
		{name: "punctuation collapses", input: "Kitchen (Main) Light", want: "kitchen_main_light"},
		{name: "repeated separators", input: "a--b__c  d", want: "a_b_c_d"},
		{name: "leading and trailing junk", input: "  --Hall-- ", want: "hall"},
		{name: "digits preserved", input: "Light 2", want: "light_2"},
		{name: "empty", input: "", want: ""},
		{name: "only junk", input: "!!!", want: ""},
		{name: "unknown unicode dropped as separator", input: "光 Room", want: "room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"Büro Licht", "Living Room", "a--b", "office"}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStripPrefixFold(t *testing.T) {
	tests := []struct {
		name       string
		s, prefix  string
		want       string
		wantStrip  bool
	}{
		{name: "case insensitive match", s: "Office Light", prefix: "office", want: "light", wantStrip: true},
		{name: "umlaut prefix", s: "Büro Fenster", prefix: "Buro", want: "fenster", wantStrip: true},
		{name: "no match", s: "Hall Light", prefix: "Office", want: "Hall Light", wantStrip: false},
		{name: "empty prefix", s: "Hall Light", prefix: "", want: "Hall Light", wantStrip: false},
		{name: "full match leaves empty", s: "Office", prefix: "Office", want: "", wantStrip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stripped := stripPrefixFold(tt.s, tt.prefix)
			if got != tt.want || stripped != tt.wantStrip {
				t.Errorf("stripPrefixFold(%q, %q) = (%q, %v), want (%q, %v)",
					tt.s, tt.prefix, got, stripped, tt.want, tt.wantStrip)
			}
		})
	}
}
