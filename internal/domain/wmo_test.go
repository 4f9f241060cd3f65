package domain

import "testing"

// Lightning classification covers thunder codes from both the manned
// (4677) and automatic (4680) WMO code tables, and values just outside
// them.
func TestIsLightningCode(t *testing.T) {
	cases := []struct {
		value float64
		want  bool
	}{
		{13, true},
		{17, true},
		{29, true},
		{91, true},
		{95, true},
		{99, true},
		{112, true},
		{126, true},
		{190, true},
		{196, true},
		{213, true},
		{217, true},
		{292, true},
		{293, true},
		{0, false},
		{12, false},
		{14, false},
		{30, false},
		{90, false},
		{100, false},
		{111, false},
		{189, false},
		{197, false},
		{294, false},
	}
	for _, c := range cases {
		if got := IsLightningCode(c.value); got != c.want {
			t.Errorf("IsLightningCode(%v): expected %v, got %v", c.value, c.want, got)
		}
	}
}

// SMHI serves codes as floats; the fractional part is ignored.
func TestIsLightningCode_TruncatesFloats(t *testing.T) {
	if !IsLightningCode(95.7) {
		t.Errorf("expected 95.7 to classify as code 95")
	}
	if IsLightningCode(90.9) {
		t.Errorf("expected 90.9 to classify as code 90, not 91")
	}
}
