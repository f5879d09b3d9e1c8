package aisc

import "testing"

func applyRule(t *testing.T, name, in string) string {
	t.Helper()
	for _, r := range NormalizeRules {
		if r.Name == name {
			return r.Apply(in)
		}
	}
	t.Fatalf("no rule named %q", name)
	return ""
}

func TestNormalizeRules_Order(t *testing.T) {
	want := []string{"unicode-fractions", "upper-x", "hyphenate-mixed-fraction", "decimal-eighths", "strip-upper"}
	if len(NormalizeRules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(NormalizeRules))
	}
	for i, name := range want {
		if NormalizeRules[i].Name != name {
			t.Errorf("rule %d: expected %q, got %q", i, name, NormalizeRules[i].Name)
		}
	}
}

func TestNormalizeRules_Individual(t *testing.T) {
	tests := []struct {
		rule string
		in   string
		want string
	}{
		{"unicode-fractions", "L3½X3½X¼", "L31/2X31/2X1/4"},
		{"unicode-fractions", "⅛⅜⅝¾⅞⅓⅔", "1/83/85/83/47/81/32/3"},
		{"upper-x", "w8x31", "w8X31"},
		{"hyphenate-mixed-fraction", "L31/2X31/2X1/4", "L3-1/2X3-1/2X1/4"},
		{"hyphenate-mixed-fraction", "HSS6X6X1/4", "HSS6X6X1/4"},
		{"decimal-eighths", "PIPE 3.5 STD", "PIPE 3-1/2 STD"},
		{"decimal-eighths", "L 2.25 X 2.75", "L 2-1/4 X 2-3/4"},
		{"decimal-eighths", "C4X7.25", "C4X7.25"},
		{"decimal-eighths", "HSS6X6X0.312", "HSS6X6X0.312"},
		{"decimal-eighths", "W 10.5", "W 10.5"},
		{"strip-upper", " w8 x\t31 ", "W8X31"},
	}
	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.in, func(t *testing.T) {
			if got := applyRule(t, tt.rule, tt.in); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.rule, tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{
		"w8x31",
		"STD PIPE 3½",
		"Pipe 3.5 STD",
		"L3½ x 3½ x ¼",
		"HSS 4 x 4 x 0.25",
		"HSS6X6X1/4",
		"C4X7.25",
		"PL ½ X 6",
	} {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsPlate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"PL1/2X6", true},
		{"  pl 3/8 x 4", true},
		{"PLATE", true},
		{"W8X31", false},
		{"", false},
		{"HSS6X6X1/4", false},
	}
	for _, tt := range tests {
		if got := IsPlate(tt.in); got != tt.want {
			t.Errorf("IsPlate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
