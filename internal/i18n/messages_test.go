package i18n

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                   LocaleEnglish,
		"bn":                 LocaleBengali,
		"bn-BD,en;q=0.8":     LocaleBengali,
		"en-US,en;q=0.9":     LocaleEnglish,
		"fr-FR":              LocaleEnglish,
		"not a language tag": LocaleEnglish,
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTFormatsArguments(t *testing.T) {
	got := T(LocaleEnglish, BookingPlaced, 12, "Denim Jacket")
	if got != "Order placed for 12 x Denim Jacket!" {
		t.Fatalf("T() = %q", got)
	}
	if got := T(LocaleBengali, AuthWelcome); got != "GarmentGrid-এ স্বাগতম!" {
		t.Fatalf("T(bn) = %q", got)
	}
}
