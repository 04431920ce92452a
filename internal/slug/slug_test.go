package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Пижамы":               "pizhamy",
		"Женские пижамы":       "zhenskie-pizhamy",
		"  Халаты   и  сорочки ": "halaty-i-sorochki",
		"Silk Set 2024":        "silk-set-2024",
		"Щётка!":               "schyotka",
		"Объём, подъезд":       "obyom-podezd",
		"Café № 1":             "caf-1",
		"":                     "",
		"!!!":                  "",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMake_NoCyrillicOrEdgeHyphens(t *testing.T) {
	for _, in := range []string{"Пижамы", " Юбки ", "Детские Ёлки", "Ночные сорочки — NEW"} {
		got := Make(in)
		for _, r := range got {
			if r >= 'а' && r <= 'я' || r == 'ё' {
				t.Fatalf("Make(%q) = %q still contains Cyrillic", in, got)
			}
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") || strings.Contains(got, "--") {
			t.Fatalf("Make(%q) = %q has stray hyphens", in, got)
		}
	}
}
