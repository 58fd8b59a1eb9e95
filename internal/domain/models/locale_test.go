package models

import (
	"testing"
	"time"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]Locale{
		"":      LocaleEN,
		"en":    LocaleEN,
		"ES":    LocaleES,
		"de-AT": LocaleDE,
		"ja_JP": LocaleJA,
		"fr":    LocaleEN,
	}
	for in, want := range cases {
		if got := NormalizeLocale(in); got != want {
			t.Fatalf("NormalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDayName(t *testing.T) {
	sunday := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	if got := DayName(LocaleEN, sunday); got != "Sun" {
		t.Fatalf("en: %q", got)
	}
	if got := DayName(LocaleES, sunday.AddDate(0, 0, 6)); got != "Sáb" {
		t.Fatalf("es: %q", got)
	}
	if got := DayName(LocaleJA, sunday.AddDate(0, 0, 1)); got != "月" {
		t.Fatalf("ja: %q", got)
	}
	if got := DayName(Locale("xx"), sunday); got != "Sun" {
		t.Fatalf("unknown locale should fall back to en, got %q", got)
	}
}

func TestFarmStateCloneIsDeep(t *testing.T) {
	f := FarmState{
		ChartData: []ChartPoint{{Day: "1/1", NDVI: 0.5}},
		Sectors:   []Sector{{ID: 1, PestRisk: 20}, {ID: 2, PestRisk: 40}},
	}
	c := f.Clone()
	c.ChartData[0].NDVI = 0.9
	c.Sectors[0].PestRisk = 99
	if f.ChartData[0].NDVI != 0.5 || f.Sectors[0].PestRisk != 20 {
		t.Fatalf("clone shares backing arrays")
	}
	if f.MeanPestRisk() != 30 {
		t.Fatalf("expected mean 30, got %v", f.MeanPestRisk())
	}
}
