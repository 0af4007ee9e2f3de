package catalog_test

import (
	"testing"

	"github.com/vaskito85/buscador-precios/internal/catalog"
)

func TestNormalizeProductName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "lowercase and split quantity from unit",
			in:   "Leche 1L",
			out:  "leche 1 l",
		},
		{
			name: "trim and collapse whitespace",
			in:   "  LECHE   1   l ",
			out:  "leche 1 l",
		},
		{
			name: "milliliters",
			in:   "Yerba 500ml",
			out:  "yerba 500 ml",
		},
		{
			name: "unit synonym lt",
			in:   "aceite 1lt",
			out:  "aceite 1 l",
		},
		{
			name: "unit synonym gr",
			in:   "yerba 500 gr",
			out:  "yerba 500 g",
		},
		{
			name: "strip punctuation",
			in:   "arroz, largo fino.",
			out:  "arroz largo fino",
		},
		{
			name: "empty input",
			in:   "",
			out:  "",
		},
		{
			name: "whitespace only",
			in:   "   ",
			out:  "",
		},
		{
			name: "standalone unit token",
			in:   "harina kg",
			out:  "harina kg",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := catalog.NormalizeProductName(tc.in); got != tc.out {
				t.Fatalf("NormalizeProductName(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestPrettifyProductName(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{in: "leche 1 l", out: "Leche 1 l"},
		{in: "yerba 500 g", out: "Yerba 500 g"},
		{in: "arroz largo fino", out: "Arroz Largo Fino"},
		{in: "", out: ""},
	}

	for _, tc := range cases {
		if got := catalog.PrettifyProductName(tc.in); got != tc.out {
			t.Fatalf("PrettifyProductName(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
