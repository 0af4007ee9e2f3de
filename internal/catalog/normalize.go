package catalog

import (
	"regexp"
	"strings"
)

// unitSynonyms maps unit spellings to their canonical short form.
var unitSynonyms = map[string]string{ //nolint: gochecknoglobals
	"lt": "l",
	"l":  "l",
	"kg": "kg",
	"gr": "g",
	"g":  "g",
	"ml": "ml",
}

var (
	quantityUnitRe = regexp.MustCompile(`(\d+)\s*(lt|l|kg|gr|g|ml)\b`)
	punctuationRe  = regexp.MustCompile(`[.,;:]+`)
)

// NormalizeProductName returns the canonical form of a product name used for
// de-duplication in storage.
//
// The normalization rules are intentionally strict and opinionated:
//   - Lower-case and trim the whole name
//   - Collapse runs of whitespace into single spaces
//   - Split quantity-unit runs ("1L" becomes "1 l")
//   - Map unit synonyms to a canonical form (lt -> l, gr -> g)
//   - Strip punctuation
func NormalizeProductName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")

	s = quantityUnitRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := quantityUnitRe.FindStringSubmatch(m)

		return parts[1] + " " + unitSynonyms[parts[2]]
	})
	s = strings.Join(strings.Fields(s), " ")

	tokens := strings.Split(s, " ")
	for i, t := range tokens {
		if canonical, ok := unitSynonyms[t]; ok {
			tokens[i] = canonical
		}
	}
	s = strings.Join(tokens, " ")

	return punctuationRe.ReplaceAllString(s, "")
}

// PrettifyProductName renders a canonical product name for display:
// staple words get capitalized, units stay lower-case.
func PrettifyProductName(name string) string {
	if name == "" {
		return ""
	}

	tokens := strings.Split(name, " ")
	for i, t := range tokens {
		if isCanonicalUnit(t) {
			continue
		}
		tokens[i] = capitalizeFirst(t)
	}

	return strings.Join(tokens, " ")
}

func isCanonicalUnit(token string) bool {
	for _, canonical := range unitSynonyms {
		if token == canonical {
			return true
		}
	}

	return false
}

func capitalizeFirst(token string) string {
	runes := []rune(token)
	if len(runes) == 0 {
		return token
	}
	if len(runes) == 1 {
		return strings.ToUpper(token)
	}

	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
