package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// paymentMethodLabels is the fixed vocabulary of canonical payment methods.
var paymentMethodLabels = map[string]string{
	"pix":    "Pix",
	"boleto": "Boleto",
	"cheque": "Cheque",
}

// TitleCase title-cases s using Portuguese casing rules.
// A Caser is stateful, so one is built per call.
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(s)
}

// CanonicalPaymentMethod maps known methods case-insensitively to their label
// and title-cases anything else.
func CanonicalPaymentMethod(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := paymentMethodLabels[key]; ok {
		return label
	}
	return TitleCase(raw)
}
