// Package phone normalises the phone numbers applicants type into the
// careers form, which arrive as a separate dialing code and local number.
package phone

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// Format combines countryCode and number into international format
// (e.g. "+44 20 7946 0958"). countryCode may be a dialing code ("+44", "44")
// or an ISO region ("GB"). When the number cannot be parsed the trimmed
// input is returned unchanged so the recipient still sees what was typed.
func Format(countryCode, number string) string {
	countryCode = strings.TrimSpace(countryCode)
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}

	raw := number
	region := "ZZ"
	switch {
	case strings.HasPrefix(number, "+"):
	case isRegion(countryCode):
		region = strings.ToUpper(countryCode)
	case countryCode != "":
		raw = "+" + strings.TrimPrefix(countryCode, "+") + " " + number
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return fallback(countryCode, number)
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

func isRegion(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func fallback(countryCode, number string) string {
	if countryCode == "" || strings.HasPrefix(number, "+") {
		return number
	}
	return countryCode + " " + number
}
