package prompt

import (
	"strings"
	"unicode"
)

// precheck rejects input that obviously cannot be of the selected kind
// before it reaches the pattern. It returns the message to show, or "".
func precheck(kind, input string) string {
	if input == "" {
		return "Error: Input cannot be empty. Please try again."
	}

	switch kind {
	case "email":
		if allDigits(input) || !strings.Contains(input, "@") {
			return "Error: Invalid email. Please try again."
		}
	case "phone":
		if allLetters(input) || !hasDigit(input) {
			return "Error: Invalid phone number. Please try again."
		}
	case "url":
		if allDigits(input) || !(hasAnyPrefix(input, "http://", "https://", "www.") || strings.Contains(input, ".")) {
			return "Error: Invalid URL. Please try again."
		}
	case "credit_card":
		if allLetters(input) || !hasDigit(input) {
			return "Error: Invalid credit card number. Please try again."
		}
	case "html_tag":
		if !strings.HasPrefix(input, "<") || !strings.HasSuffix(input, ">") {
			return "Error: Invalid HTML tag. Please try again."
		}
	case "hashtag":
		if !strings.HasPrefix(input, "#") || input == "#" {
			return "Error: Invalid hashtag. Please try again."
		}
	case "currency":
		if allLetters(input) || !(strings.HasPrefix(input, "$") || hasDigit(input)) {
			return "Error: Invalid currency amount. Please try again."
		}
	case "time":
		if allLetters(input) || !strings.Contains(input, ":") || !hasDigit(input) {
			return "Error: Invalid time. Please try again."
		}
	}
	return ""
}

func allDigits(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}

func allLetters(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) < 0
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
