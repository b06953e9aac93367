// Package validate holds the input validators used by the registration
// conversation and the roster importer.
package validate

import (
	"regexp"
	"strings"
)

var (
	nameWordRe = regexp.MustCompile(`^[А-Яа-яЁё\-]+$`)
	groupRe    = regexp.MustCompile(`^[А-Я]\d{2}-\d{3}[А-Я]?$`)
	nonPhoneRe = regexp.MustCompile(`[^\d+]`)
)

// FullName reports whether the input looks like a real full name:
// at least two space-separated words of Cyrillic letters and hyphens.
func FullName(name string) bool {
	name = strings.Join(strings.Fields(name), " ")
	if len([]rune(name)) < 5 {
		return false
	}
	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if !nameWordRe.MatchString(w) {
			return false
		}
	}
	return true
}

// NormalizeName collapses whitespace and capitalizes every word, including
// the parts of hyphenated surnames.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		parts := strings.Split(w, "-")
		for j, p := range parts {
			parts[j] = capitalize(p)
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// GroupNumber reports whether the input matches the university group format
// such as Б20-505 or М22-403А. The input is uppercased first.
func GroupNumber(group string) bool {
	return groupRe.MatchString(NormalizeGroup(group))
}

// NormalizeGroup trims and uppercases a group number.
func NormalizeGroup(group string) string {
	return strings.ToUpper(strings.TrimSpace(group))
}

// Phone reports whether the input is a usable phone number: after stripping
// formatting it must be a + followed by 10 to 15 digits.
func Phone(phone string) bool {
	clean := NormalizePhone(phone)
	if !strings.HasPrefix(clean, "+") {
		return false
	}
	digits := clean[1:]
	if len(digits) < 10 || len(digits) > 15 {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// NormalizePhone strips every character except digits and +, and prepends
// + when missing. The result is canonical and idempotent.
func NormalizePhone(phone string) string {
	clean := nonPhoneRe.ReplaceAllString(phone, "")
	clean = strings.TrimLeft(clean, "+")
	if clean == "" {
		return ""
	}
	return "+" + strings.ReplaceAll(clean, "+", "")
}
