package validate

import "testing"

func TestFullName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"three words", "Иванов Иван Иванович", true},
		{"two words", "Иванов Иван", true},
		{"hyphenated surname", "Петрова-Сидорова Анна", true},
		{"with yo", "Ёлкин Пётр", true},
		{"single word", "Иванов", false},
		{"latin letters", "Ivanov Ivan", false},
		{"digits", "Иванов 123", false},
		{"too short", "Ан Ли", false},
		{"empty", "", false},
		{"extra spaces", "  Иванов   Иван  ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FullName(tc.input); got != tc.want {
				t.Fatalf("FullName(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"иванов иван иванович", "Иванов Иван Иванович"},
		{"  ПЕТРОВ   пётр ", "Петров Пётр"},
		{"петрова-сидорова анна", "Петрова-Сидорова Анна"},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.input); got != tc.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestGroupNumber(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"Б20-505", true},
		{"б20-505", true},
		{"М22-403А", true},
		{" Б20-505 ", true},
		{"Б20505", false},
		{"20-505", false},
		{"Б2-505", false},
		{"Б20-50", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := GroupNumber(tc.input); got != tc.want {
			t.Fatalf("GroupNumber(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"+79161234567", true},
		{"79161234567", true},
		{"8 (916) 123-45-67", true},
		{"+7 916 123 45 67", true},
		{"12345", false},
		{"+1234567890123456", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Phone(tc.input); got != tc.want {
			t.Fatalf("Phone(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"8 (916) 123-45-67", "+79161234567", "7916-123-45-67"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		twice := NormalizePhone(once)
		if once != twice {
			t.Fatalf("NormalizePhone not idempotent: %q -> %q -> %q", in, once, twice)
		}
		if once[0] != '+' {
			t.Fatalf("NormalizePhone(%q) = %q, missing + prefix", in, once)
		}
	}
}
