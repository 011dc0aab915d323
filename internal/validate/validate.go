// Package validate holds the pure syntax checks for resident input.
// Every check returns a user-facing reason string for both outcomes so
// the conversation layer can echo it back verbatim.
package validate

import (
	"strconv"
	"strings"
)

// MaxApartment bounds apartment numbers to a sane range.
const MaxApartment = 1000

// Apartment accepts strings of decimal digits parsing to 1..MaxApartment.
func Apartment(input string) (bool, string) {
	if input == "" || strings.IndexFunc(input, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return false, "❌ Номер квартиры должен содержать только цифры"
	}
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return false, "❌ Номер квартиры должен быть больше 0"
	}
	if n > MaxApartment {
		return false, "❌ Номер квартиры слишком большой"
	}
	return true, "✅ Номер квартиры корректен"
}

// CleanPhone strips every non-digit character from the input.
func CleanPhone(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// Phone validates a phone number after stripping formatting characters.
// Numbers on the local plan (leading 7 or 8) must be exactly 11 digits,
// anything else is treated as international and must be 10 to 15 digits.
func Phone(input string) (bool, string) {
	clean := CleanPhone(input)

	if strings.HasPrefix(clean, "7") || strings.HasPrefix(clean, "8") {
		if len(clean) == 11 {
			return true, "✅ Номер телефона корректен"
		}
		return false, "❌ Российский номер должен содержать 11 цифр"
	}

	if len(clean) >= 10 && len(clean) <= 15 {
		return true, "✅ Номер телефона корректен"
	}
	return false, "❌ Неверный формат номера телефона"
}
