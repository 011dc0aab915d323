package validate

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApartmentRejectsNonDigits(t *testing.T) {
	for _, input := range []string{"", "12a", "a12", "1 2", "12.5", "-5", "+7", "кв5"} {
		ok, reason := Apartment(input)
		assert.False(t, ok, "input %q", input)
		assert.NotEmpty(t, reason)
	}
}

func TestApartmentBoundaries(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"0", false},
		{"1", true},
		{"500", true},
		{"1000", true},
		{"1001", false},
	}
	for _, tc := range cases {
		ok, _ := Apartment(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
	}
}

func TestApartmentAcceptsWholeRange(t *testing.T) {
	for _, n := range []int{1, 2, 10, 99, 100, 999, 1000} {
		ok, _ := Apartment(strconv.Itoa(n))
		require.True(t, ok, "apartment %d", n)
	}
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "79001234567", CleanPhone("+7 (900) 123-45-67"))
	assert.Equal(t, "", CleanPhone("abc"))
	assert.Equal(t, "12345", CleanPhone("1-2-3-4-5"))
}

func TestPhoneLocalPlan(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"+7 900 123 45 67", true},
		{"89001234567", true},
		{"8 (900) 123-45-67", true},
		{"7900123456", false},      // 10 digits with leading 7
		{"790012345678", false},    // 12 digits with leading 7
		{"8900123456789012", false},
	}
	for _, tc := range cases {
		ok, _ := Phone(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
	}
}

func TestPhoneInternational(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"+1 212 555 0100", true},   // 11 digits, leading 1
		{"4930123456", true},        // 10 digits
		{"493012345678901", true},   // 15 digits
		{"493012345", false},        // 9 digits
		{"4930123456789012", false}, // 16 digits
		{"", false},
	}
	for _, tc := range cases {
		ok, _ := Phone(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
	}
}
