package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mobile with 9", "11987654321", "5511987654321"},
		{"landline style gets mobile 9", "1187654321", "55119987654321"},
		{"already prefixed", "5511987654321", "5511987654321"},
		{"formatting stripped", "(11) 98765-4321", "5511987654321"},
		{"plus sign and spaces", "+55 11 98765 4321", "5511987654321"},
		{"short number left alone", "987654321", "987654321"},
		{"any 11 digits get the prefix", "14155552671", "5514155552671"},
		{"empty", "", ""},
		{"letters only", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"11987654321", "1187654321", "(21) 3333-4444", "5511987654321"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestDigits_IgnoresNonASCIIDigits(t *testing.T) {
	assert.Equal(t, "12", Digits("1٣2"))
}

func TestCandidates(t *testing.T) {
	got := Candidates("(11) 98765-4321")
	assert.Equal(t, []string{"(11) 98765-4321", "11987654321", "5511987654321"}, got)

	got = Candidates("5511987654321")
	assert.Equal(t, []string{"5511987654321", "11987654321"}, got)

	assert.Empty(t, Candidates("  "))
}
