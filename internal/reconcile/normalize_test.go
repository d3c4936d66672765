package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   Value
		want *string
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"whitespace only", "   \t ", nil},
		{"plain text", "Acme", strPtr("Acme")},
		{"padded text", "  Acme  ", strPtr("Acme")},
		{"nil string pointer", (*string)(nil), nil},
		{"string pointer", strPtr(" 10kg "), strPtr("10kg")},
		{"date", date, strPtr("2024-01-05")},
		{"date pointer", &date, strPtr("2024-01-05")},
		{"nil date pointer", (*time.Time)(nil), nil},
		{"zero time", time.Time{}, nil},
		{"false", false, nil},
		{"true", true, strPtr("true")},
		{"zero int", 0, nil},
		{"int", 42, strPtr("42")},
		{"zero float", 0.0, nil},
		{"float", 1.5, strPtr("1.5")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNormalizeDateInNonUTCZone(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*3600)
	d := time.Date(2024, 1, 5, 10, 0, 0, 0, loc)

	got := Normalize(d)
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-04", *got, "normalization uses the UTC calendar date")
}

func TestNormalizeIdempotent(t *testing.T) {
	values := []Value{
		nil, "", "   ", "Acme", "  Acme Corp ", "10kg",
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		42, true,
	}
	for _, v := range values {
		first := Normalize(v)
		if first == nil {
			assert.Nil(t, Normalize(nil))
			continue
		}
		second := Normalize(*first)
		require.NotNil(t, second)
		assert.Equal(t, *first, *second)
	}
}

func TestDiffers(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"nil vs empty", nil, "", false},
		{"empty vs whitespace", "", "   ", false},
		{"nil vs whitespace", nil, "   ", false},
		{"same text", "Acme", "Acme", false},
		{"padded vs plain", " Acme ", "Acme", false},
		{"real edit", "Acme", "Acme Corp", true},
		{"value vs nil", "Acme", nil, true},
		{"date vs iso string", date, "2024-01-05", false},
		{"date vs other day", date, "2024-01-06", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Differs(tt.a, tt.b))
			assert.Equal(t, tt.expected, Differs(tt.b, tt.a), "comparison must be symmetric")
		})
	}
}

func TestIsModified(t *testing.T) {
	original := FieldMap{"shipper_name": "Acme", "weight": nil}

	assert.False(t, IsModified(original, "shipper_name", "Acme"))
	assert.False(t, IsModified(original, "shipper_name", " Acme "))
	assert.True(t, IsModified(original, "shipper_name", "Acme Corp"))
	assert.False(t, IsModified(original, "weight", ""))
	assert.True(t, IsModified(original, "weight", "10kg"))
	// Fields absent from the snapshot count as empty.
	assert.False(t, IsModified(original, "carrier", ""))
	assert.True(t, IsModified(original, "carrier", "DHL"))
}
