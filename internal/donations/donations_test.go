package donations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patron-tools/patron-import/internal/model"
)

func TestAggregateFiltersAndExcludes(t *testing.T) {
	// Statuses ["Paid", "Refunded", "Paid"] with amounts [10, 20, blank]:
	// the Refunded entry and the blank-amount Paid entry are excluded
	// entirely, yielding total 10.00, count 1.
	entries := []model.DonationEntry{
		{PatronID: "P1", Status: "Paid", Amount: "10"},
		{PatronID: "P1", Status: "Refunded", Amount: "20"},
		{PatronID: "P1", Status: "Paid", Amount: ""},
	}

	res := Aggregate(entries, nil)
	require.Contains(t, res.ByPatron, "P1")
	assert.Equal(t, int64(1000), res.ByPatron["P1"].TotalCents)
	assert.Equal(t, 1, res.ByPatron["P1"].Count)
	assert.Equal(t, 1, res.Excluded)
}

func TestAggregateStatusIsCaseSensitive(t *testing.T) {
	entries := []model.DonationEntry{
		{PatronID: "P1", Status: "paid", Amount: "10"},
		{PatronID: "P1", Status: "PAID", Amount: "10"},
		{PatronID: "P1", Status: " Paid ", Amount: "10"}, // trimmed, then exact
	}

	res := Aggregate(entries, nil)
	assert.Equal(t, 1, res.ByPatron["P1"].Count)
	assert.Equal(t, int64(1000), res.ByPatron["P1"].TotalCents)
}

func TestAggregateSumsPerPatron(t *testing.T) {
	entries := []model.DonationEntry{
		{PatronID: "P1", Status: "Paid", Amount: "10.50"},
		{PatronID: "P1", Status: "Paid", Amount: "0.25"},
		{PatronID: "P2", Status: "Paid", Amount: "99.99"},
	}

	res := Aggregate(entries, nil)
	assert.Equal(t, Rollup{TotalCents: 1075, Count: 2}, res.ByPatron["P1"])
	assert.Equal(t, Rollup{TotalCents: 9999, Count: 1}, res.ByPatron["P2"])
	assert.Zero(t, res.Excluded)
}

func TestAggregateNoPaidEntries(t *testing.T) {
	entries := []model.DonationEntry{
		{PatronID: "P1", Status: "Refunded", Amount: "10"},
	}

	res := Aggregate(entries, nil)
	_, ok := res.ByPatron["P1"]
	assert.False(t, ok)
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10", 1000},
		{"10.5", 1050},
		{"10.50", 1050},
		{"0.07", 7},
		{" 3.20 ", 320},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseCents(tt.in)
		require.NoError(t, err, "ParseCents(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseCents(%q)", tt.in)
	}

	for _, bad := range []string{"", "  ", "abc", "$10", "1,000", "10.123", "-5", "10.", "."} {
		_, err := ParseCents(bad)
		assert.Error(t, err, "ParseCents(%q) should fail", bad)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "10.00", FormatCents(1000))
	assert.Equal(t, "10.50", FormatCents(1050))
	assert.Equal(t, "0.07", FormatCents(7))
	assert.Equal(t, "0.00", FormatCents(0))
}
