package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mary anne", "Mary Anne"},
		{"SMITH", "Smith"},
		{"  jean paul ", "Jean Paul"},
		{"van  der  berg", "Van Der Berg"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.in), "Name(%q)", tt.in)
	}
}

func TestEmail(t *testing.T) {
	e, ok := Email("  A@X.Com ")
	require.True(t, ok)
	assert.Equal(t, "a@x.com", e)

	for _, bad := range []string{"", "   ", "bad-email", "no-at.example.com", "a@", "@x.com"} {
		_, ok := Email(bad)
		assert.False(t, ok, "Email(%q) should be invalid", bad)
	}
}

func TestSelectEmailsPrimaryWins(t *testing.T) {
	e1, e2 := SelectEmails("Primary@Example.com", []string{"aux@example.com"})
	assert.Equal(t, "primary@example.com", e1)
	assert.Equal(t, "aux@example.com", e2)
}

func TestSelectEmailsFallbackSkipsMalformed(t *testing.T) {
	// Primary blank, aux contains one valid and one malformed address:
	// the valid one takes slot 1 and slot 2 stays blank.
	e1, e2 := SelectEmails("", []string{"a@x.com", "bad-email"})
	assert.Equal(t, "a@x.com", e1)
	assert.Equal(t, "", e2)
}

func TestSelectEmailsInvalidPrimary(t *testing.T) {
	e1, e2 := SelectEmails("not-an-email", []string{"first@x.com", "second@x.com", "third@x.com"})
	assert.Equal(t, "first@x.com", e1)
	assert.Equal(t, "second@x.com", e2)
}

func TestSelectEmailsDeduplicates(t *testing.T) {
	e1, e2 := SelectEmails("a@x.com", []string{"A@X.COM", "b@x.com"})
	assert.Equal(t, "a@x.com", e1)
	assert.Equal(t, "b@x.com", e2)
}

func TestSelectEmailsNoneValid(t *testing.T) {
	e1, e2 := SelectEmails("bad", []string{"also bad"})
	assert.Empty(t, e1)
	assert.Empty(t, e2)
}

func TestTimestampDateOnlyDefaultsToMidnight(t *testing.T) {
	assert.Equal(t, "2024-01-15T00:00:00", Timestamp("2024-01-15"))
	assert.Equal(t, "2024-01-15T00:00:00", Timestamp("01/15/2024"))
}

func TestTimestampKeepsTimeComponent(t *testing.T) {
	assert.Equal(t, "2024-01-15T09:30:00", Timestamp("2024-01-15 09:30:00"))
}

func TestTimestampBlankAndMalformed(t *testing.T) {
	assert.Equal(t, "", Timestamp(""))
	assert.Equal(t, "", Timestamp("not a date"))
}
