package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patron-tools/patron-import/internal/model"
)

// countingMapper records how many lookups each raw tag received.
type countingMapper struct {
	table map[string]string
	calls map[string]int
}

func (m *countingMapper) Map(_ context.Context, raw string) (string, error) {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[raw]++
	if cleaned, ok := m.table[raw]; ok {
		return cleaned, nil
	}
	return raw, nil
}

// failMapper always fails, simulating an unreachable capability.
type failMapper struct{}

func (failMapper) Map(_ context.Context, _ string) (string, error) {
	return "", errors.New("connection refused")
}

func TestSplitTrimsAndDeduplicates(t *testing.T) {
	p := NewProcessor(NoopMapper{}, ",", nil)

	// Case-insensitive dedupe, first-seen casing preserved.
	assert.Equal(t, []string{"Donor", "VIP"}, p.Split("Donor, donor , VIP"))
}

func TestSplitDropsEmptyTokens(t *testing.T) {
	p := NewProcessor(NoopMapper{}, ",", nil)
	assert.Equal(t, []string{"A", "B"}, p.Split(" A ,, B , "))
	assert.Nil(t, p.Split("  , ,"))
	assert.Nil(t, p.Split(""))
}

func TestProcessCollapsesAfterRemap(t *testing.T) {
	// Two originally distinct tags map to the same cleaned name and must
	// collapse into one before counting.
	mapper := NewStaticMapper(map[string]string{
		"Donor":      "Supporter",
		"Benefactor": "Supporter",
	})
	p := NewProcessor(mapper, ",", nil)

	got := p.Process(context.Background(), "Donor, Benefactor, VIP")
	assert.Equal(t, []string{"Supporter", "VIP"}, got)
}

func TestProcessFallsBackWhenMapperFails(t *testing.T) {
	p := NewProcessor(failMapper{}, ",", nil)

	got := p.Process(context.Background(), "Donor, VIP")
	assert.Equal(t, []string{"Donor", "VIP"}, got)
	assert.Equal(t, 2, p.LookupFailures)
}

func TestProcessLooksUpEachUniqueTagOnce(t *testing.T) {
	m := &countingMapper{table: map[string]string{}}
	p := NewProcessor(m, ",", nil)

	// Same raw tags across many rows: one lookup per unique value.
	for i := 0; i < 50; i++ {
		p.Process(context.Background(), "Donor, VIP")
	}
	assert.Equal(t, 1, m.calls["Donor"])
	assert.Equal(t, 1, m.calls["VIP"])
}

func TestCountIsPerDistinctConstituent(t *testing.T) {
	cs := []model.Constituent{
		{PatronID: "P1", Tags: []string{"Donor", "VIP"}},
		{PatronID: "P2", Tags: []string{"Donor"}},
		{PatronID: "P3", Tags: []string{"donor"}}, // case variant
	}

	counts := Count(cs)
	require.Len(t, counts, 2)

	// Ordered by count descending, then name ascending.
	assert.Equal(t, model.TagCount{Tag: "Donor", Constituents: 3}, counts[0])
	assert.Equal(t, model.TagCount{Tag: "VIP", Constituents: 1}, counts[1])
}

func TestCountOrderIsDeterministic(t *testing.T) {
	cs := []model.Constituent{
		{PatronID: "P1", Tags: []string{"B", "A", "C"}},
	}
	for i := 0; i < 10; i++ {
		counts := Count(cs)
		require.Len(t, counts, 3)
		assert.Equal(t, "A", counts[0].Tag)
		assert.Equal(t, "B", counts[1].Tag)
		assert.Equal(t, "C", counts[2].Tag)
	}
}

func TestStaticMapperPassThroughOnMiss(t *testing.T) {
	m := NewStaticMapper(map[string]string{"Old": "New"})

	got, err := m.Map(context.Background(), "Unmapped")
	require.NoError(t, err)
	assert.Equal(t, "Unmapped", got)
}
