// =============================================================================
// Patron Import - Tag Processor
// =============================================================================
//
// Splits, trims, deduplicates and optionally remaps tag strings per
// constituent, then aggregates global tag counts.
//
// DEDUPLICATION POLICY:
//   Tags are compared case-insensitively; the first-seen casing is kept as
//   the display form ("Donor, donor, VIP" yields {"Donor", "VIP"}). The
//   same policy applies again after remapping, so two distinct raw tags
//   that map to one cleaned name collapse before counting.
//
// Lookups go through the Mapper once per unique raw tag value for the
// whole run, never once per row.
//
// =============================================================================

package tags

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/patron-tools/patron-import/internal/model"
)

// Processor cleans tag fields and memoizes mapping lookups.
type Processor struct {
	mapper    Mapper
	delimiter string
	log       *zap.SugaredLogger

	// cache memoizes Mapper results per unique raw tag, including
	// fallbacks: a failed lookup is not repeated.
	cache map[string]string

	// LookupFailures counts mapping calls that failed and fell back to
	// the raw tag.
	LookupFailures int
}

// NewProcessor builds a Processor. A nil mapper means pass-through.
func NewProcessor(mapper Mapper, delimiter string, log *zap.SugaredLogger) *Processor {
	if mapper == nil {
		mapper = NoopMapper{}
	}
	if delimiter == "" {
		delimiter = ","
	}
	return &Processor{
		mapper:    mapper,
		delimiter: delimiter,
		log:       log,
		cache:     make(map[string]string),
	}
}

// Split cuts a raw tag field into trimmed, non-empty, case-insensitively
// deduplicated tokens. First-seen casing is preserved.
func (p *Processor) Split(rawField string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, token := range strings.Split(rawField, p.delimiter) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key := strings.ToLower(token)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, token)
	}
	return out
}

// Process cleans one constituent's raw tag field: split, trim, dedupe,
// remap, then dedupe again on the cleaned names.
func (p *Processor) Process(ctx context.Context, rawField string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, tag := range p.Split(rawField) {
		cleaned := p.mapTag(ctx, tag)
		key := strings.ToLower(cleaned)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, cleaned)
	}
	return out
}

// mapTag resolves one raw tag through the capability, falling back to the
// raw value on any failure.
func (p *Processor) mapTag(ctx context.Context, raw string) string {
	if cleaned, ok := p.cache[raw]; ok {
		return cleaned
	}

	cleaned, err := p.mapper.Map(ctx, raw)
	if err != nil {
		p.LookupFailures++
		if p.log != nil {
			p.log.Warnw("tag mapping unavailable, using raw tag", "tag", raw, "error", err)
		}
		cleaned = raw
	}
	p.cache[raw] = cleaned
	return cleaned
}

// Count aggregates global tag counts over constituents. Each constituent
// contributes at most once per tag regardless of raw occurrences. Results
// are ordered by count descending, then tag name ascending, so output is
// stable across runs.
func Count(constituents []model.Constituent) []model.TagCount {
	counts := make(map[string]int)
	display := make(map[string]string)

	for _, c := range constituents {
		for _, tag := range c.Tags {
			key := strings.ToLower(tag)
			if _, ok := display[key]; !ok {
				display[key] = tag
			}
			counts[key]++
		}
	}

	out := make([]model.TagCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, model.TagCount{Tag: display[key], Constituents: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Constituents != out[j].Constituents {
			return out[i].Constituents > out[j].Constituents
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
