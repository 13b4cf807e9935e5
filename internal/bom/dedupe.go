package bom

// maxDuplicateSamples bounds how many dropped duplicates are kept for the
// report.
const maxDuplicateSamples = 10

// DedupeResult is the outcome of deduplicating a relationship sequence.
type DedupeResult struct {
	// Relationships are the survivors, in first-seen order. Ordering is
	// deliberately not a re-sort: the report generator expects stable
	// diagnostics ordering across identical inputs.
	Relationships []Relationship

	// DroppedCount is the number of discarded later occurrences.
	DroppedCount int

	// Samples holds up to maxDuplicateSamples of the dropped entries.
	Samples []Relationship
}

// Dedupe removes duplicate parent-child pairs, keyed case-insensitively on
// the (parent, child) identity. The first occurrence wins; later duplicates
// are dropped silently but counted. Quantities are not merged.
func Dedupe(relationships []Relationship) DedupeResult {
	type edgeKey struct {
		parent string
		child  string
	}

	seen := make(map[edgeKey]struct{}, len(relationships))
	result := DedupeResult{
		Relationships: make([]Relationship, 0, len(relationships)),
	}

	for _, rel := range relationships {
		key := edgeKey{parent: foldKey(rel.Parent), child: foldKey(rel.Child)}
		if _, dup := seen[key]; dup {
			result.DroppedCount++
			if len(result.Samples) < maxDuplicateSamples {
				result.Samples = append(result.Samples, rel)
			}
			continue
		}
		seen[key] = struct{}{}
		result.Relationships = append(result.Relationships, rel)
	}

	return result
}
