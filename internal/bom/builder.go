// =============================================================================
// BOM Structure Converter - Hierarchy Builder
// =============================================================================
//
// The export encodes the assembly tree as an ordered sequence of leveled
// rows. The builder reconstructs explicit parent-child links with a single
// forward pass over the rows and one monotonic stack of open ancestors:
//
//   for each row:
//     pop frames while top.level >= row.level
//     parent = surviving top (if any)
//     push the row as a candidate ancestor
//
// Each frame is pushed and popped at most once, so the pass is O(n)
// amortized. The stack is level-monotonic increasing from bottom to top at
// every point in processing.
//
// =============================================================================

package bom

// stackFrame is a currently-open ancestor candidate: the level it appeared
// at and its clean code.
type stackFrame struct {
	level int
	code  string
}

// HierarchyBuilder turns an ordered row sequence into relationship records.
// One builder owns exactly one stack; construct a fresh builder per run.
type HierarchyBuilder struct {
	normalizer *CodeNormalizer
	stack      []stackFrame
}

// NewHierarchyBuilder creates a builder over the given normalizer.
func NewHierarchyBuilder(normalizer *CodeNormalizer) *HierarchyBuilder {
	return &HierarchyBuilder{normalizer: normalizer}
}

// Build consumes the rows in input order and returns the relationships they
// encode, in emission order and not yet deduplicated.
//
// Rows carrying the ignore marker, or whose code cleans to empty, are
// skipped entirely: no relationship, no stack mutation, not even as a
// potential ancestor. Consecutive rows at the same level never pair with
// each other, and level jumps wider than one step attach to the nearest
// surviving shallower ancestor.
func (b *HierarchyBuilder) Build(rows []RawRow) []Relationship {
	relationships := make([]Relationship, 0, len(rows))

	for _, row := range rows {
		if b.normalizer.IsExcluded(row.RawCode) {
			continue
		}
		cleanCode := b.normalizer.Normalize(row.RawCode)
		if cleanCode == "" {
			continue
		}

		// Close every ancestor at or below this row's depth.
		for len(b.stack) > 0 && b.stack[len(b.stack)-1].level >= row.Level {
			b.stack = b.stack[:len(b.stack)-1]
		}

		if len(b.stack) > 0 {
			parent := b.stack[len(b.stack)-1]
			relationships = append(relationships, Relationship{
				Parent:      parent.code,
				Child:       cleanCode,
				Quantity:    row.Quantity,
				LossPercent: row.LossPercent,
			})
		}

		// Every accepted row is a candidate ancestor for deeper rows,
		// whether or not it produced a relationship.
		b.stack = append(b.stack, stackFrame{level: row.Level, code: cleanCode})
	}

	return relationships
}
