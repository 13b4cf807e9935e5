package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *HierarchyBuilder {
	return NewHierarchyBuilder(NewCodeNormalizer(nil))
}

func TestBuildSimpleTree(t *testing.T) {
	rows := []RawRow{
		{Level: 0, RawCode: "OLG1", Description: "Root", Quantity: 1},
		{Level: 1, RawCode: "OL-X1", Description: "Part X", Quantity: 2, LossPercent: 5},
		{Level: 2, RawCode: "OL-Y1", Description: "Part Y", Quantity: 3},
		{Level: 1, RawCode: "OL-X2", Description: "Part X2", Quantity: 1},
	}

	relationships := newTestBuilder().Build(rows)

	require.Len(t, relationships, 3)
	assert.Equal(t, Relationship{Parent: "G1", Child: "X1", Quantity: 2, LossPercent: 5}, relationships[0])
	assert.Equal(t, Relationship{Parent: "X1", Child: "Y1", Quantity: 3}, relationships[1])
	assert.Equal(t, Relationship{Parent: "G1", Child: "X2", Quantity: 1}, relationships[2])
}

func TestBuildRootProducesNoRelationship(t *testing.T) {
	relationships := newTestBuilder().Build([]RawRow{
		{Level: 0, RawCode: "OLG1", Description: "Root"},
	})
	assert.Empty(t, relationships)
}

func TestBuildSiblingsNeverPair(t *testing.T) {
	rows := []RawRow{
		{Level: 0, RawCode: "A", Description: "a"},
		{Level: 1, RawCode: "B", Description: "b"},
		{Level: 1, RawCode: "C", Description: "c"},
	}

	relationships := newTestBuilder().Build(rows)

	require.Len(t, relationships, 2)
	assert.Equal(t, "A", relationships[0].Parent)
	assert.Equal(t, "B", relationships[0].Child)
	assert.Equal(t, "A", relationships[1].Parent)
	assert.Equal(t, "C", relationships[1].Child)
}

func TestBuildLevelSkipTolerated(t *testing.T) {
	// A jump wider than one step attaches to the nearest surviving
	// shallower ancestor.
	rows := []RawRow{
		{Level: 0, RawCode: "A", Description: "a"},
		{Level: 2, RawCode: "B", Description: "b"},
		{Level: 2, RawCode: "C", Description: "c"},
	}

	relationships := newTestBuilder().Build(rows)

	require.Len(t, relationships, 2)
	assert.Equal(t, Relationship{Parent: "A", Child: "B"}, relationships[0])
	assert.Equal(t, Relationship{Parent: "A", Child: "C"}, relationships[1])
}

func TestBuildExcludedRowsTouchNothing(t *testing.T) {
	// A row with the ignore marker must not appear as parent or child, and
	// must not open an ancestor frame either: its would-be children attach
	// to the nearest surviving ancestor above it.
	rows := []RawRow{
		{Level: 0, RawCode: "A", Description: "a"},
		{Level: 1, RawCode: "B^", Description: "ignored"},
		{Level: 2, RawCode: "C", Description: "c"},
	}

	relationships := newTestBuilder().Build(rows)

	require.Len(t, relationships, 1)
	assert.Equal(t, Relationship{Parent: "A", Child: "C"}, relationships[0])
	for _, rel := range relationships {
		assert.NotContains(t, rel.Parent, "B")
		assert.NotContains(t, rel.Child, "B")
	}
}

func TestBuildEmptyCleanCodeSkipped(t *testing.T) {
	rows := []RawRow{
		{Level: 0, RawCode: "A", Description: "a"},
		{Level: 1, RawCode: " - ", Description: "blank after cleaning"},
		{Level: 1, RawCode: "C", Description: "c"},
	}

	relationships := newTestBuilder().Build(rows)

	require.Len(t, relationships, 1)
	assert.Equal(t, Relationship{Parent: "A", Child: "C"}, relationships[0])
}

func TestBuildForest(t *testing.T) {
	// Two independent roots in one export.
	rows := []RawRow{
		{Level: 0, RawCode: "A", Description: "a"},
		{Level: 1, RawCode: "B", Description: "b"},
		{Level: 0, RawCode: "D", Description: "d"},
		{Level: 1, RawCode: "E", Description: "e"},
	}

	relationships := newTestBuilder().Build(rows)

	require.Len(t, relationships, 2)
	assert.Equal(t, Relationship{Parent: "A", Child: "B"}, relationships[0])
	assert.Equal(t, Relationship{Parent: "D", Child: "E"}, relationships[1])
}

func TestBuildChildNeverShallowerThanParent(t *testing.T) {
	rows := []RawRow{
		{Level: 0, RawCode: "A", Description: "a"},
		{Level: 1, RawCode: "B", Description: "b"},
		{Level: 3, RawCode: "C", Description: "c"},
		{Level: 2, RawCode: "D", Description: "d"},
		{Level: 1, RawCode: "E", Description: "e"},
		{Level: 4, RawCode: "F", Description: "f"},
	}

	levels := map[string]int{"A": 0, "B": 1, "C": 3, "D": 2, "E": 1, "F": 4}
	for _, rel := range newTestBuilder().Build(rows) {
		assert.Greater(t, levels[rel.Child], levels[rel.Parent],
			"relationship %s -> %s inverts levels", rel.Parent, rel.Child)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	assert.Empty(t, newTestBuilder().Build(nil))
}
