package anonymizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileEmptyInput(t *testing.T) {
	assert.Empty(t, reconcile(nil))
	assert.Empty(t, reconcile([]Span{}))
}

func TestReconcileIdenticalSpansKeepHigherScore(t *testing.T) {
	spans := []Span{
		{Start: 48, End: 57, EntityType: "SSN", Score: 0.55},
		{Start: 48, End: 57, EntityType: "PHONE_NUMBER", Score: 0.95},
	}

	survivors := reconcile(spans)
	require.Len(t, survivors, 1)
	assert.Equal(t, "PHONE_NUMBER", survivors[0].EntityType)
}

func TestReconcileIdenticalSpansEqualScoreKeepOne(t *testing.T) {
	spans := []Span{
		{Start: 10, End: 20, EntityType: "A", Score: 0.8},
		{Start: 10, End: 20, EntityType: "B", Score: 0.8},
	}

	survivors := reconcile(spans)
	// Exactly one representative survives a fully-identical pair.
	require.Len(t, survivors, 1)
}

func TestReconcileContainedLowerScoreDropped(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 10, EntityType: "OUTER", Score: 0.9},
		{Start: 2, End: 6, EntityType: "INNER", Score: 0.5},
	}

	survivors := reconcile(spans)
	require.Len(t, survivors, 1)
	assert.Equal(t, "OUTER", survivors[0].EntityType)
}

func TestReconcileContainerWithLowerScoreDropped(t *testing.T) {
	// Containment prunes by score, not by width: a wide low-confidence
	// detection loses to a narrow high-confidence one inside it.
	spans := []Span{
		{Start: 0, End: 10, EntityType: "OUTER", Score: 0.5},
		{Start: 2, End: 6, EntityType: "INNER", Score: 0.9},
	}

	survivors := reconcile(spans)
	require.Len(t, survivors, 1)
	assert.Equal(t, "INNER", survivors[0].EntityType)
}

func TestReconcilePartialOverlapBothSurvive(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 6, EntityType: "A", Score: 0.9},
		{Start: 4, End: 10, EntityType: "B", Score: 0.2},
	}

	survivors := reconcile(spans)
	assert.Len(t, survivors, 2)
}

func TestReconcileTransitiveFixedPoint(t *testing.T) {
	// INNER is contained in MID, MID in OUTER. OUTER loses to MID on
	// score; INNER must then be re-judged against MID, not silently kept
	// because its first container disappeared.
	spans := []Span{
		{Start: 0, End: 20, EntityType: "OUTER", Score: 0.3},
		{Start: 2, End: 15, EntityType: "MID", Score: 0.8},
		{Start: 4, End: 10, EntityType: "INNER", Score: 0.5},
	}

	survivors := reconcile(spans)
	require.Len(t, survivors, 1)
	assert.Equal(t, "MID", survivors[0].EntityType)
}

func TestReconcileCascadingContainment(t *testing.T) {
	// Detector output with nested names, overlapping noise and a duplicate
	// range. High-score contained spans knock out their low-score
	// containers, which re-exposes other candidates.
	spans := []Span{
		{Start: 48, End: 57, Score: 0.55, EntityType: "SSN"},
		{Start: 24, End: 32, Score: 0.6, EntityType: "FULL_NAME"},
		{Start: 24, End: 28, Score: 0.9, EntityType: "FIRST_NAME"},
		{Start: 29, End: 32, Score: 0.6, EntityType: "LAST_NAME"},
		{Start: 24, End: 30, Score: 0.8, EntityType: "NAME"},
		{Start: 18, End: 32, Score: 0.8, EntityType: "BLA"},
		{Start: 23, End: 35, Score: 0.8, EntityType: "BLA"},
		{Start: 28, End: 36, Score: 0.8, EntityType: "BLA"},
		{Start: 48, End: 57, Score: 0.95, EntityType: "PHONE_NUMBER"},
	}

	survivors := reconcile(spans)
	require.Len(t, survivors, 3)
	assert.Equal(t, "FIRST_NAME", survivors[0].EntityType)
	assert.Equal(t, Span{Start: 28, End: 36, Score: 0.8, EntityType: "BLA"}, survivors[1])
	assert.Equal(t, "PHONE_NUMBER", survivors[2].EntityType)
}

func TestReconcileNoContainedPairRemains(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 30, Score: 0.1, EntityType: "A"},
		{Start: 5, End: 25, Score: 0.4, EntityType: "B"},
		{Start: 10, End: 20, Score: 0.2, EntityType: "C"},
		{Start: 15, End: 35, Score: 0.9, EntityType: "D"},
		{Start: 15, End: 35, Score: 0.9, EntityType: "E"},
	}

	survivors := reconcile(spans)
	for i, a := range survivors {
		for j, b := range survivors {
			if i == j {
				continue
			}
			assert.False(t, a.containedIn(b), "span %+v is contained in %+v", a, b)
		}
	}
}
