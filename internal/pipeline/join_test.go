package pipeline

import (
	"testing"

	"schooldash/domain/school"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_LeftOuter(t *testing.T) {
	schools := []school.SchoolRecord{{Name: "A", Total: 100}, {Name: "B", Total: 200}, {Name: "C", Total: 300}}
	frpl := []school.FrplRecord{
		{Name: "A", FrplPct: ptr(80.0)},
		{Name: "B", FrplPct: nil},
		{Name: "Z", FrplPct: ptr(99.0)},
	}

	joined := Join(schools, frpl)
	require.Len(t, joined, 3, "one row per school regardless of match")

	assert.Equal(t, "A", joined[0].Name)
	assert.Equal(t, 80.0, *joined[0].FrplPct)
	assert.True(t, *joined[0].HighPoverty)

	assert.Nil(t, joined[1].FrplPct, "matched row with null pct")
	assert.Nil(t, joined[1].HighPoverty)

	assert.Nil(t, joined[2].FrplPct, "unmatched school")
	assert.Nil(t, joined[2].HighPoverty)
}

func TestJoin_ThresholdBoundary(t *testing.T) {
	schools := []school.SchoolRecord{{Name: "at"}, {Name: "above"}, {Name: "below"}}
	frpl := []school.FrplRecord{
		{Name: "at", FrplPct: ptr(75.0)},
		{Name: "above", FrplPct: ptr(75.5)},
		{Name: "below", FrplPct: ptr(12.0)},
	}
	joined := Join(schools, frpl)
	assert.False(t, *joined[0].HighPoverty, "75.0 is not high poverty")
	assert.True(t, *joined[1].HighPoverty)
	assert.False(t, *joined[2].HighPoverty)
}

func TestJoin_ExactMatchOnly(t *testing.T) {
	joined := Join(
		[]school.SchoolRecord{{Name: "Lincoln"}},
		[]school.FrplRecord{{Name: "lincoln", FrplPct: ptr(90.0)}, {Name: "Lincoln ", FrplPct: ptr(90.0)}},
	)
	assert.Nil(t, joined[0].FrplPct)
}

func TestJoin_DuplicateFrplFirstWins(t *testing.T) {
	frpl := []school.FrplRecord{{Name: "A", FrplPct: ptr(10.0)}, {Name: "A", FrplPct: ptr(90.0)}}
	joined := Join([]school.SchoolRecord{{Name: "A"}}, frpl)
	require.Len(t, joined, 1)
	assert.Equal(t, 10.0, *joined[0].FrplPct)
	assert.Equal(t, []string{"A"}, DuplicateFrplNames(frpl))
}

func TestJoin_DoesNotAliasInput(t *testing.T) {
	pct := 80.0
	frpl := []school.FrplRecord{{Name: "A", FrplPct: &pct}}
	joined := Join([]school.SchoolRecord{{Name: "A"}}, frpl)
	pct = 10
	assert.Equal(t, 80.0, *joined[0].FrplPct)
}
