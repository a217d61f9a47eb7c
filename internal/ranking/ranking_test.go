package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranihwanifactory/2026newyear/internal/models"
)

func wish(id string, cheers int64, createdAt time.Time) models.Wish {
	return models.Wish{ID: id, Cheers: cheers, CreatedAt: createdAt}
}

func ids(wishes []models.Wish) []string {
	out := make([]string, len(wishes))
	for i, w := range wishes {
		out[i] = w.ID
	}
	return out
}

func TestSortRecencyNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Wish{
		wish("a", 0, base.Add(1*time.Hour)),
		wish("b", 0, base.Add(3*time.Hour)),
		wish("c", 0, base.Add(2*time.Hour)),
	}

	got := Sort(input, ByRecency)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestSortRecencyTieBreaksOnID(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Wish{
		wish("z", 0, at),
		wish("a", 0, at),
		wish("m", 0, at),
	}

	got := Sort(input, ByRecency)
	assert.Equal(t, []string{"a", "m", "z"}, ids(got))
}

func TestSortPopularityIdempotent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Wish{
		wish("a", 5, base.Add(2*time.Hour)),
		wish("b", 9, base.Add(1*time.Hour)),
		wish("c", 5, base.Add(3*time.Hour)),
		wish("d", 0, base),
		wish("e", 9, base.Add(4*time.Hour)),
	}

	once := Sort(input, ByPopularity)
	twice := Sort(once, ByPopularity)
	assert.Equal(t, once, twice)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Wish{
		wish("a", 1, base.Add(1*time.Hour)),
		wish("b", 7, base.Add(2*time.Hour)),
	}
	before := ids(input)

	Sort(input, ByPopularity)
	Sort(input, ByRecency)
	assert.Equal(t, before, ids(input))
}

func TestSortPopularityTieBreaksNewerFirst(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(1 * time.Hour)
	t3 := t1.Add(2 * time.Hour)
	input := []models.Wish{
		wish("older-five", 5, t1),
		wish("two-cheers", 2, t3),
		wish("newer-five", 5, t2),
	}

	got := Sort(input, ByPopularity)
	assert.Equal(t, []string{"newer-five", "older-five", "two-cheers"}, ids(got))
}

func TestSortPopularityFullTieBreaksOnID(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Wish{
		wish("b", 3, at),
		wish("a", 3, at),
	}

	got := Sort(input, ByPopularity)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestSortMissingFieldsRankLowest(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Wish{
		{ID: "no-fields"}, // zero cheers, zero timestamp
		wish("cheered", 1, base),
		wish("recent", 0, base),
	}

	byPopularity := Sort(input, ByPopularity)
	assert.Equal(t, "cheered", byPopularity[0].ID)
	assert.Equal(t, "no-fields", byPopularity[2].ID)

	byRecency := Sort(input, ByRecency)
	assert.Equal(t, "no-fields", byRecency[2].ID)
}

func TestSortEmptyInput(t *testing.T) {
	got := Sort(nil, ByPopularity)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSortComments(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []models.Comment{
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", CreatedAt: base},
		{ID: "a", CreatedAt: base},
	}

	got := SortComments(input)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestRankBadge(t *testing.T) {
	assert.Equal(t, Badge{Kind: BadgeTop, Label: "1"}, RankBadge(0))
	assert.Equal(t, Badge{Kind: BadgeSecondary, Label: "2"}, RankBadge(1))
	assert.Equal(t, Badge{Kind: BadgeSecondary, Label: "3"}, RankBadge(2))
	assert.Equal(t, Badge{Kind: BadgePlain, Label: "4"}, RankBadge(3))
	assert.Equal(t, Badge{Kind: BadgePlain, Label: "10"}, RankBadge(9))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ByPopularity, ParseMode("popularity"))
	assert.Equal(t, ByPopularity, ParseMode("cheers"))
	assert.Equal(t, ByRecency, ParseMode("recency"))
	assert.Equal(t, ByRecency, ParseMode(""))
	assert.Equal(t, ByRecency, ParseMode("whatever"))
}
