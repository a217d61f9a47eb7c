// Package ranking imposes the authoritative display order on record
// snapshots. The store's own ordering is treated as an unreliable hint;
// every snapshot is re-sorted here into a deterministic total order so
// repeated renders of the same data never jitter.
package ranking

import (
	"sort"
	"strconv"

	"github.com/ranihwanifactory/2026newyear/internal/models"
)

// Mode selects the ranking policy.
type Mode int

const (
	ByRecency Mode = iota
	ByPopularity
)

// ParseMode maps a configuration string onto a ranking mode. Unknown
// values fall back to recency.
func ParseMode(s string) Mode {
	switch s {
	case "popularity", "cheers":
		return ByPopularity
	default:
		return ByRecency
	}
}

// Sort returns a freshly ordered copy of wishes; the input is never
// mutated. Missing timestamps and counters sort as zero.
func Sort(wishes []models.Wish, mode Mode) []models.Wish {
	out := make([]models.Wish, len(wishes))
	copy(out, wishes)

	less := lessByRecency
	if mode == ByPopularity {
		less = lessByPopularity
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// lessByRecency orders newest first; ties break on ID so equal timestamps
// still have one fixed relative order.
func lessByRecency(a, b models.Wish) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// lessByPopularity orders most-cheered first; ties break newest first,
// then on ID.
func lessByPopularity(a, b models.Wish) bool {
	if a.Cheers != b.Cheers {
		return a.Cheers > b.Cheers
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortComments orders a wish's comments oldest first, ties on ID.
func SortComments(comments []models.Comment) []models.Comment {
	out := make([]models.Comment, len(comments))
	copy(out, comments)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BadgeKind distinguishes how a popularity rank is decorated.
type BadgeKind int

const (
	BadgeTop BadgeKind = iota
	BadgeSecondary
	BadgePlain
)

// Badge is the rank decoration shown next to a wish in popularity mode.
type Badge struct {
	Kind  BadgeKind
	Label string
}

// RankBadge decorates a zero-based popularity rank: the leader gets the
// top badge, ranks 1 and 2 the secondary badge, the rest a plain number.
func RankBadge(rank int) Badge {
	label := strconv.Itoa(rank + 1)
	switch {
	case rank == 0:
		return Badge{Kind: BadgeTop, Label: label}
	case rank <= 2:
		return Badge{Kind: BadgeSecondary, Label: label}
	default:
		return Badge{Kind: BadgePlain, Label: label}
	}
}
