package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ranihwanifactory/2026newyear/internal/board"
	"github.com/ranihwanifactory/2026newyear/internal/ranking"
)

// TopWishesDigest periodically logs the most-cheered wishes currently on
// the board.
type TopWishesDigest struct {
	Board *board.Board
	Size  int
}

func NewTopWishesDigest(b *board.Board) *TopWishesDigest {
	return &TopWishesDigest{Board: b, Size: 3}
}

func (d *TopWishesDigest) Run(_ context.Context) error {
	view := d.Board.View()
	if len(view.Wishes) == 0 {
		logrus.Info("Digest: no wishes on the board yet")
		return nil
	}

	top := ranking.Sort(view.Wishes, ranking.ByPopularity)
	if len(top) > d.Size {
		top = top[:d.Size]
	}
	for i, wish := range top {
		badge := ranking.RankBadge(i)
		logrus.WithFields(logrus.Fields{
			"rank":    badge.Label,
			"cheers":  wish.Cheers,
			"author":  wish.Author,
			"content": wish.Content,
		}).Info("Top wish")
	}
	return nil
}
