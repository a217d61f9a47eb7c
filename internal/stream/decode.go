package stream

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ranihwanifactory/2026newyear/internal/models"
	"github.com/ranihwanifactory/2026newyear/internal/store"
)

// DecodeWish merges a raw document and its identifier into a Wish.
// Missing numeric fields decode to zero rather than failing.
func DecodeWish(doc store.Document) (models.Wish, error) {
	var wish models.Wish
	if err := bson.Unmarshal(doc.Data, &wish); err != nil {
		return models.Wish{}, fmt.Errorf("failed to decode wish %s: %v", doc.ID, err)
	}
	wish.ID = doc.ID
	return wish, nil
}

// DecodeComment merges a raw document and its identifier into a Comment.
func DecodeComment(doc store.Document) (models.Comment, error) {
	var comment models.Comment
	if err := bson.Unmarshal(doc.Data, &comment); err != nil {
		return models.Comment{}, fmt.Errorf("failed to decode comment %s: %v", doc.ID, err)
	}
	comment.ID = doc.ID
	return comment, nil
}
