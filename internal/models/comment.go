package models

import (
	"time"
)

// Comment is feedback attached to exactly one wish. WishID and CreatedAt
// are immutable; only the owner may edit Content or delete the record.
type Comment struct {
	ID        string    `bson:"-" json:"id"`
	WishID    string    `bson:"wish_id" json:"wish_id"`
	OwnerID   string    `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	Author    string    `bson:"author" json:"author"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// OwnedBy reports whether the identity may edit or delete this comment.
func (c *Comment) OwnedBy(ident *Identity) bool {
	if ident == nil || c.OwnerID == "" {
		return false
	}
	return c.OwnerID == ident.UID
}
