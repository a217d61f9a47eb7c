package models

import (
	"time"
)

// HorseType is the cosmetic marker variant assigned to a wish at creation.
type HorseType string

const (
	HorseRed   HorseType = "red"
	HorseGold  HorseType = "gold"
	HorseWhite HorseType = "white"
)

// Location is a latitude/longitude pair. The zero value marks a record
// that carries no coordinates.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// IsZero reports whether the location was never set.
func (l Location) IsZero() bool {
	return l.Lat == 0 && l.Lng == 0
}

// Wish is a user-authored entry pinned to a location.
//
// ID, Author, Location, CreatedAt and OwnerID are fixed at creation and
// never change on edit. Cheers only moves through atomic increments at
// the store. OwnerID may be empty for records written by mis-configured
// clients; such records are displayed but cannot be edited.
type Wish struct {
	ID        string    `bson:"-" json:"id"`
	Author    string    `bson:"author" json:"author"`
	Content   string    `bson:"content" json:"content"`
	Location  Location  `bson:"location" json:"location"`
	Cheers    int64     `bson:"cheers" json:"cheers"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	OwnerID   string    `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	Fortune   string    `bson:"fortune,omitempty" json:"fortune,omitempty"`
	HorseType HorseType `bson:"horse_type,omitempty" json:"horse_type,omitempty"`
}

// OwnedBy reports whether the identity may edit or delete this wish.
func (w *Wish) OwnedBy(ident *Identity) bool {
	if ident == nil || w.OwnerID == "" {
		return false
	}
	return w.OwnerID == ident.UID
}
