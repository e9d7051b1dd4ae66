package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a user-authored content item. CreatorID is the stored reference;
// Creator is populated on reads and never written back.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	CreatorID primitive.ObjectID `bson:"creator" json:"-"`
	Creator   *PublicCreator     `bson:"-" json:"creator,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
