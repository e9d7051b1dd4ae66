package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultStatus is assigned at signup and shown until the user changes it.
const DefaultStatus = "I am new!"

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash and is never serialized into responses.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	Name      string               `bson:"name" json:"name"`
	Status    string               `bson:"status" json:"status"`
	Posts     []primitive.ObjectID `bson:"posts" json:"posts"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PublicCreator is the abbreviated owner view embedded in post responses.
type PublicCreator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (u *User) Public() PublicCreator {
	return PublicCreator{ID: u.ID.Hex(), Name: u.Name}
}
