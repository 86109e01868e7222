package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post references its author through UserID. The reference is not enforced:
// a post may point at a user that does not exist.
type Post struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Photo       string             `bson:"photo" json:"photo"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
	UserID      string `json:"userId"`
}

// UpdatePostRequest carries a partial update. Nil fields are left untouched.
type UpdatePostRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Photo       *string `json:"photo"`
	UserID      *string `json:"userId"`
}

// PostPatch is a validated UpdatePostRequest ready for the store.
type PostPatch struct {
	Title       *string
	Description *string
	Photo       *string
	UserID      *primitive.ObjectID
	UpdatedAt   time.Time
}

// Apply returns a copy of p with the patch fields set.
func (pp PostPatch) Apply(p Post) Post {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Photo != nil {
		p.Photo = *pp.Photo
	}
	if pp.UserID != nil {
		p.UserID = *pp.UserID
	}
	p.UpdatedAt = pp.UpdatedAt
	return p
}
