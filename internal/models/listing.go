package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Sort keys accepted by GET /posts.
const (
	SortByID          = "id"
	SortByTitle       = "title"
	SortByDescription = "description"
	SortByPhoto       = "photo"
	SortByUserID      = "userId"
	SortByCreatedAt   = "createdAt"
	SortByUpdatedAt   = "updatedAt"
)

var PostSortFields = []string{
	SortByCreatedAt,
	SortByUpdatedAt,
	SortByTitle,
	SortByDescription,
	SortByPhoto,
	SortByUserID,
	SortByID,
}

// PostQuery is a parsed and validated listing request.
type PostQuery struct {
	SortBy     string
	Descending bool
	Page       int64
	Limit      int64
	// Min and Max bound the numeric value of Post.Description.
	Min *float64
	Max *float64
}

func (q PostQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

func (q PostQuery) HasRange() bool {
	return q.Min != nil || q.Max != nil
}

// InRange reports whether a numeric description satisfies the bounds.
func (q PostQuery) InRange(v float64) bool {
	if q.Min != nil && v < *q.Min {
		return false
	}
	if q.Max != nil && v > *q.Max {
		return false
	}
	return true
}

// UserDetails is the projection of the owning user attached to a listed post.
// All fields are empty when the referenced user does not exist.
type UserDetails struct {
	FirstName string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
}

type PostWithUser struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Photo       string             `bson:"photo" json:"photo"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	UserDetails UserDetails        `bson:"user_details" json:"user_details"`
}

type PostPage struct {
	Posts       []PostWithUser `json:"posts"`
	TotalPosts  int64          `json:"totalPosts"`
	TotalPages  int64          `json:"totalPages"`
	CurrentPage int64          `json:"currentPage"`
}
