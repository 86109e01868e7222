package services

import (
	"math"
	"strconv"
	"strings"

	"posts-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageLimit = 10
	DefaultMaxLimit  = 100
)

// ParseID parses the 24 character hex form of an identifier.
func ParseID(field, raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return primitive.NilObjectID, invalid(field, "is required")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, invalid(field, "is not a valid id")
	}
	return id, nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// ValidateCreateUser checks that every field of req is present.
func ValidateCreateUser(req models.CreateUserRequest) error {
	if err := required("firstName", req.FirstName); err != nil {
		return err
	}
	if err := required("lastName", req.LastName); err != nil {
		return err
	}
	return required("email", req.Email)
}

// ValidateCreatePost checks that every field of req is present and returns
// the parsed user id.
func ValidateCreatePost(req models.CreatePostRequest) (primitive.ObjectID, error) {
	for _, f := range []struct{ name, value string }{
		{"title", req.Title},
		{"description", req.Description},
		{"photo", req.Photo},
	} {
		if err := required(f.name, f.value); err != nil {
			return primitive.NilObjectID, err
		}
	}
	return ParseID("userId", req.UserID)
}

// ValidateUpdatePost turns a partial update into a PostPatch. Fields that are
// sent must not be blank.
func ValidateUpdatePost(req models.UpdatePostRequest) (models.PostPatch, error) {
	patch := models.PostPatch{
		Title:       req.Title,
		Description: req.Description,
		Photo:       req.Photo,
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"title", req.Title},
		{"description", req.Description},
		{"photo", req.Photo},
	} {
		if f.value != nil {
			if err := required(f.name, *f.value); err != nil {
				return models.PostPatch{}, err
			}
		}
	}
	if req.UserID != nil {
		id, err := ParseID("userId", *req.UserID)
		if err != nil {
			return models.PostPatch{}, err
		}
		patch.UserID = &id
	}
	return patch, nil
}

// ListParams are the raw query string values of GET /posts.
type ListParams struct {
	SortBy string
	Order  string
	Page   string
	Limit  string
	Min    string
	Max    string
}

// ParseListParams validates p. page must be >= 1 and limit must be in
// [1, maxLimit]; both are rejected rather than clamped.
func ParseListParams(p ListParams, maxLimit int64) (models.PostQuery, error) {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	q := models.PostQuery{
		SortBy: models.SortByCreatedAt,
		Page:   1,
		Limit:  DefaultPageLimit,
	}

	if p.SortBy != "" {
		if !isSortField(p.SortBy) {
			return q, invalid("sortBy", "must be one of "+strings.Join(models.PostSortFields, ", "))
		}
		q.SortBy = p.SortBy
	}

	switch strings.ToLower(p.Order) {
	case "", "asc":
	case "desc":
		q.Descending = true
	default:
		return q, invalid("order", "must be asc or desc")
	}

	if p.Page != "" {
		page, err := strconv.ParseInt(p.Page, 10, 64)
		if err != nil || page < 1 {
			return q, invalid("page", "must be a positive integer")
		}
		q.Page = page
	}

	if p.Limit != "" {
		limit, err := strconv.ParseInt(p.Limit, 10, 64)
		if err != nil || limit < 1 || limit > maxLimit {
			return q, invalid("limit", "must be an integer between 1 and "+strconv.FormatInt(maxLimit, 10))
		}
		q.Limit = limit
	}
	// (page-1)*limit must fit in an int64 offset.
	if q.Page-1 > math.MaxInt64/q.Limit {
		return q, invalid("page", "is too large for the given limit")
	}

	var err error
	if q.Min, err = parseBound("min", p.Min); err != nil {
		return q, err
	}
	if q.Max, err = parseBound("max", p.Max); err != nil {
		return q, err
	}
	return q, nil
}

func parseBound(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, invalid(field, "must be a number")
	}
	return &v, nil
}

func isSortField(field string) bool {
	for _, f := range models.PostSortFields {
		if f == field {
			return true
		}
	}
	return false
}
