package services

import (
	"context"
	"strings"
	"time"

	"posts-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the part of db.Store used by UserService.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type UserService struct {
	store UserStore
	now   func() time.Time
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, now: now}
}

// Create validates req and inserts a new user. A taken email yields a
// DuplicateKeyError.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := ValidateCreateUser(req); err != nil {
		return nil, err
	}

	ts := s.now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, storeErr("create_user", err, nil, &DuplicateKeyError{Field: "email", Value: user.Email})
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, rawID string) (*models.User, error) {
	id, err := ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, storeErr("get_user", err, &NotFoundError{Entity: "User", ID: id.Hex()}, nil)
	}
	return user, nil
}

// now truncates to milliseconds, the precision of BSON datetimes, so a
// returned record equals what a later read yields.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
