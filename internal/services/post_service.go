package services

import (
	"context"
	"strings"
	"time"

	"posts-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStore is the part of db.Store used by PostService.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ListPosts(ctx context.Context, q models.PostQuery) ([]models.PostWithUser, error)
	CountPosts(ctx context.Context, q models.PostQuery) (int64, error)
}

type PostService struct {
	store    PostStore
	maxLimit int64
	now      func() time.Time
}

func NewPostService(store PostStore, maxLimit int64) *PostService {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return &PostService{store: store, maxLimit: maxLimit, now: now}
}

// Create inserts a post. The referenced user is not required to exist.
func (s *PostService) Create(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	userID, err := ValidateCreatePost(req)
	if err != nil {
		return nil, err
	}

	ts := s.now()
	post := &models.Post{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Photo:       strings.TrimSpace(req.Photo),
		UserID:      userID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, storeErr("create_post", err, nil, nil)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, rawID string) (*models.Post, error) {
	id, err := ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, storeErr("get_post", err, postNotFound(id), nil)
	}
	return post, nil
}

// List returns one page of posts enriched with their users. totalPosts
// counts every post matching the filter regardless of the page.
func (s *PostService) List(ctx context.Context, params ListParams) (*models.PostPage, error) {
	q, err := ParseListParams(params, s.maxLimit)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListPosts(ctx, q)
	if err != nil {
		return nil, storeErr("list_posts", err, nil, nil)
	}
	total, err := s.store.CountPosts(ctx, q)
	if err != nil {
		return nil, storeErr("count_posts", err, nil, nil)
	}
	if posts == nil {
		posts = []models.PostWithUser{}
	}

	return &models.PostPage{
		Posts:       posts,
		TotalPosts:  total,
		TotalPages:  TotalPages(total, q.Limit),
		CurrentPage: q.Page,
	}, nil
}

// Update applies a partial update and returns the post as stored afterwards.
func (s *PostService) Update(ctx context.Context, rawID string, req models.UpdatePostRequest) (*models.Post, error) {
	id, err := ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	patch, err := ValidateUpdatePost(req)
	if err != nil {
		return nil, err
	}
	patch = trimPatch(patch)
	patch.UpdatedAt = s.now()

	post, err := s.store.UpdatePost(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update_post", err, postNotFound(id), nil)
	}
	return post, nil
}

// Delete removes a post and returns its last stored values.
func (s *PostService) Delete(ctx context.Context, rawID string) (*models.Post, error) {
	id, err := ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	post, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return nil, storeErr("delete_post", err, postNotFound(id), nil)
	}
	return post, nil
}

// TotalPages is ceil(total/limit). limit is always >= 1 after validation.
func TotalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func postNotFound(id primitive.ObjectID) *NotFoundError {
	return &NotFoundError{Entity: "Post", ID: id.Hex()}
}

func trimPatch(p models.PostPatch) models.PostPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	p.Title = trim(p.Title)
	p.Description = trim(p.Description)
	p.Photo = trim(p.Photo)
	return p
}
