package db

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"posts-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is a process-local Store with the same join, filter and paging
// semantics as the database-backed stores.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
	posts map[primitive.ObjectID]models.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[primitive.ObjectID]models.User),
		posts: make(map[primitive.ObjectID]models.Post),
	}
}

func (s *MemoryStore) Ping(context.Context) error         { return nil }
func (s *MemoryStore) EnsureSchema(context.Context) error { return nil }
func (s *MemoryStore) Close(context.Context) error        { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return ErrDuplicateKey
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicateKey
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; ok {
		return ErrDuplicateKey
	}
	s.posts[post.ID] = *post
	return nil
}

func (s *MemoryStore) GetPost(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = patch.Apply(p)
	s.posts[id] = p
	return &p, nil
}

func (s *MemoryStore) DeletePost(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.posts, id)
	return &p, nil
}

func (s *MemoryStore) ListPosts(_ context.Context, q models.PostQuery) ([]models.PostWithUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterPosts(q)
	slices.SortFunc(matched, func(a, b models.Post) int {
		c := comparePosts(a, b, q.SortBy)
		if c == 0 && q.SortBy != models.SortByID {
			c = bytes.Compare(a.ID[:], b.ID[:])
		}
		if q.Descending {
			return -c
		}
		return c
	})

	start := min(q.Skip(), int64(len(matched)))
	end := min(start+q.Limit, int64(len(matched)))

	page := make([]models.PostWithUser, 0, end-start)
	for _, p := range matched[start:end] {
		item := models.PostWithUser{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Photo:       p.Photo,
			UserID:      p.UserID,
		}
		if u, ok := s.users[p.UserID]; ok {
			item.UserDetails = models.UserDetails{
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Email:     u.Email,
			}
		}
		page = append(page, item)
	}
	return page, nil
}

func (s *MemoryStore) CountPosts(_ context.Context, q models.PostQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filterPosts(q))), nil
}

// filterPosts must be called with s.mu held.
func (s *MemoryStore) filterPosts(q models.PostQuery) []models.Post {
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if q.HasRange() {
			v, ok := descriptionNumber(p.Description)
			if !ok || !q.InRange(v) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func descriptionNumber(description string) (float64, bool) {
	if !numericDescription.MatchString(description) {
		return 0, false
	}
	v, err := strconv.ParseFloat(description, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func comparePosts(a, b models.Post, field string) int {
	switch field {
	case models.SortByID:
		return bytes.Compare(a.ID[:], b.ID[:])
	case models.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case models.SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case models.SortByPhoto:
		return strings.Compare(a.Photo, b.Photo)
	case models.SortByUserID:
		return bytes.Compare(a.UserID[:], b.UserID[:])
	case models.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return cmp.Compare(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	}
}
