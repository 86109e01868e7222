package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"posts-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// numericPattern matches descriptions that are plain decimal numbers. Only
// those take part in min/max range filtering. Digit runs are bounded (255 is
// the PostgreSQL regex repetition limit) so a match always casts to numeric.
const numericPattern = `^[-+]?([0-9]{1,255}(\.[0-9]{0,255})?|\.[0-9]{1,255})([eE][-+]?[0-9]{1,3})?$`

// maxFloat64Literal is math.MaxFloat64. Numbers beyond it do not convert to a
// double and are excluded from range filtering by every driver.
const maxFloat64Literal = "1.7976931348623157e308"

var numericDescription = regexp.MustCompile(numericPattern)

// Store is the data access layer shared by every driver.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// ListPosts returns one page of posts joined with their users.
	ListPosts(ctx context.Context, q models.PostQuery) ([]models.PostWithUser, error)
	// CountPosts counts posts matching the filter of q, ignoring paging.
	CountPosts(ctx context.Context, q models.PostQuery) (int64, error)

	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Options struct {
	Driver         string
	MongoURI       string
	MongoDatabase  string
	PostgresURL    string
	ConnectTimeout time.Duration
}

// Open creates the store for opts.Driver. An unreachable server is logged and
// the store is still returned, so requests fail one by one until it recovers.
func Open(ctx context.Context, opts Options) (Store, error) {
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var (
		store Store
		err   error
	)
	switch opts.Driver {
	case DriverMongo, "":
		store, err = ConnectMongo(ctx, opts.MongoURI, opts.MongoDatabase, timeout)
	case DriverPostgres:
		store, err = ConnectPostgres(ctx, opts.PostgresURL)
	case DriverMemory:
		log.Println("Using in-memory store")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := store.Ping(pingCtx); err != nil {
		log.Printf("Error connecting to %s store, continuing without it: %v", opts.Driver, err)
		return store, nil
	}
	if err := store.EnsureSchema(pingCtx); err != nil {
		log.Printf("Warning: failed to ensure %s schema: %v", opts.Driver, err)
	}

	log.Printf("Connected to %s store", opts.Driver)
	return store, nil
}
