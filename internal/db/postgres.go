package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"posts-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         CHAR(24) PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id          CHAR(24) PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		photo       TEXT NOT NULL,
		user_id     CHAR(24) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS posts_user_id_idx ON posts (user_id)`,
}

// Text columns sort with the C collation to match MongoDB's binary ordering.
var postgresSortColumns = map[string]string{
	models.SortByID:          "p.id",
	models.SortByTitle:       `p.title COLLATE "C"`,
	models.SortByDescription: `p.description COLLATE "C"`,
	models.SortByPhoto:       `p.photo COLLATE "C"`,
	models.SortByUserID:      "p.user_id",
	models.SortByCreatedAt:   "p.created_at",
	models.SortByUpdatedAt:   "p.updated_at",
}

const (
	userColumns = "id, first_name, last_name, email, created_at, updated_at"
	postColumns = "id, title, description, photo, user_id, created_at, updated_at"
)

// PostgresStore keeps the same documents in two tables. Ids are stored in
// their hex form so they stay interchangeable with the MongoDB store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres initializes the PostgreSQL connection pool
func ConnectPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewPostgresStore(pool), nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection pool
func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(ctx, query,
		user.ID.Hex(), user.FirstName, user.LastName, user.Email, user.CreatedAt, user.UpdatedAt)
	return postgresErr(err)
}

func (s *PostgresStore) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var (
		user  models.User
		rawID string
	)
	err := s.pool.QueryRow(ctx, query, id.Hex()).
		Scan(&rawID, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, postgresErr(err)
	}
	if user.ID, err = primitive.ObjectIDFromHex(rawID); err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (` + postColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.pool.Exec(ctx, query,
		post.ID.Hex(), post.Title, post.Description, post.Photo, post.UserID.Hex(), post.CreatedAt, post.UpdatedAt)
	return postgresErr(err)
}

func (s *PostgresStore) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(s.pool.QueryRow(ctx, query, id.Hex()))
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) (*models.Post, error) {
	var userID *string
	if patch.UserID != nil {
		hex := patch.UserID.Hex()
		userID = &hex
	}

	query := `
		UPDATE posts SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			photo = COALESCE($4, photo),
			user_id = COALESCE($5, user_id),
			updated_at = $6
		WHERE id = $1
		RETURNING ` + postColumns
	row := s.pool.QueryRow(ctx, query,
		id.Hex(), patch.Title, patch.Description, patch.Photo, userID, patch.UpdatedAt)
	return scanPost(row)
}

func (s *PostgresStore) DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns
	return scanPost(s.pool.QueryRow(ctx, query, id.Hex()))
}

func (s *PostgresStore) ListPosts(ctx context.Context, q models.PostQuery) ([]models.PostWithUser, error) {
	where, args := postgresWhere(q, nil)

	column, ok := postgresSortColumns[q.SortBy]
	if !ok {
		column = "p.created_at"
	}
	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	orderBy := column + " " + dir
	if column != "p.id" {
		orderBy += ", p.id " + dir
	}

	args = append(args, q.Skip(), q.Limit)
	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.description, p.photo, p.user_id,
		       COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.email, '')
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id
		%s
		ORDER BY %s
		OFFSET $%d LIMIT $%d`, where, orderBy, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.PostWithUser, 0)
	for rows.Next() {
		var (
			p             models.PostWithUser
			rawID, rawUID string
		)
		err := rows.Scan(&rawID, &p.Title, &p.Description, &p.Photo, &rawUID,
			&p.UserDetails.FirstName, &p.UserDetails.LastName, &p.UserDetails.Email)
		if err != nil {
			return nil, err
		}
		if p.ID, err = primitive.ObjectIDFromHex(rawID); err != nil {
			return nil, err
		}
		if p.UserID, err = primitive.ObjectIDFromHex(rawUID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) CountPosts(ctx context.Context, q models.PostQuery) (int64, error) {
	where, args := postgresWhere(q, nil)

	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p `+where, args...).Scan(&total)
	return total, err
}

// postgresWhere mirrors postFilter. The CASE keeps the cast from running on
// descriptions that are not numbers; comparing as numeric keeps values
// outside the double range from raising an error, and the abs() bound then
// excludes them like MongoDB's $convert does.
func postgresWhere(q models.PostQuery, args []any) (string, []any) {
	if !q.HasRange() {
		return "", args
	}

	args = append(args, numericPattern)
	num := fmt.Sprintf("(CASE WHEN p.description ~ $%d THEN p.description::numeric END)", len(args))
	conds := []string{
		num + " IS NOT NULL",
		"abs(" + num + ") <= " + maxFloat64Literal,
	}
	if q.Min != nil {
		args = append(args, *q.Min)
		conds = append(conds, fmt.Sprintf("%s >= $%d::float8::numeric", num, len(args)))
	}
	if q.Max != nil {
		args = append(args, *q.Max)
		conds = append(conds, fmt.Sprintf("%s <= $%d::float8::numeric", num, len(args)))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		post          models.Post
		rawID, rawUID string
	)
	err := row.Scan(&rawID, &post.Title, &post.Description, &post.Photo, &rawUID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, postgresErr(err)
	}
	if post.ID, err = primitive.ObjectIDFromHex(rawID); err != nil {
		return nil, err
	}
	if post.UserID, err = primitive.ObjectIDFromHex(rawUID); err != nil {
		return nil, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	return &post, nil
}

func postgresErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.Detail)
	}
	return err
}
