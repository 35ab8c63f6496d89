package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stashbox/backend/internal/model"
)

const bookmarkColumns = `id, user_id, url, title, description, tags, is_favorite, created_at, updated_at`

func scanBookmark(row pgx.Row) (*model.Bookmark, error) {
	var b model.Bookmark
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.URL,
		&b.Title,
		&b.Description,
		&b.Tags,
		&b.IsFavorite,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

func (db *Postgres) ListBookmarks(ctx context.Context, ownerID string, filter model.SearchFilter) ([]model.Bookmark, error) {
	query, args := listQuery(
		`SELECT `+bookmarkColumns+` FROM bookmarks`,
		ownerID,
		filter,
		[]string{"title", "description"},
		"created_at DESC",
	)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

func (db *Postgres) GetBookmark(ctx context.Context, ownerID, id string) (*model.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = $1 AND user_id = $2`
	return scanBookmark(db.Pool.QueryRow(ctx, query, id, ownerID))
}

func (db *Postgres) CreateBookmark(ctx context.Context, b model.Bookmark) (*model.Bookmark, error) {
	if b.Tags == nil {
		b.Tags = []string{}
	}
	query := `
		INSERT INTO bookmarks (id, user_id, url, title, description, tags, is_favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + bookmarkColumns
	return scanBookmark(db.Pool.QueryRow(ctx, query,
		uuid.NewString(),
		b.OwnerID,
		b.URL,
		b.Title,
		b.Description,
		b.Tags,
		b.IsFavorite,
	))
}

func (db *Postgres) UpdateBookmark(ctx context.Context, ownerID, id string, req model.UpdateBookmarkRequest) (*model.Bookmark, error) {
	query := `
		UPDATE bookmarks
		SET
			url = COALESCE($3, url),
			title = COALESCE($4, title),
			description = COALESCE($5, description),
			tags = COALESCE($6, tags),
			is_favorite = COALESCE($7, is_favorite),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookmarkColumns
	return scanBookmark(db.Pool.QueryRow(ctx, query,
		id,
		ownerID,
		req.URL,
		req.Title,
		req.Description,
		req.Tags,
		req.IsFavorite,
	))
}

func (db *Postgres) DeleteBookmark(ctx context.Context, ownerID, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
