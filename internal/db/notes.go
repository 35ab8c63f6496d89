package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stashbox/backend/internal/model"
)

const noteColumns = `id, user_id, title, content, tags, is_favorite, created_at, updated_at`

func scanNote(row pgx.Row) (*model.Note, error) {
	var n model.Note
	err := row.Scan(
		&n.ID,
		&n.OwnerID,
		&n.Title,
		&n.Content,
		&n.Tags,
		&n.IsFavorite,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n, nil
}

func (db *Postgres) ListNotes(ctx context.Context, ownerID string, filter model.SearchFilter) ([]model.Note, error) {
	query, args := listQuery(
		`SELECT `+noteColumns+` FROM notes`,
		ownerID,
		filter,
		[]string{"title", "content"},
		"updated_at DESC",
	)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

func (db *Postgres) GetNote(ctx context.Context, ownerID, id string) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	return scanNote(db.Pool.QueryRow(ctx, query, id, ownerID))
}

// CreateNote stores n under n.OwnerID and returns the persisted row.
func (db *Postgres) CreateNote(ctx context.Context, n model.Note) (*model.Note, error) {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	query := `
		INSERT INTO notes (id, user_id, title, content, tags, is_favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + noteColumns
	return scanNote(db.Pool.QueryRow(ctx, query,
		uuid.NewString(),
		n.OwnerID,
		n.Title,
		n.Content,
		n.Tags,
		n.IsFavorite,
	))
}

func (db *Postgres) UpdateNote(ctx context.Context, ownerID, id string, req model.UpdateNoteRequest) (*model.Note, error) {
	query := `
		UPDATE notes
		SET
			title = COALESCE($3, title),
			content = COALESCE($4, content),
			tags = COALESCE($5, tags),
			is_favorite = COALESCE($6, is_favorite),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns
	return scanNote(db.Pool.QueryRow(ctx, query,
		id,
		ownerID,
		req.Title,
		req.Content,
		req.Tags,
		req.IsFavorite,
	))
}

func (db *Postgres) DeleteNote(ctx context.Context, ownerID, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
