package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/photogallery-server/internal/model"
)

var _ model.PhotoStore = (*PhotoRepository)(nil)

const photoViewColumns = `id, owner_id, title, description, location, object_key, content_type, uploaded_at, owner_name, tagging`

// photoOrderColumns whitelists ORDER BY expressions; unknown fields fall back
// to the upload time.
var photoOrderColumns = map[model.PhotoSortField]string{
	model.PhotoSortUploadedAt: "uploaded_at",
	model.PhotoSortTitle:      "title",
	model.PhotoSortOwnerName:  "owner_name",
}

type PhotoRepository struct {
	db *Connection
}

func NewPhotoRepository(db *Connection) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create stores the photo and links it to tags, creating missing tags.
func (r *PhotoRepository) Create(ctx context.Context, photo model.Photo, tags []string) (model.Photo, error) {
	const insertPhoto = `
        INSERT INTO photos (owner_id, title, description, location, object_key, content_type, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	const upsertTag = `
        INSERT INTO tags (name) VALUES ($1)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id
    `
	const linkTag = `INSERT INTO photo_tags (photo_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertPhoto,
			photo.OwnerID, photo.Title, photo.Description, photo.Location,
			photo.ObjectKey, photo.ContentType, photo.UploadedAt,
		).Scan(&photo.ID); err != nil {
			return fmt.Errorf("failed to insert photo: %w", err)
		}

		for _, name := range tags {
			var tagID int
			if err := tx.QueryRow(ctx, upsertTag, name).Scan(&tagID); err != nil {
				return fmt.Errorf("failed to upsert tag %q: %w", name, err)
			}
			if _, err := tx.Exec(ctx, linkTag, photo.ID, tagID); err != nil {
				return fmt.Errorf("failed to link tag %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.Photo{}, fmt.Errorf("failed to create photo: %w", err)
	}

	return photo, nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (model.PhotoView, error) {
	query := `SELECT ` + photoViewColumns + ` FROM vi_photos WHERE id = $1`

	view, err := scanPhotoView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PhotoView{}, model.ErrNotFound
		}
		return model.PhotoView{}, fmt.Errorf("failed to get photo by id: %w", err)
	}
	return view, nil
}

// List returns one page of photos matching the query and the total number of
// matches.
func (r *PhotoRepository) List(ctx context.Context, q model.PhotoQuery) ([]model.PhotoView, int, error) {
	where, args := photoFilter(q.Search)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vi_photos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count photos: %w", err)
	}

	query := `SELECT ` + photoViewColumns + ` FROM vi_photos` + where + photoOrder(q) +
		fmt.Sprintf(` OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, q.Skip, q.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var views []model.PhotoView
	for rows.Next() {
		view, err := scanPhotoView(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan photo: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate photos: %w", err)
	}

	return views, total, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PhotoRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Tag, error) {
		var tag model.Tag
		err := row.Scan(&tag.ID, &tag.Name)
		return tag, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tags: %w", err)
	}
	return tags, nil
}

func photoFilter(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	return ` WHERE title ILIKE $1 OR description ILIKE $1 OR owner_name ILIKE $1`,
		[]any{"%" + escapeLike(search) + "%"}
}

func photoOrder(q model.PhotoQuery) string {
	column, ok := photoOrderColumns[q.SortField]
	if !ok {
		column = photoOrderColumns[model.PhotoSortUploadedAt]
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}
	return ` ORDER BY ` + column + ` ` + direction + `, id ` + direction
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanPhotoView(row pgx.Row) (model.PhotoView, error) {
	var (
		view    model.PhotoView
		tagging string
	)
	err := row.Scan(
		&view.ID, &view.OwnerID, &view.Title, &view.Description, &view.Location,
		&view.ObjectKey, &view.ContentType, &view.UploadedAt, &view.OwnerName, &tagging,
	)
	if err != nil {
		return model.PhotoView{}, err
	}
	view.Tags = splitTags(tagging)
	return view, nil
}

func splitTags(tagging string) []string {
	tags := []string{}
	for _, t := range strings.Split(tagging, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
