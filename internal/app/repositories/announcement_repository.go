package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
)

const defaultAnnouncementLimit = 50

type announcementRepository struct {
	db DBTX
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db DBTX) AnnouncementRepository {
	return &announcementRepository{db: db}
}

// Create creates a new announcement
func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	a.CreatedAt = time.Now()
	sql, args, err := psql.Insert("announcements").
		Columns("title", "body", "audience", "class_id", "author_id", "created_at").
		Values(a.Title, a.Body, a.Audience, a.ClassID, a.AuthorID, a.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create announcement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("class or author not found")
		}
		return fmt.Errorf("error creating announcement: %w", err)
	}
	return nil
}

// List returns announcements newest first. A class filter also matches
// school-wide announcements.
func (r *announcementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]*models.Announcement, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAnnouncementLimit
	}

	q := psql.Select("id", "title", "body", "audience", "class_id", "author_id", "created_at").
		From("announcements").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if filter.Audience != "" {
		q = q.Where(squirrel.Eq{"audience": filter.Audience})
	}
	if filter.ClassID > 0 {
		q = q.Where(squirrel.Or{squirrel.Eq{"class_id": filter.ClassID}, squirrel.Eq{"class_id": nil}})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list announcements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	defer rows.Close()

	var list []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.ClassID, &a.AuthorID, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Delete removes an announcement
func (r *announcementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}
