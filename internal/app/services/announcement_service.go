package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// Publisher delivers new announcements to live subscribers. Channel 0 is
// the school-wide feed; any other channel is a class ID.
type Publisher interface {
	Publish(channel int64, announcement *models.Announcement)
}

// AnnouncementService defines the interface for announcement operations
type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
}

type announcementServiceImpl struct {
	store     repositories.Store
	publisher Publisher
}

// NewAnnouncementService creates a new announcement service instance.
// publisher may be nil.
func NewAnnouncementService(store repositories.Store, publisher Publisher) AnnouncementService {
	return &announcementServiceImpl{store: store, publisher: publisher}
}

func validAudience(a models.Audience) bool {
	switch a {
	case models.AudienceAll, models.AudienceStudents, models.AudienceTeachers, models.AudienceClass:
		return true
	}
	return false
}

func validateAnnouncement(a *models.Announcement) error {
	if a == nil {
		return fmt.Errorf("%w: announcement is nil", apperrors.ErrValidationFailed)
	}
	a.Title = strings.TrimSpace(a.Title)
	a.Body = strings.TrimSpace(a.Body)
	if err := requireText(a.Title, "title"); err != nil {
		return err
	}
	if err := requireText(a.Body, "body"); err != nil {
		return err
	}
	if a.Audience == "" {
		a.Audience = models.AudienceAll
	}
	if !validAudience(a.Audience) {
		return fmt.Errorf("%w: unknown audience %q", apperrors.ErrValidationFailed, a.Audience)
	}
	if a.Audience == models.AudienceClass && a.ClassID == nil {
		return fmt.Errorf("%w: class announcements need a class ID", apperrors.ErrValidationFailed)
	}
	if a.Audience != models.AudienceClass && a.ClassID != nil {
		return fmt.Errorf("%w: only class announcements may name a class", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateAnnouncement stores an announcement and pushes it to subscribers
func (s *announcementServiceImpl) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if err := validateAnnouncement(a); err != nil {
		return err
	}
	if err := s.store.Announcements().Create(ctx, a); err != nil {
		return fmt.Errorf("error creating announcement: %w", err)
	}

	var channel int64
	if a.ClassID != nil {
		channel = *a.ClassID
	}
	if s.publisher != nil {
		s.publisher.Publish(channel, a)
	}
	logger.Info().Int64("announcement_id", a.ID).Str("audience", string(a.Audience)).Msg("Announcement published")
	return nil
}

// ListAnnouncements lists announcements newest first
func (s *announcementServiceImpl) ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]*models.Announcement, error) {
	if filter.Audience != "" && !validAudience(filter.Audience) {
		return nil, fmt.Errorf("%w: unknown audience %q", apperrors.ErrValidationFailed, filter.Audience)
	}
	list, err := s.store.Announcements().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving announcements: %w", err)
	}
	return list, nil
}

// DeleteAnnouncement removes an announcement
func (s *announcementServiceImpl) DeleteAnnouncement(ctx context.Context, id int64) error {
	if err := validateID(id, "announcement"); err != nil {
		return err
	}
	return s.store.Announcements().Delete(ctx, id)
}
