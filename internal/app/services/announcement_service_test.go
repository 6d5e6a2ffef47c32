package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

type recordingPublisher struct {
	channels []int64
	titles   []string
}

func (p *recordingPublisher) Publish(channel int64, a *models.Announcement) {
	p.channels = append(p.channels, channel)
	p.titles = append(p.titles, a.Title)
}

func TestAnnouncements(t *testing.T) {
	f := newFixture(t)
	class := f.plainClass(1, 1, testYear, "A")
	pub := &recordingPublisher{}
	svc := NewAnnouncementService(f.store, pub)

	require.NoError(t, svc.CreateAnnouncement(f.ctx, &models.Announcement{Title: "Sports day", Body: "Friday"}))
	require.NoError(t, svc.CreateAnnouncement(f.ctx, &models.Announcement{Title: "Lab test", Body: "Bring coats", Audience: models.AudienceClass, ClassID: &class.ID}))

	assert.Equal(t, []int64{0, class.ID}, pub.channels)
	assert.Equal(t, []string{"Sports day", "Lab test"}, pub.titles)

	err := svc.CreateAnnouncement(f.ctx, &models.Announcement{Title: "x", Body: "y", Audience: models.AudienceClass})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	err = svc.CreateAnnouncement(f.ctx, &models.Announcement{Title: "x", Body: "y", Audience: "PARENTS"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	list, err := svc.ListAnnouncements(f.ctx, models.AnnouncementFilter{ClassID: class.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.ListAnnouncements(f.ctx, models.AnnouncementFilter{Audience: models.AudienceAll})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sports day", list[0].Title)

	require.NoError(t, svc.DeleteAnnouncement(f.ctx, list[0].ID))
	assert.ErrorIs(t, svc.DeleteAnnouncement(f.ctx, list[0].ID), apperrors.ErrResourceNotFound)
}
