package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories/memory"
	"github.com/yigit/schoolhub/internal/pkg/auth"
)

func TestCreateDefaultData_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	hasher := auth.NewPasswordHasher(4)
	admin := Admin{Email: "Admin@School.test", Password: "changeme123"}

	require.NoError(t, CreateDefaultData(ctx, store, hasher, admin, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, store, hasher, admin, zerolog.Nop()))

	courses, err := store.Courses().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, len(courseCatalog))

	subjects, err := store.Subjects().GetAll(ctx, 0)
	require.NoError(t, err)
	want := len(commonSubjects)
	for _, c := range courseCatalog {
		want += len(c.electives)
	}
	assert.Len(t, subjects, want)

	user, err := store.Users().GetByEmail(ctx, "admin@school.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, hasher.Compare(user.PasswordHash, "changeme123"))
}

func TestCreateDefaultData_SkipsAdminWithoutPassword(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, CreateDefaultData(ctx, store, auth.NewPasswordHasher(4), Admin{Email: "admin@school.test"}, zerolog.Nop()))

	_, err := store.Users().GetByEmail(ctx, "admin@school.test")
	assert.Error(t, err)
}

func TestCreateDefaultData_ScienceElectivesBelongToCourse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, CreateDefaultData(ctx, store, auth.NewPasswordHasher(4), Admin{}, zerolog.Nop()))

	courses, err := store.Courses().GetAll(ctx)
	require.NoError(t, err)
	var science *models.Course
	for _, c := range courses {
		if c.Code == "GSC" {
			science = c
		}
	}
	require.NotNil(t, science)

	subjects, err := store.Subjects().GetAll(ctx, science.ID)
	require.NoError(t, err)
	codes := make([]string, 0, len(subjects))
	for _, s := range subjects {
		codes = append(codes, s.Code)
	}
	assert.ElementsMatch(t, []string{"ENG", "CMATH", "ISC", "SOC", "PHY", "CHE", "BIO", "EMATH"}, codes)
}
