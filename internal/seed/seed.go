package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
)

type courseSeed struct {
	course    models.Course
	electives []models.Subject
}

// commonSubjects are taken by every course
var commonSubjects = []models.Subject{
	{Name: "English Language", Code: "ENG", IsCore: true},
	{Name: "Core Mathematics", Code: "CMATH", IsCore: true},
	{Name: "Integrated Science", Code: "ISC", IsCore: true},
	{Name: "Social Studies", Code: "SOC", IsCore: true},
}

var courseCatalog = []courseSeed{
	{
		course: models.Course{Name: "General Science", Code: "GSC", Duration: 3},
		electives: []models.Subject{
			{Name: "Physics", Code: "PHY"},
			{Name: "Chemistry", Code: "CHE"},
			{Name: "Biology", Code: "BIO"},
			{Name: "Elective Mathematics", Code: "EMATH"},
		},
	},
	{
		course: models.Course{Name: "General Arts", Code: "GAR", Duration: 3},
		electives: []models.Subject{
			{Name: "Literature", Code: "LIT"},
			{Name: "Government", Code: "GOV"},
			{Name: "History", Code: "HIS"},
			{Name: "Geography", Code: "GEO"},
		},
	},
	{
		course: models.Course{Name: "Business", Code: "BUS", Duration: 3},
		electives: []models.Subject{
			{Name: "Financial Accounting", Code: "ACC"},
			{Name: "Business Management", Code: "BMGT"},
			{Name: "Cost Accounting", Code: "COST"},
			{Name: "Economics", Code: "ECO"},
		},
	},
	{
		course: models.Course{Name: "Home Economics", Code: "HEC", Duration: 3},
		electives: []models.Subject{
			{Name: "Food and Nutrition", Code: "FOOD"},
			{Name: "Management in Living", Code: "MGTL"},
			{Name: "Clothing and Textiles", Code: "TEXT"},
		},
	},
}

// Admin describes the administrator account to create on first start.
// An empty password skips it.
type Admin struct {
	Email    string
	Password string
}

// CreateDefaultData creates the default course catalog and admin account
// when they are missing. Existing rows are left alone, so it is safe to run
// on every start.
func CreateDefaultData(ctx context.Context, store repositories.Store, hasher *auth.PasswordHasher, admin Admin, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Courses/Subjects)...")
	var finalErr error // collect errors without stopping the process

	for i := range commonSubjects {
		subject := commonSubjects[i]
		if err := createSubject(ctx, store, &subject); err != nil {
			lgr.Error().Err(err).Str("code", subject.Code).Msg("Error creating common subject")
			finalErr = errors.Join(finalErr, err)
		}
	}

	existing, err := store.Courses().GetAll(ctx)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	byCode := make(map[string]int64, len(existing))
	for _, c := range existing {
		byCode[c.Code] = c.ID
	}

	for _, entry := range courseCatalog {
		courseID, ok := byCode[entry.course.Code]
		if !ok {
			course := entry.course
			if err := store.Courses().Create(ctx, &course); err != nil {
				lgr.Error().Err(err).Str("code", course.Code).Msg("Error creating course")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			courseID = course.ID
			lgr.Info().Str("code", course.Code).Int64("courseID", courseID).Msg("Default course created")
		}

		for i := range entry.electives {
			subject := entry.electives[i]
			subject.CourseID = &courseID
			if err := createSubject(ctx, store, &subject); err != nil {
				lgr.Error().Err(err).Str("code", subject.Code).Msg("Error creating elective subject")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if err := createAdmin(ctx, store, hasher, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createSubject(ctx context.Context, store repositories.Store, subject *models.Subject) error {
	err := store.Subjects().Create(ctx, subject)
	if errors.Is(err, apperrors.ErrSubjectCodeExists) {
		return nil
	}
	return err
}

func createAdmin(ctx context.Context, store repositories.Store, hasher *auth.PasswordHasher, admin Admin, lgr zerolog.Logger) error {
	if admin.Password == "" {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	_, err := store.Users().GetByEmail(ctx, email)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := store.Users().Create(ctx, user); err != nil {
		return err
	}
	lgr.Info().Int64("adminID", user.ID).Msg("Default admin user created successfully")
	return nil
}
