package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/migrations"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/db"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

// testDatabaseURLEnv names a disposable PostgreSQL database. The tests in
// this file are skipped when it is unset.
const testDatabaseURLEnv = "SCHOOLHUB_TEST_DATABASE_URL"

const testYear = "2026/2027"

var errRollback = errors.New("rollback")

func openTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	dir := filepath.Join("..", "..", "..", "migrations")
	require.NoError(t, migrations.NewMigrator(pool).MigrateFromDirectory(ctx, dir))
	return NewPostgresStore(&db.PostgresDB{Pool: pool})
}

// inRollback runs fn in a transaction that is always rolled back, so the
// database keeps no rows from the test.
func inRollback(t *testing.T, store *PostgresStore, fn func(ctx context.Context, tx Store)) {
	t.Helper()
	err := store.WithTx(context.Background(), func(ctx context.Context, tx Store) error {
		fn(ctx, tx)
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)
}

func createCourse(ctx context.Context, t *testing.T, tx Store) *models.Course {
	t.Helper()
	course := &models.Course{Name: "Integration Science", Code: "ZZITSCI", Duration: 3}
	require.NoError(t, tx.Courses().Create(ctx, course))
	return course
}

func createSubjects(ctx context.Context, t *testing.T, tx Store, courseID *int64, codes ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(codes))
	for _, code := range codes {
		sub := &models.Subject{Name: code, Code: "ZZ" + code, CourseID: courseID}
		require.NoError(t, tx.Subjects().Create(ctx, sub))
		ids = append(ids, sub.ID)
	}
	return ids
}

func createClassWithElectives(ctx context.Context, t *testing.T, tx Store, courseID int64, name string, key *string, ids ...int64) *models.Class {
	t.Helper()
	c := &models.Class{Name: name, CourseID: courseID, Form: 1, Semester: 1, AcademicYear: testYear, Capacity: 45, ElectiveKey: key}
	require.NoError(t, tx.Classes().Create(ctx, c))
	links := make([]models.ClassSubject, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.ClassSubject{ClassID: c.ID, SubjectID: id, IsElective: true})
	}
	require.NoError(t, tx.Classes().AddSubjects(ctx, links))
	return c
}

func TestPostgresFindByElectivesExactSet(t *testing.T) {
	store := openTestStore(t)

	inRollback(t, store, func(ctx context.Context, tx Store) {
		course := createCourse(ctx, t, tx)
		subs := createSubjects(ctx, t, tx, &course.ID, "PHY", "CHE", "BIO", "ICT")

		superset := createClassWithElectives(ctx, t, tx, course.ID, "superset", nil, subs...)
		exact := createClassWithElectives(ctx, t, tx, course.ID, "exact", nil, subs[0], subs[1], subs[2])
		createClassWithElectives(ctx, t, tx, course.ID, "exact-later", nil, subs[0], subs[1], subs[2])

		// Core links do not take part in the match.
		core := createSubjects(ctx, t, tx, nil, "ENG")
		require.NoError(t, tx.Classes().AddSubjects(ctx, []models.ClassSubject{{ClassID: exact.ID, SubjectID: core[0]}}))

		got, err := tx.Classes().FindByElectives(ctx, course.ID, 1, 1, testYear, []int64{subs[2], subs[0], subs[1], subs[0]})
		require.NoError(t, err)
		assert.Equal(t, exact.ID, got.ID)

		got, err = tx.Classes().FindByElectives(ctx, course.ID, 1, 1, testYear, subs)
		require.NoError(t, err)
		assert.Equal(t, superset.ID, got.ID)

		_, err = tx.Classes().FindByElectives(ctx, course.ID, 1, 1, testYear, subs[:2])
		assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

		_, err = tx.Classes().FindByElectives(ctx, course.ID, 2, 1, testYear, subs[:3])
		assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

		_, err = tx.Classes().FindByElectives(ctx, course.ID, 1, 1, "2027/2028", subs[:3])
		assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
	})
}

func TestPostgresClassNamesOnlyUniqueForPlainClasses(t *testing.T) {
	store := openTestStore(t)

	inRollback(t, store, func(ctx context.Context, tx Store) {
		course := createCourse(ctx, t, tx)
		subs := createSubjects(ctx, t, tx, &course.ID, "PHY")
		common := createSubjects(ctx, t, tx, nil, "PHYG")

		first, second := "1", "2"
		a := createClassWithElectives(ctx, t, tx, course.ID, "Integration 1 Physics S1", &first, subs[0])
		b := createClassWithElectives(ctx, t, tx, course.ID, "Integration 1 Physics S1", &second, common[0])
		assert.NotEqual(t, a.ID, b.ID)

		got, err := tx.Classes().FindByElectives(ctx, course.ID, 1, 1, testYear, common)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)

		plain := createClassWithElectives(ctx, t, tx, course.ID, "Integration Science 1A", nil)
		found, err := tx.Classes().FindPlainByName(ctx, "Integration Science 1A", course.ID, 1, 1, testYear)
		require.NoError(t, err)
		assert.Equal(t, plain.ID, found.ID)

		_, err = tx.Classes().FindPlainByName(ctx, "Integration 1 Physics S1", course.ID, 1, 1, testYear)
		assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

		// A failed insert aborts the transaction, so this check comes last.
		dup := &models.Class{Name: "Integration Science 1A", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: testYear, Capacity: 45}
		assert.ErrorIs(t, tx.Classes().Create(ctx, dup), apperrors.ErrClassNameConflict)
	})
}
