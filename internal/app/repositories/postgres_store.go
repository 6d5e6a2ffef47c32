package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/schoolhub/internal/db"
)

// psql builds statements with PostgreSQL $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresStore is the Store backed by a pgx pool or an open transaction
type PostgresStore struct {
	pg *db.PostgresDB
	q  DBTX
	tx bool

	users         UserRepository
	courses       CourseRepository
	subjects      SubjectRepository
	classes       ClassRepository
	students      StudentRepository
	teachers      TeacherRepository
	results       ResultRepository
	timetables    TimetableRepository
	announcements AnnouncementRepository
}

// NewPostgresStore creates a Store over the pool of pg
func NewPostgresStore(pg *db.PostgresDB) *PostgresStore {
	return newPostgresStore(pg, pg.Pool, false)
}

func newPostgresStore(pg *db.PostgresDB, q DBTX, tx bool) *PostgresStore {
	return &PostgresStore{
		pg:            pg,
		q:             q,
		tx:            tx,
		users:         NewUserRepository(q),
		courses:       NewCourseRepository(q),
		subjects:      NewSubjectRepository(q),
		classes:       NewClassRepository(q),
		students:      NewStudentRepository(q),
		teachers:      NewTeacherRepository(q),
		results:       NewResultRepository(q),
		timetables:    NewTimetableRepository(q),
		announcements: NewAnnouncementRepository(q),
	}
}

func (s *PostgresStore) Users() UserRepository                 { return s.users }
func (s *PostgresStore) Courses() CourseRepository             { return s.courses }
func (s *PostgresStore) Subjects() SubjectRepository           { return s.subjects }
func (s *PostgresStore) Classes() ClassRepository              { return s.classes }
func (s *PostgresStore) Students() StudentRepository           { return s.students }
func (s *PostgresStore) Teachers() TeacherRepository           { return s.teachers }
func (s *PostgresStore) Results() ResultRepository             { return s.results }
func (s *PostgresStore) Timetables() TimetableRepository       { return s.timetables }
func (s *PostgresStore) Announcements() AnnouncementRepository { return s.announcements }

// WithTx implements Store
func (s *PostgresStore) WithTx(ctx context.Context, fn TxFn) error {
	if s.tx {
		return fn(ctx, s)
	}
	return s.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newPostgresStore(s.pg, tx, true))
	})
}
