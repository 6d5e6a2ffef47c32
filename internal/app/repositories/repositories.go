package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/schoolhub/internal/app/models"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same
// repository code runs inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository persists authentication rows
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetActive(ctx context.Context, ids []int64, active bool) (int64, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
}

// CourseRepository persists courses
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
}

// SubjectRepository persists subjects
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	// GetByIDs returns the subjects found among ids, ordered by id.
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error)
	// GetAll lists every subject, or with courseID > 0 the course's subjects
	// plus the common ones.
	GetAll(ctx context.Context, courseID int64) ([]*models.Subject, error)
}

// ClassRepository persists classes and their subject associations
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	List(ctx context.Context, filter models.ClassFilter) ([]*models.Class, error)
	// FindByElectives returns the lowest-id class of the period whose
	// elective set equals electiveIDs exactly.
	FindByElectives(ctx context.Context, courseID int64, form, semester int, academicYear string, electiveIDs []int64) (*models.Class, error)
	// FindPlainByName returns the class without an elective key named name.
	FindPlainByName(ctx context.Context, name string, courseID int64, form, semester int, academicYear string) (*models.Class, error)
	ListStreams(ctx context.Context, courseID int64, form, semester int, academicYear string) ([]string, error)
	AddSubjects(ctx context.Context, links []models.ClassSubject) error
	CopySubjects(ctx context.Context, fromClassID, toClassID int64) error
	ListSubjects(ctx context.Context, classID int64) ([]*models.Subject, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// StudentRepository persists students
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	AssignClass(ctx context.Context, studentID int64, classID *int64) error
	// ListActiveInPeriod returns active students whose current class is in
	// the given form, semester and academic year, ordered by id.
	ListActiveInPeriod(ctx context.Context, form, semester int, academicYear string) ([]*models.Student, error)
	ClearClassAssignments(ctx context.Context) (int64, error)
	SetActiveByUserIDs(ctx context.Context, userIDs []int64, active bool) error
}

// TeacherRepository persists teachers and their subject assignments
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	List(ctx context.Context) ([]*models.Teacher, error)
	Assign(ctx context.Context, assignment *models.TeacherSubject) error
	ListAssignments(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error)
	DeleteAllAssignments(ctx context.Context) (int64, error)
}

// ResultRepository persists gradebook rows
type ResultRepository interface {
	// Upsert inserts the result or updates the row with the same student,
	// subject, academic year and term.
	Upsert(ctx context.Context, result *models.StudentResult) error
	GetByID(ctx context.Context, id int64) (*models.StudentResult, error)
	Update(ctx context.Context, result *models.StudentResult) error
	List(ctx context.Context, filter models.ResultFilter) ([]*models.StudentResult, error)
}

// TimetableRepository persists timetable entries
type TimetableRepository interface {
	Create(ctx context.Context, entry *models.TimetableEntry) error
	ListByClass(ctx context.Context, classID int64) ([]*models.TimetableEntry, error)
	ListByTeacher(ctx context.Context, teacherID int64, dayOfWeek int) ([]*models.TimetableEntry, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// AnnouncementRepository persists announcements
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	List(ctx context.Context, filter models.AnnouncementFilter) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

// TxFn runs inside a transaction; tx exposes repositories bound to it.
type TxFn func(ctx context.Context, tx Store) error

// Store is the unit of work over the school schema. Repositories obtained
// from the Store passed to a TxFn share that transaction.
type Store interface {
	Users() UserRepository
	Courses() CourseRepository
	Subjects() SubjectRepository
	Classes() ClassRepository
	Students() StudentRepository
	Teachers() TeacherRepository
	Results() ResultRepository
	Timetables() TimetableRepository
	Announcements() AnnouncementRepository

	// WithTx runs fn in a transaction, rolling back when fn returns an
	// error. Calling WithTx on a transactional Store reuses the transaction.
	WithTx(ctx context.Context, fn TxFn) error
}
