// Package memory is an in-process Store with the same constraints as the
// PostgreSQL schema. It backs the "memory" database driver and the tests.
package memory

import (
	"context"
	"sync"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
)

type tables struct {
	seq map[string]int64

	users         map[int64]*models.User
	courses       map[int64]*models.Course
	subjects      map[int64]*models.Subject
	classes       map[int64]*models.Class
	classSubjects map[int64]map[int64]bool // class -> subject -> is_elective
	students      map[int64]*models.Student
	teachers      map[int64]*models.Teacher
	assignments   map[int64]*models.TeacherSubject
	results       map[int64]*models.StudentResult
	timetables    map[int64]*models.TimetableEntry
	announcements map[int64]*models.Announcement
}

func newTables() *tables {
	return &tables{
		seq:           make(map[string]int64),
		users:         make(map[int64]*models.User),
		courses:       make(map[int64]*models.Course),
		subjects:      make(map[int64]*models.Subject),
		classes:       make(map[int64]*models.Class),
		classSubjects: make(map[int64]map[int64]bool),
		students:      make(map[int64]*models.Student),
		teachers:      make(map[int64]*models.Teacher),
		assignments:   make(map[int64]*models.TeacherSubject),
		results:       make(map[int64]*models.StudentResult),
		timetables:    make(map[int64]*models.TimetableEntry),
		announcements: make(map[int64]*models.Announcement),
	}
}

func (t *tables) nextID(table string) int64 {
	t.seq[table]++
	return t.seq[table]
}

func cloneMap[T any](m map[int64]*T) map[int64]*T {
	out := make(map[int64]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

// snapshot deep-copies every table so a failed transaction can be undone
func (t *tables) snapshot() *tables {
	seq := make(map[string]int64, len(t.seq))
	for k, v := range t.seq {
		seq[k] = v
	}
	links := make(map[int64]map[int64]bool, len(t.classSubjects))
	for classID, subjects := range t.classSubjects {
		inner := make(map[int64]bool, len(subjects))
		for s, e := range subjects {
			inner[s] = e
		}
		links[classID] = inner
	}
	return &tables{
		seq:           seq,
		users:         cloneMap(t.users),
		courses:       cloneMap(t.courses),
		subjects:      cloneMap(t.subjects),
		classes:       cloneMap(t.classes),
		classSubjects: links,
		students:      cloneMap(t.students),
		teachers:      cloneMap(t.teachers),
		assignments:   cloneMap(t.assignments),
		results:       cloneMap(t.results),
		timetables:    cloneMap(t.timetables),
		announcements: cloneMap(t.announcements),
	}
}

// Store implements repositories.Store in memory. Transactions are
// serialized: WithTx holds the store lock until fn returns.
type Store struct {
	mu   *sync.Mutex
	db   **tables
	inTx bool
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	t := newTables()
	return &Store{mu: &sync.Mutex{}, db: &t}
}

// lock acquires the store lock outside transactions and returns its release
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) t() *tables { return *s.db }

func (s *Store) Users() repositories.UserRepository                 { return userRepository{s} }
func (s *Store) Courses() repositories.CourseRepository             { return courseRepository{s} }
func (s *Store) Subjects() repositories.SubjectRepository           { return subjectRepository{s} }
func (s *Store) Classes() repositories.ClassRepository              { return classRepository{s} }
func (s *Store) Students() repositories.StudentRepository           { return studentRepository{s} }
func (s *Store) Teachers() repositories.TeacherRepository           { return teacherRepository{s} }
func (s *Store) Results() repositories.ResultRepository             { return resultRepository{s} }
func (s *Store) Timetables() repositories.TimetableRepository       { return timetableRepository{s} }
func (s *Store) Announcements() repositories.AnnouncementRepository { return announcementRepository{s} }

// WithTx implements repositories.Store. On error or panic every table is
// restored to its state before fn ran.
func (s *Store) WithTx(ctx context.Context, fn repositories.TxFn) (err error) {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := (*s.db).snapshot()
	defer func() {
		if r := recover(); r != nil {
			*s.db = before
			panic(r)
		}
		if err != nil {
			*s.db = before
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &Store{mu: s.mu, db: s.db, inTx: true})
}
