package memory

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

type userRepository struct{ s *Store }

func (r userRepository) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	t := r.s.t()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range t.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	now := time.Now()
	user.ID = t.nextID("users")
	user.CreatedAt, user.UpdatedAt = now, now
	row := *user
	t.users[user.ID] = &row
	return nil
}

func (r userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.t().users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.s.lock()()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.t().users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r userRepository) SetActive(_ context.Context, ids []int64, active bool) (int64, error) {
	defer r.s.lock()()
	var n int64
	now := time.Now()
	for _, id := range ids {
		if u, ok := r.s.t().users[id]; ok {
			u.IsActive = active
			u.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

// Delete cascades to student and teacher rows like the schema does
func (r userRepository) Delete(_ context.Context, ids []int64) (int64, error) {
	defer r.s.lock()()
	t := r.s.t()
	var n int64
	for _, id := range ids {
		if _, ok := t.users[id]; !ok {
			continue
		}
		delete(t.users, id)
		n++

		for sid, st := range t.students {
			if st.UserID == id {
				t.deleteStudent(sid)
			}
		}
		for tid, te := range t.teachers {
			if te.UserID == id {
				t.deleteTeacher(tid)
			}
		}
		for _, a := range t.announcements {
			if a.AuthorID != nil && *a.AuthorID == id {
				a.AuthorID = nil
			}
		}
	}
	return n, nil
}

func (t *tables) deleteStudent(id int64) {
	delete(t.students, id)
	for rid, res := range t.results {
		if res.StudentID == id {
			delete(t.results, rid)
		}
	}
}

func (t *tables) deleteTeacher(id int64) {
	delete(t.teachers, id)
	for aid, a := range t.assignments {
		if a.TeacherID == id {
			delete(t.assignments, aid)
		}
	}
	for _, e := range t.timetables {
		if e.TeacherID != nil && *e.TeacherID == id {
			e.TeacherID = nil
		}
	}
}
