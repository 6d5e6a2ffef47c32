package models

// TimetableEntry is one weekly lesson slot for a class.
// Times are "HH:MM" in 24-hour format.
type TimetableEntry struct {
	ID        int64  `json:"id" db:"id"`
	ClassID   int64  `json:"classId" db:"class_id"`
	SubjectID int64  `json:"subjectId" db:"subject_id"`
	TeacherID *int64 `json:"teacherId,omitempty" db:"teacher_id"`
	DayOfWeek int    `json:"dayOfWeek" db:"day_of_week"`
	StartTime string `json:"startTime" db:"start_time"`
	EndTime   string `json:"endTime" db:"end_time"`
	Room      string `json:"room,omitempty" db:"room"`
}

// Overlaps reports whether two entries on the same day share any time.
func (e *TimetableEntry) Overlaps(other *TimetableEntry) bool {
	return e.DayOfWeek == other.DayOfWeek && e.StartTime < other.EndTime && other.StartTime < e.EndTime
}
