package models

// Course is immutable reference data describing a programme of study.
type Course struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Code     string `json:"code" db:"code"`
	Duration int    `json:"duration" db:"duration"` // years
}
