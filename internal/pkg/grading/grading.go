// Package grading maps total scores to WASSCE-style grade codes.
package grading

import "math"

// GradeCode is a letter-number grade such as A1 or F9
type GradeCode string

const (
	A1 GradeCode = "A1"
	B2 GradeCode = "B2"
	B3 GradeCode = "B3"
	C4 GradeCode = "C4"
	C5 GradeCode = "C5"
	C6 GradeCode = "C6"
	D7 GradeCode = "D7"
	E8 GradeCode = "E8"
	F9 GradeCode = "F9"
)

// MaxScore is the highest attainable total score
const MaxScore = 100.0

// thresholds are checked top-down; the first minimum the score reaches wins.
var thresholds = []struct {
	min   float64
	grade GradeCode
}{
	{80, A1},
	{75, B2},
	{70, B3},
	{65, C4},
	{60, C5},
	{55, C6},
	{50, D7},
	{45, E8},
}

var remarks = map[GradeCode]string{
	A1: "Excellent",
	B2: "Very Good",
	B3: "Good",
	C4: "Credit",
	C5: "Credit",
	C6: "Credit",
	D7: "Pass",
	E8: "Pass",
	F9: "Fail",
}

// GradeOf returns the grade for a total score
func GradeOf(total float64) GradeCode {
	for _, t := range thresholds {
		if total >= t.min {
			return t.grade
		}
	}
	return F9
}

// RemarkOf returns the remark for a grade code, or "" for unknown codes
func RemarkOf(code GradeCode) string {
	return remarks[code]
}

// Total adds the class and exam components and rounds to one decimal place.
func Total(classScore, examScore float64) float64 {
	return Round1(classScore + examScore)
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
