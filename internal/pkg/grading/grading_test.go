package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeOfBoundaries(t *testing.T) {
	cases := []struct {
		total float64
		want  GradeCode
	}{
		{100, A1},
		{80, A1},
		{79.9, B2},
		{75, B2},
		{74.9, B3},
		{70, B3},
		{69.9, C4},
		{65, C4},
		{64.9, C5},
		{60, C5},
		{59.9, C6},
		{55, C6},
		{54.9, D7},
		{50, D7},
		{49.9, E8},
		{45, E8},
		{44.9, F9},
		{0, F9},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, GradeOf(tc.total), "GradeOf(%v)", tc.total)
	}
}

func TestRemarkOf(t *testing.T) {
	assert.Equal(t, "Excellent", RemarkOf(A1))
	assert.Equal(t, "Very Good", RemarkOf(B2))
	assert.Equal(t, "Credit", RemarkOf(C6))
	assert.Equal(t, "Pass", RemarkOf(E8))
	assert.Equal(t, "Fail", RemarkOf(F9))
	assert.Equal(t, "", RemarkOf("Z0"))
}

func TestTotalRoundsToOneDecimal(t *testing.T) {
	assert.Equal(t, 72.5, Total(24.25, 48.25))
	assert.Equal(t, 80.0, Total(30, 50))
	assert.Equal(t, 33.4, Total(10.04, 23.33))
	assert.Equal(t, 0.0, Total(0, 0))
}
