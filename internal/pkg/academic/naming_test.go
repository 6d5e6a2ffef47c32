package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElectiveKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, "10,11,12,13", ElectiveKey([]int64{13, 10, 12, 11}))
	assert.Equal(t, ElectiveKey([]int64{1, 2, 3}), ElectiveKey([]int64{3, 1, 2, 2}))
	assert.NotEqual(t, ElectiveKey([]int64{1, 2, 3}), ElectiveKey([]int64{1, 2, 3, 4}))
	assert.Equal(t, "", ElectiveKey(nil))
}

func TestParseElectiveKey(t *testing.T) {
	ids, err := ParseElectiveKey("3,7,12")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7, 12}, ids)

	ids, err = ParseElectiveKey("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseElectiveKey("3,x")
	assert.Error(t, err)
}

func TestClassNames(t *testing.T) {
	// Elective names shorten the course to its first word; plain names do not.
	assert.Equal(t,
		"General 1 Physics-Chemistry-Biology-ICT S1",
		ElectiveClassName("General Science", 1, []string{"Physics", "Chemistry", "Biology", "ICT"}, 1))
	assert.Equal(t, "General Science 2A", StreamClassName("General Science", 2, "A"))
}

func TestNextStream(t *testing.T) {
	cases := []struct {
		existing []string
		want     string
	}{
		{nil, "A"},
		{[]string{""}, "A"},
		{[]string{"A"}, "B"},
		{[]string{"C", "A", "B"}, "D"},
		{[]string{"Y"}, "Z"},
		{[]string{"Z"}, "AA"},
		{[]string{"AA", "Z"}, "AB"},
		{[]string{"AZ"}, "BA"},
		{[]string{"ZZ"}, "AAA"},
		{[]string{"b", "1"}, "C"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NextStream(tc.existing), "NextStream(%v)", tc.existing)
	}
}
