package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleIDs_AcceptsNumbersAndStrings(t *testing.T) {
	var req struct {
		IDs FlexibleIDs `json:"ids"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ids": [3, "7", " 12 "]}`), &req))
	assert.Equal(t, []int64{3, 7, 12}, req.IDs.Int64s())
}

func TestFlexibleIDs_RejectsInvalid(t *testing.T) {
	for _, body := range []string{
		`{"ids": ["abc"]}`,
		`{"ids": [0]}`,
		`{"ids": ["-4"]}`,
		`{"ids": [1.5]}`,
		`{"ids": [true]}`,
	} {
		var req struct {
			IDs FlexibleIDs `json:"ids"`
		}
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestFlexibleID_Null(t *testing.T) {
	var req struct {
		ID FlexibleID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id": null}`), &req))
	assert.Zero(t, req.ID)
}
