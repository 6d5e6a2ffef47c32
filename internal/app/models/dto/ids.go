package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleID is an identifier sent either as a JSON number or as a numeric
// string, as form-driven clients tend to do.
type FlexibleID int64

// UnmarshalJSON accepts 12, "12" and null
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid ID %s: must be a positive integer", data)
	}
	*id = FlexibleID(v)
	return nil
}

// FlexibleIDs is a list of FlexibleID
type FlexibleIDs []FlexibleID

// Int64s converts the list to plain IDs
func (ids FlexibleIDs) Int64s() []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
