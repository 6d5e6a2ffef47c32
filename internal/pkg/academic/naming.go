// Package academic holds the pure naming rules for classes: display names,
// stream letters and the canonical key of an elective combination.
package academic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ElectiveKey returns the canonical form of an elective set: distinct IDs in
// ascending order joined by commas. Two sets with the same members always
// produce the same key.
func ElectiveKey(ids []int64) string {
	uniq := UniqueSorted(ids)
	parts := make([]string, len(uniq))
	for i, id := range uniq {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ParseElectiveKey is the inverse of ElectiveKey.
func ParseElectiveKey(key string) ([]int64, error) {
	if key == "" {
		return nil, nil
	}
	parts := strings.Split(key, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid elective key %q: %w", key, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UniqueSorted returns the distinct values of ids in ascending order.
func UniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ElectiveClassName formats the name of a class identified by its electives.
// Only the first word of the course name is used, e.g.
// "General 1 Physics-Chemistry-Biology-ICT S1", never
// "General Science 1 Physics-...". StreamClassName keeps the full name.
func ElectiveClassName(courseName string, form int, subjectNames []string, semester int) string {
	prefix := strings.TrimSpace(courseName)
	if fields := strings.Fields(prefix); len(fields) > 0 {
		prefix = fields[0]
	}
	return fmt.Sprintf("%s %d %s S%d", prefix, form, strings.Join(subjectNames, "-"), semester)
}

// StreamClassName formats the name of a class without electives,
// e.g. "General Science 1A".
func StreamClassName(courseName string, form int, stream string) string {
	return fmt.Sprintf("%s %d%s", strings.TrimSpace(courseName), form, stream)
}

// NextStream returns the stream after the greatest of existing. Streams
// count like spreadsheet columns: A..Z, then AA, AB, ... Empty or malformed
// values are ignored; with nothing valid the first stream is "A".
func NextStream(existing []string) string {
	max := 0
	for _, s := range existing {
		if n, ok := streamOrdinal(s); ok && n > max {
			max = n
		}
	}
	return streamFromOrdinal(max + 1)
}

// streamOrdinal maps "A" to 1, "Z" to 26, "AA" to 27.
func streamOrdinal(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return 0, false
		}
		n = n*26 + int(r-'A'+1)
	}
	return n, true
}

func streamFromOrdinal(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
