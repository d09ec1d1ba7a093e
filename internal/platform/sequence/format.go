package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// Format describes one identifier family: a fixed prefix, a fixed digit
// width and the counter row that backs it.
type Format struct {
	Prefix  string
	Width   int
	Counter string
}

var (
	Employee   = Format{Prefix: "EMP", Width: 7, Counter: "employeeId"}
	Leave      = Format{Prefix: "LVE", Width: 7, Counter: "leaveId"}
	Attendance = Format{Prefix: "ATT", Width: 7, Counter: "attendanceId"}
	Salary     = Format{Prefix: "SAL", Width: 7, Counter: "salaryId"}
)

// Max returns the largest sequence number the fixed width can hold.
func (f Format) Max() int64 {
	max := int64(1)
	for i := 0; i < f.Width; i++ {
		max *= 10
	}
	return max - 1
}

// Apply renders a sequence number as a zero-padded identifier.
func (f Format) Apply(value int64) string {
	return fmt.Sprintf("%s%0*d", f.Prefix, f.Width, value)
}

// Parse extracts the numeric part of an identifier. It accepts any digit
// count so legacy short identifiers still scan.
func (f Format) Parse(id string) (int64, error) {
	if !strings.HasPrefix(id, f.Prefix) {
		return 0, fmt.Errorf("identifier %q lacks prefix %s", id, f.Prefix)
	}
	value, err := strconv.ParseInt(id[len(f.Prefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identifier %q: %w", id, err)
	}
	return value, nil
}

// Matches reports whether id is a well-formed identifier of this format.
func (f Format) Matches(id string) bool {
	if len(id) != len(f.Prefix)+f.Width || !strings.HasPrefix(id, f.Prefix) {
		return false
	}
	for _, r := range id[len(f.Prefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
