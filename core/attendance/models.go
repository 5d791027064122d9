package attendance

import "time"

// DateLayout is the calendar-day format sessions are keyed by.
// The day is computed once at session start, from the local calendar
// date, and never re-derived afterwards.
const DateLayout = "2006-01-02"

type (
	// Record is one student's check-in. A session holds at most one record
	// per student name.
	Record struct {
		StudentName string    `json:"student_name"`
		Timestamp   time.Time `json:"timestamp"` // UTC
	}

	// Session is one attendance-taking window. At most one session per
	// classroom is active at any time.
	Session struct {
		ID        string   `json:"id"`
		Date      string   `json:"date"` // DateLayout
		IsActive  bool     `json:"is_active"`
		ClassCode string   `json:"class_code"`
		Records   []Record `json:"records"`
	}
)

// HasRecord reports whether the student already checked in to this session.
func (s Session) HasRecord(studentName string) bool {
	for _, r := range s.Records {
		if r.StudentName == studentName {
			return true
		}
	}
	return false
}
