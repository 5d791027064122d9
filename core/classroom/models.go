package classroom

import (
	"crypto/rand"
	"time"
)

// codeCharset is the alphabet class codes are drawn from.
const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength  = 6
)

// Classroom binds a teacher to the class code their students join with.
type Classroom struct {
	Code         string    `json:"code"`
	TeacherEmail string    `json:"teacher_email"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// GenerateCode returns a random 6-character uppercase alphanumeric class code.
// Uniqueness against existing classrooms is the Service's job.
func GenerateCode() string {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}
