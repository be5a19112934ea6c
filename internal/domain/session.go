// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const MaxTitleLen = 120

var (
	ErrTitleEmpty   = errors.New("title empty")
	ErrTitleTooLong = errors.New("title too long")
)

type (
	SessionID string
	CourseID  string
)

// Session identifies one live broadcast instance of a course.
// Live is toggled by the instructor's start/end actions; the relay only
// reads it when deciding whether a student may join.
type Session struct {
	ID       SessionID `json:"id"`
	CourseID CourseID  `json:"courseId"`
	Title    string    `json:"title"`
	Live     bool      `json:"live"`
}

// NewSession is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewSession(courseID CourseID, title string) (*Session, error) {
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return nil, ErrTitleEmpty
	}
	if len(title) > MaxTitleLen {
		return nil, ErrTitleTooLong
	}
	return &Session{
		ID:       SessionID(uuid.NewString()),
		CourseID: courseID,
		Title:    title,
	}, nil
}
