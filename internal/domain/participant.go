package domain

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is the trusted role claimed by the identity token at connect time.
type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleInstructor:
		return RoleInstructor, nil
	case RoleStudent:
		return RoleStudent, nil
	}
	return "", ErrUnknownRole
}

// Other returns the opposite role, used to compute forward targets for
// candidate messages.
func (r Role) Other() Role {
	if r == RoleInstructor {
		return RoleStudent
	}
	return RoleInstructor
}

// Participant represents one connected socket's membership meta within a
// session. No transport or lifecycle logic here.
type Participant struct {
	Subject string
	Role    Role
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
func NewParticipant(subject string, role Role) *Participant {
	return &Participant{Subject: subject, Role: role}
}
