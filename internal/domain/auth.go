package domain

// SubjectType differentiates user vs admin tokens.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "USER"
	SubjectTypeAdmin SubjectType = "ADMIN"
)

// Actor is the read-only identity snapshot handed to intake and lifecycle calls.
type Actor struct {
	Type      SubjectType
	ID        int64
	FullName  string
	StudentID string
	Email     string
	Username  string
}
