package filter

import (
	"strings"
	"time"

	"github.com/s0up4200/freshlearn/freshlearn"
)

// MemberEnv exposes a member's fields to filter expressions.
// Timestamps are parsed as RFC 3339; unparsable values are the zero time.
func MemberEnv(m freshlearn.Member) map[string]any {
	return map[string]any{
		"ID":        m.ID,
		"Email":     m.Email,
		"FullName":  m.FullName,
		"Phone":     m.Phone,
		"City":      m.City,
		"Source":    m.Source,
		"CreatedAt": parseTimestamp(m.CreatedAt),
		"UpdatedAt": parseTimestamp(m.UpdatedAt),
		"domain":    emailDomain(m.Email),
	}
}

// CourseEnv exposes a completed course's fields to filter expressions.
func CourseEnv(c freshlearn.CompletedCourse) map[string]any {
	return map[string]any{
		"CourseID":    c.CourseID,
		"CourseName":  c.CourseName,
		"MemberEmail": c.MemberEmail,
		"MemberName":  c.MemberName,
		"CompletedAt": parseTimestamp(c.CompletedAt),
		"domain":      emailDomain(c.MemberEmail),
	}
}

// Apply returns the items matching f, preserving order.
func Apply[T any](f Filter, items []T, env func(T) map[string]any) []T {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if f.Evaluate(env(item)) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Members returns the members matching f
func Members(f Filter, members []freshlearn.Member) []freshlearn.Member {
	return Apply(f, members, MemberEnv)
}

// Courses returns the completed courses matching f
func Courses(f Filter, courses []freshlearn.CompletedCourse) []freshlearn.CompletedCourse {
	return Apply(f, courses, CourseEnv)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func emailDomain(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return ""
	}
	return strings.ToLower(domain)
}
