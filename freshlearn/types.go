package freshlearn

// Member represents a Freshlearn member
type Member struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
	Source    string `json:"source"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// CreateMemberRequest is the payload for creating a member
type CreateMemberRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Source   string `json:"source" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	City     string `json:"city,omitempty"`
}

// UpdateMemberRequest is the payload for updating a member.
// The embedded fields are flattened on the wire.
type UpdateMemberRequest struct {
	CreateMemberRequest
	ID string `json:"id,omitempty"`
}

// EnrollMemberRequest enrolls an existing member in a course plan
type EnrollMemberRequest struct {
	CourseID      string `json:"courseId" validate:"required"`
	PlanID        string `json:"planId" validate:"required"`
	MemberEmail   string `json:"memberEmail" validate:"required,email"`
	TransactionID string `json:"transactionId" validate:"required"`
	Source        string `json:"source" validate:"required"`
}

// CreateMemberAndEnrollRequest creates a member and enrolls them in one call
type CreateMemberAndEnrollRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"fullName" validate:"required"`
	Source        string `json:"source" validate:"required"`
	Phone         string `json:"phone,omitempty"`
	City          string `json:"city,omitempty"`
	CourseID      string `json:"courseId" validate:"required"`
	PlanID        string `json:"planId" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
}

// UnenrollMemberRequest removes a member from a course
type UnenrollMemberRequest struct {
	CourseID    string `json:"courseId" validate:"required"`
	MemberEmail string `json:"memberEmail" validate:"required,email"`
}

// EnrollProductBundleRequest enrolls a member in every course of a product bundle
type EnrollProductBundleRequest struct {
	ProductBundleID string `json:"productBundleId" validate:"required"`
	MemberEmail     string `json:"memberEmail" validate:"required,email"`
	TransactionID   string `json:"transactionId" validate:"required"`
	Source          string `json:"source" validate:"required"`
}

// CompletedCourse is a course a member has finished
type CompletedCourse struct {
	CourseID    string `json:"courseId"`
	CourseName  string `json:"courseName"`
	MemberEmail string `json:"memberEmail"`
	MemberName  string `json:"memberName"`
	CompletedAt string `json:"completedAt"`
}

// Response is the uniform result of every operation.
//
// On failure Data and Body still carry whatever the server sent, so callers
// can inspect the raw error payload next to Error.
type Response[T any] struct {
	Success    bool    `json:"success"`
	Data       T       `json:"data,omitempty"`
	Error      string  `json:"error,omitempty"`
	StatusCode int     `json:"-"`
	Body       Payload `json:"-"`
}

// Err returns the failure as an *APIError, or nil for a successful response.
func (r *Response[T]) Err() error {
	if r == nil || r.Success {
		return nil
	}
	return &APIError{
		StatusCode: r.StatusCode,
		Message:    r.Error,
		Body:       r.Body,
	}
}
