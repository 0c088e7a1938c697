package freshlearn

import (
	"context"
)

// API defines the interface for Freshlearn member operations
type API interface {
	// GetMembers lists all members
	GetMembers(ctx context.Context, opts ...RequestOption) (*Response[[]Member], error)

	// CreateMember creates a new member
	CreateMember(ctx context.Context, member CreateMemberRequest, opts ...RequestOption) (*Response[Member], error)

	// UpdateMember updates an existing member
	UpdateMember(ctx context.Context, member UpdateMemberRequest, opts ...RequestOption) (*Response[Member], error)

	// EnrollMember enrolls a member in a course plan
	EnrollMember(ctx context.Context, enrollment EnrollMemberRequest, opts ...RequestOption) (*Response[Payload], error)

	// GetCompletedCourses lists courses completed by members
	GetCompletedCourses(ctx context.Context, opts ...RequestOption) (*Response[[]CompletedCourse], error)

	// CreateMemberAndEnroll creates a member and enrolls them in one call
	CreateMemberAndEnroll(ctx context.Context, data CreateMemberAndEnrollRequest, opts ...RequestOption) (*Response[Payload], error)

	// UnenrollMember removes a member from a course
	UnenrollMember(ctx context.Context, data UnenrollMemberRequest, opts ...RequestOption) (*Response[Payload], error)

	// EnrollProductBundle enrolls a member in a product bundle
	EnrollProductBundle(ctx context.Context, data EnrollProductBundleRequest, opts ...RequestOption) (*Response[Payload], error)
}

var _ API = (*Client)(nil)
