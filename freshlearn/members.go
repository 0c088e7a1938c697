package freshlearn

import (
	"context"
	"net/http"
)

// API paths, relative to the base URL
const (
	MembersPath               = "/integration/member"
	UpdateMemberPath          = "/integration/member/update"
	EnrollMemberPath          = "/integration/member/enroll"
	CompletedCoursesPath      = "/integration/member/completed-courses"
	CreateMemberAndEnrollPath = "/integration/member/createMemberAndEnroll"
	UnenrollCoursePath        = "/integration/member/unenroll/course"
	EnrollProductBundlePath   = "/integration/member/enroll/productBundle"
)

// GetMembers retrieves all members
func (c *Client) GetMembers(ctx context.Context, opts ...RequestOption) (*Response[[]Member], error) {
	return Do[[]Member](ctx, c, http.MethodGet, MembersPath, nil, opts...)
}

// CreateMember creates a new member
func (c *Client) CreateMember(ctx context.Context, member CreateMemberRequest, opts ...RequestOption) (*Response[Member], error) {
	return Do[Member](ctx, c, http.MethodPost, MembersPath, member, opts...)
}

// UpdateMember updates an existing member
func (c *Client) UpdateMember(ctx context.Context, member UpdateMemberRequest, opts ...RequestOption) (*Response[Member], error) {
	return Do[Member](ctx, c, http.MethodPut, UpdateMemberPath, member, opts...)
}

// EnrollMember enrolls a member in a course plan
func (c *Client) EnrollMember(ctx context.Context, enrollment EnrollMemberRequest, opts ...RequestOption) (*Response[Payload], error) {
	return Do[Payload](ctx, c, http.MethodPost, EnrollMemberPath, enrollment, opts...)
}

// GetCompletedCourses retrieves the courses members have completed
func (c *Client) GetCompletedCourses(ctx context.Context, opts ...RequestOption) (*Response[[]CompletedCourse], error) {
	return Do[[]CompletedCourse](ctx, c, http.MethodGet, CompletedCoursesPath, nil, opts...)
}

// CreateMemberAndEnroll creates a member and enrolls them in a course plan
func (c *Client) CreateMemberAndEnroll(ctx context.Context, data CreateMemberAndEnrollRequest, opts ...RequestOption) (*Response[Payload], error) {
	return Do[Payload](ctx, c, http.MethodPost, CreateMemberAndEnrollPath, data, opts...)
}

// UnenrollMember removes a member from a course
func (c *Client) UnenrollMember(ctx context.Context, data UnenrollMemberRequest, opts ...RequestOption) (*Response[Payload], error) {
	return Do[Payload](ctx, c, http.MethodPost, UnenrollCoursePath, data, opts...)
}

// EnrollProductBundle enrolls a member in every course of a product bundle
func (c *Client) EnrollProductBundle(ctx context.Context, data EnrollProductBundleRequest, opts ...RequestOption) (*Response[Payload], error) {
	return Do[Payload](ctx, c, http.MethodPost, EnrollProductBundlePath, data, opts...)
}
