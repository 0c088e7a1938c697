package freshlearn

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds in-flight requests for batch operations
const DefaultBatchConcurrency = 4

// BatchEnrollResult contains the results of a batch enrollment
type BatchEnrollResult struct {
	Requested  int
	Successful []EnrollMemberRequest
	Failed     []EnrollError
}

// EnrollError contains information about a failed enrollment
type EnrollError struct {
	Request EnrollMemberRequest
	Err     error
}

// Error implements the error interface
func (e EnrollError) Error() string {
	return fmt.Sprintf("failed to enroll %s in course %s: %v", e.Request.MemberEmail, e.Request.CourseID, e.Err)
}

// Unwrap returns the underlying transport or API error
func (e EnrollError) Unwrap() error {
	return e.Err
}

// EnrollMembers enrolls members concurrently, one EnrollMember call per request.
// Failures are collected rather than stopping the batch; results keep input order.
func (c *Client) EnrollMembers(ctx context.Context, enrollments []EnrollMemberRequest, concurrency int, opts ...RequestOption) BatchEnrollResult {
	result := BatchEnrollResult{
		Requested: len(enrollments),
	}

	if len(enrollments) == 0 {
		return result
	}
	if concurrency < 1 {
		concurrency = DefaultBatchConcurrency
	}

	errs := make([]error, len(enrollments))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, enrollment := range enrollments {
		g.Go(func() error {
			resp, err := c.EnrollMember(ctx, enrollment, opts...)
			if err == nil {
				err = resp.Err()
			}
			if err != nil {
				c.logger.Warn().
					Err(err).
					Str("member", enrollment.MemberEmail).
					Str("course", enrollment.CourseID).
					Msg("Failed to enroll member")
			}
			errs[i] = err
			return nil // Don't stop on individual errors
		})
	}

	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			result.Failed = append(result.Failed, EnrollError{Request: enrollments[i], Err: err})
		} else {
			result.Successful = append(result.Successful, enrollments[i])
		}
	}

	return result
}
