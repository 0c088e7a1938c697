package freshlearn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr bool
		fields  []string
	}{
		{
			name: "valid create member",
			req: CreateMemberRequest{
				Email:    "new@example.com",
				FullName: "New User",
				Source:   "api",
			},
		},
		{
			name:    "create member missing fields",
			req:     CreateMemberRequest{Email: "not-an-email"},
			wantErr: true,
			fields:  []string{"Email (email)", "FullName (required)", "Source (required)"},
		},
		{
			name: "update member checks embedded fields",
			req: UpdateMemberRequest{
				ID:                  "123",
				CreateMemberRequest: CreateMemberRequest{FullName: "A", Source: "api"},
			},
			wantErr: true,
			fields:  []string{"Email (required)"},
		},
		{
			name: "valid enrollment",
			req: EnrollMemberRequest{
				CourseID:      "course-123",
				PlanID:        "plan-456",
				MemberEmail:   "member@example.com",
				TransactionID: "txn-789",
				Source:        "api",
			},
		},
		{
			name:    "unenroll missing course",
			req:     &UnenrollMemberRequest{MemberEmail: "member@example.com"},
			wantErr: true,
			fields:  []string{"CourseID (required)"},
		},
		{
			name:    "bundle missing everything",
			req:     EnrollProductBundleRequest{},
			wantErr: true,
			fields:  []string{"ProductBundleID (required)", "MemberEmail (required)"},
		},
		{
			name:    "not a struct",
			req:     "nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			for _, f := range tt.fields {
				assert.Contains(t, err.Error(), f)
			}
		})
	}
}
