package domain_test

import (
	"testing"

	"securestore-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRequestInput_Validate(t *testing.T) {
	orgID := int32(5)
	deptID := int32(2)
	targetID := int32(7)

	tests := []struct {
		name    string
		input   domain.RequestInput
		wantErr bool
	}{
		{
			name:  "Valid Join",
			input: domain.RequestInput{Type: domain.RequestTypeJoin, Email: "a@test.com", OrgID: &orgID},
		},
		{
			name:    "Join Missing Email",
			input:   domain.RequestInput{Type: domain.RequestTypeJoin, OrgID: &orgID},
			wantErr: true,
		},
		{
			name:    "Join Missing Org",
			input:   domain.RequestInput{Type: domain.RequestTypeJoin, Email: "a@test.com"},
			wantErr: true,
		},
		{
			name:  "Valid Admin",
			input: domain.RequestInput{Type: domain.RequestTypeAdmin, TargetUserID: &targetID, DepartmentID: &deptID},
		},
		{
			name:    "Admin Missing Department",
			input:   domain.RequestInput{Type: domain.RequestTypeAdmin, TargetUserID: &targetID},
			wantErr: true,
		},
		{
			name:  "Valid RoleChange",
			input: domain.RequestInput{Type: domain.RequestTypeRoleChange, TargetUserID: &targetID, RequestedRole: domain.RoleOrgAdmin},
		},
		{
			name:    "RoleChange Missing Target",
			input:   domain.RequestInput{Type: domain.RequestTypeRoleChange},
			wantErr: true,
		},
		{
			name:    "Unknown Type",
			input:   domain.RequestInput{Type: domain.RequestType("transfer"), TargetUserID: &targetID},
			wantErr: true,
		},
		{
			name:    "Unknown Requested Role",
			input:   domain.RequestInput{Type: domain.RequestTypeRoleChange, TargetUserID: &targetID, RequestedRole: domain.Role("czar")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestInput_ValidateDefaultsRole(t *testing.T) {
	orgID := int32(5)
	input := domain.RequestInput{Type: domain.RequestTypeJoin, Email: "a@test.com", OrgID: &orgID}

	assert.NoError(t, input.Validate())
	assert.Equal(t, domain.RoleUser, input.RequestedRole)
}

func TestRequest_IsTerminal(t *testing.T) {
	assert.False(t, (&domain.Request{Status: domain.RequestStatusPending}).IsTerminal())
	assert.True(t, (&domain.Request{Status: domain.RequestStatusApproved}).IsTerminal())
	assert.True(t, (&domain.Request{Status: domain.RequestStatusRejected}).IsTerminal())
}

func TestRole_Helpers(t *testing.T) {
	assert.True(t, domain.RoleSuperAdmin.IsAdmin())
	assert.True(t, domain.RoleOrgAdmin.IsAdmin())
	assert.True(t, domain.RoleDeptAdmin.IsAdmin())
	assert.False(t, domain.RoleUser.IsAdmin())

	assert.True(t, domain.RoleOrgAdmin.Outranks(domain.RoleDeptAdmin))
	assert.False(t, domain.RoleDeptAdmin.Outranks(domain.RoleOrgAdmin))
	assert.False(t, domain.RoleUser.Outranks(domain.RoleUser))
}
