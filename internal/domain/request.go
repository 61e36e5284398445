package domain

import (
	"fmt"
	"time"
)

type RequestType string

const (
	RequestTypeJoin       RequestType = "join"
	RequestTypeAdmin      RequestType = "admin"
	RequestTypeRoleChange RequestType = "roleChange"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type RequestAction string

const (
	RequestActionApprove RequestAction = "approve"
	RequestActionReject  RequestAction = "reject"
)

// Request is the unified workflow entity covering join, admin, and roleChange
// approvals. Exactly one set of discriminator fields is populated per type:
// join carries Email+OrgID, admin carries TargetUserID+DepartmentID, and
// roleChange carries TargetUserID. A request is immutable once it leaves
// pending.
type Request struct {
	ID            int32         `json:"id"`
	Type          RequestType   `json:"type"`
	SenderID      int32         `json:"sender_id"`
	TargetUserID  *int32        `json:"target_user_id,omitempty"`
	Email         string        `json:"email,omitempty"`
	OrgID         *int32        `json:"org_id,omitempty"`
	DepartmentID  *int32        `json:"department_id,omitempty"`
	RequestedRole Role          `json:"requested_role"`
	Message       string        `json:"message,omitempty"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty"`
}

// IsTerminal reports whether the request has reached approved or rejected.
func (r *Request) IsTerminal() bool {
	return r.Status != RequestStatusPending
}

// RequestInput carries the caller-supplied fields for creating a request.
type RequestInput struct {
	Type          RequestType `json:"type"`
	TargetUserID  *int32      `json:"target_user_id"`
	Email         string      `json:"email"`
	OrgID         *int32      `json:"org_id"`
	DepartmentID  *int32      `json:"department_id"`
	RequestedRole Role        `json:"requested_role"`
	Message       string      `json:"message"`
	// JoinCode may stand in for OrgID on join requests; the workflow resolves
	// it to the owning org before validation.
	JoinCode string `json:"join_code"`
}

// Validate checks the type-specific required fields. It returns an error
// wrapping ErrValidation when a discriminator field is missing or a value
// falls outside its closed enumeration.
func (in *RequestInput) Validate() error {
	if in.RequestedRole == "" {
		in.RequestedRole = RoleUser
	}
	if !ValidRole(in.RequestedRole) {
		return fmt.Errorf("%w: unknown requested role %q", ErrValidation, in.RequestedRole)
	}
	switch in.Type {
	case RequestTypeJoin:
		if in.Email == "" || in.OrgID == nil {
			return fmt.Errorf("%w: join request requires email and org_id", ErrValidation)
		}
	case RequestTypeAdmin:
		if in.TargetUserID == nil || in.DepartmentID == nil {
			return fmt.Errorf("%w: admin request requires target_user_id and department_id", ErrValidation)
		}
	case RequestTypeRoleChange:
		if in.TargetUserID == nil {
			return fmt.Errorf("%w: roleChange request requires target_user_id", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown request type %q", ErrValidation, in.Type)
	}
	return nil
}

// ListScope selects the visibility rule for listing requests.
type ListScope string

const (
	// ScopeVisibleToAdmin lists pending requests inside the caller's admin
	// reach: everything for superAdmin, the caller's descendant-org closure
	// for orgAdmin and deptAdmin.
	ScopeVisibleToAdmin ListScope = "visible-to-admin"

	// ScopeAddressedToMe lists pending requests targeting the caller by user
	// id or by email, covering invited-by-email flows before the invitee has
	// an account-linked id.
	ScopeAddressedToMe ListScope = "addressed-to-me"
)
