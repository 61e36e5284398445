package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securestore-backend/internal/domain"
	"securestore-backend/internal/logger"
	"securestore-backend/internal/repository"
)

type requestWorkflow struct {
	store    repository.Store
	resolver HierarchyResolver
	emailSvc EmailService
}

func NewRequestWorkflow(store repository.Store, resolver HierarchyResolver, emailSvc EmailService) RequestWorkflow {
	return &requestWorkflow{
		store:    store,
		resolver: resolver,
		emailSvc: emailSvc,
	}
}

func (s *requestWorkflow) Create(ctx context.Context, actorID int32, input *domain.RequestInput) (*domain.Request, error) {
	// A join code stands in for an explicit org id when the sender only holds
	// the code handed out by an org admin.
	if input.Type == domain.RequestTypeJoin && input.OrgID == nil && input.JoinCode != "" {
		org, err := s.store.Organizations().GetByJoinCode(ctx, input.JoinCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown join code", domain.ErrValidation)
			}
			return nil, err
		}
		input.OrgID = &org.ID
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if input.Type == domain.RequestTypeAdmin {
		if err := s.authorizeAdminCreate(ctx, actor, *input.DepartmentID); err != nil {
			return nil, err
		}
	}

	req := &domain.Request{
		Type:          input.Type,
		SenderID:      actor.ID,
		TargetUserID:  input.TargetUserID,
		Email:         input.Email,
		OrgID:         input.OrgID,
		DepartmentID:  input.DepartmentID,
		RequestedRole: input.RequestedRole,
		Message:       input.Message,
		Status:        domain.RequestStatusPending,
	}

	// Check and insert run in one transaction; the partial unique indexes on
	// pending rows are the backstop for the window between the two.
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		exists, err := tx.Requests().HasPendingDuplicate(ctx, req)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: a pending %s request for this target already exists", domain.ErrConflict, req.Type)
		}
		return tx.Requests().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, req)
	return req, nil
}

// authorizeAdminCreate enforces the admin-type rule: the department must be a
// department node, and the actor is either superAdmin or an admin whose org is
// the department's immediate parent.
func (s *requestWorkflow) authorizeAdminCreate(ctx context.Context, actor *domain.User, departmentID int32) error {
	dept, err := s.store.Organizations().GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: department %d does not exist", domain.ErrValidation, departmentID)
		}
		return err
	}
	if dept.Type != domain.OrgTypeDepartment {
		return fmt.Errorf("%w: org %d is not a department", domain.ErrValidation, departmentID)
	}
	if actor.Role == domain.RoleSuperAdmin {
		return nil
	}
	if actor.Role.IsAdmin() && actor.OrgID != nil && dept.ParentID != nil && *actor.OrgID == *dept.ParentID {
		return nil
	}
	return fmt.Errorf("%w: only a superAdmin or the parent-org admin may nominate a department admin", domain.ErrAuthorization)
}

func (s *requestWorkflow) List(ctx context.Context, actorID int32, scope domain.ListScope) ([]domain.Request, error) {
	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch scope {
	case domain.ScopeVisibleToAdmin:
		if !actor.Role.IsAdmin() {
			return nil, fmt.Errorf("%w: admin scope requires an admin role", domain.ErrAuthorization)
		}
		if actor.Role == domain.RoleSuperAdmin {
			return s.store.Requests().ListPending(ctx)
		}
		if actor.OrgID == nil {
			return nil, fmt.Errorf("%w: admin has no org scope", domain.ErrAuthorization)
		}
		ids, err := s.resolver.DescendantIDs(ctx, *actor.OrgID)
		if err != nil {
			return nil, err
		}
		return s.store.Requests().ListPendingByOrgIDs(ctx, idSlice(ids))

	case domain.ScopeAddressedToMe:
		return s.store.Requests().ListPendingForUser(ctx, actor.ID, actor.Email)

	default:
		return nil, fmt.Errorf("%w: unknown list scope %q", domain.ErrValidation, scope)
	}
}

func (s *requestWorkflow) Act(ctx context.Context, actorID, requestID int32, action domain.RequestAction) (*domain.Request, *domain.User, error) {
	if action != domain.RequestActionApprove && action != domain.RequestActionReject {
		return nil, nil, fmt.Errorf("%w: unknown action %q", domain.ErrValidation, action)
	}

	actor, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}

	req, err := s.store.Requests().GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.IsTerminal() {
		return nil, nil, fmt.Errorf("%w: request %d is already %s", domain.ErrConflict, req.ID, req.Status)
	}

	if err := s.authorizeAct(ctx, actor, req); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	status := domain.RequestStatusRejected
	if action == domain.RequestActionApprove {
		status = domain.RequestStatusApproved
	}

	// The user mutation and the status flip share one transaction: a mutation
	// failure rolls everything back and leaves the request pending, and the
	// conditional update makes the second of two concurrent approvers lose.
	var mutated *domain.User
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if action == domain.RequestActionApprove {
			mutated, err = s.applyApproval(ctx, tx, req)
			if err != nil {
				return err
			}
		}
		ok, err := tx.Requests().FinishIfPending(ctx, req.ID, status, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: request %d was processed concurrently", domain.ErrConflict, req.ID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	req.Status = status
	req.ProcessedAt = &now
	s.notifyDecision(ctx, req, mutated)
	return req, mutated, nil
}

// authorizeAct mirrors the visible-to-admin listing rule for the request's
// scope, and additionally lets the target of a request decide it (accepting
// one's own promotion).
func (s *requestWorkflow) authorizeAct(ctx context.Context, actor *domain.User, req *domain.Request) error {
	if req.TargetUserID != nil && *req.TargetUserID == actor.ID {
		return nil
	}
	if actor.Role == domain.RoleSuperAdmin {
		return nil
	}
	if !actor.Role.IsAdmin() || actor.OrgID == nil {
		return fmt.Errorf("%w: not allowed to decide this request", domain.ErrAuthorization)
	}

	scopeID := req.OrgID
	if req.Type == domain.RequestTypeAdmin {
		scopeID = req.DepartmentID
	}
	if scopeID == nil {
		return fmt.Errorf("%w: not allowed to decide this request", domain.ErrAuthorization)
	}

	ids, err := s.resolver.DescendantIDs(ctx, *actor.OrgID)
	if err != nil {
		return err
	}
	if _, ok := ids[*scopeID]; !ok {
		return fmt.Errorf("%w: request is outside your org scope", domain.ErrAuthorization)
	}
	return nil
}

// applyApproval performs the type-specific side effect on the user record.
// The admin type always lands on deptAdmin no matter what role was requested;
// that matches the observed behavior of the workflow this replaces and stays
// until product says otherwise.
func (s *requestWorkflow) applyApproval(ctx context.Context, tx repository.Store, req *domain.Request) (*domain.User, error) {
	switch req.Type {
	case domain.RequestTypeJoin:
		user, err := tx.Users().GetByEmail(ctx, req.Email)
		if errors.Is(err, domain.ErrNotFound) {
			user = &domain.User{
				Email: req.Email,
				Role:  req.RequestedRole,
				OrgID: req.OrgID,
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				return nil, err
			}
			return user, nil
		}
		if err != nil {
			return nil, err
		}
		user.Role = req.RequestedRole
		user.OrgID = req.OrgID
		if err := tx.Users().Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil

	case domain.RequestTypeAdmin:
		target, err := tx.Users().GetByID(ctx, *req.TargetUserID)
		if err != nil {
			return nil, err
		}
		target.Role = domain.RoleDeptAdmin
		target.OrgID = req.DepartmentID
		if err := tx.Users().Update(ctx, target); err != nil {
			return nil, err
		}
		if err := s.recordDeptAdmin(ctx, tx, *req.DepartmentID, target.ID); err != nil {
			return nil, err
		}
		return target, nil

	case domain.RequestTypeRoleChange:
		target, err := tx.Users().GetByID(ctx, *req.TargetUserID)
		if err != nil {
			return nil, err
		}
		target.Role = req.RequestedRole
		if err := tx.Users().Update(ctx, target); err != nil {
			return nil, err
		}
		return target, nil
	}
	return nil, fmt.Errorf("%w: unknown request type %q", domain.ErrValidation, req.Type)
}

// recordDeptAdmin keeps the department's admin set in step with the role grant.
func (s *requestWorkflow) recordDeptAdmin(ctx context.Context, tx repository.Store, departmentID, userID int32) error {
	dept, err := tx.Organizations().GetByID(ctx, departmentID)
	if err != nil {
		return err
	}
	for _, id := range dept.AdminIDs {
		if id == userID {
			return nil
		}
	}
	dept.AdminIDs = append(dept.AdminIDs, userID)
	return tx.Organizations().Update(ctx, dept)
}

// notifyCreated informs the target of a freshly created request, in-app when
// the target has an account and by email when an address is known. Failures
// are logged, never surfaced.
func (s *requestWorkflow) notifyCreated(ctx context.Context, req *domain.Request) {
	if req.TargetUserID != nil {
		note := &domain.Notification{
			UserID:  *req.TargetUserID,
			Message: fmt.Sprintf("A %s request concerning you is awaiting a decision.", req.Type),
		}
		if err := s.store.Notifications().Create(ctx, note); err != nil {
			logger.Warn("Failed to write request notification", "request_id", req.ID, "error", err)
		}
	}

	if s.emailSvc == nil || req.Email == "" {
		return
	}
	orgName := s.scopeOrgName(ctx, req)
	if err := s.emailSvc.SendRequestReceived(ctx, req.Email, "", orgName, req.Type); err != nil {
		logger.Warn("Failed to send request-received email", "request_id", req.ID, "error", err)
	}
}

// notifyDecision informs the affected user in-app and by email, best-effort.
func (s *requestWorkflow) notifyDecision(ctx context.Context, req *domain.Request, user *domain.User) {
	if user != nil {
		note := &domain.Notification{
			UserID:  user.ID,
			Message: fmt.Sprintf("Your %s request was %s.", req.Type, req.Status),
		}
		if err := s.store.Notifications().Create(ctx, note); err != nil {
			logger.Warn("Failed to write decision notification", "request_id", req.ID, "error", err)
		}
	}

	if s.emailSvc == nil {
		return
	}
	email := req.Email
	name := ""
	if user != nil {
		email = user.Email
		name = user.Name
	}
	if email == "" {
		return
	}
	orgName := s.scopeOrgName(ctx, req)
	if err := s.emailSvc.SendRequestDecision(ctx, email, name, orgName, req.Status, req.Message); err != nil {
		logger.Warn("Failed to send decision email", "request_id", req.ID, "error", err)
	}
}

func (s *requestWorkflow) scopeOrgName(ctx context.Context, req *domain.Request) string {
	scopeID := req.OrgID
	if req.Type == domain.RequestTypeAdmin {
		scopeID = req.DepartmentID
	}
	if scopeID == nil {
		return ""
	}
	org, err := s.store.Organizations().GetByID(ctx, *scopeID)
	if err != nil {
		return ""
	}
	return org.Name
}

func idSlice(ids map[int32]struct{}) []int32 {
	out := make([]int32, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}
