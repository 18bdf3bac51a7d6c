package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
)

var (
	// ErrPermissionDenied is an authenticated-but-forbidden decision. The
	// wrapped message names the required module/action for operator
	// diagnosability without leaking other users' grants.
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnknownModule    = errors.New("unknown module")
	ErrUnknownAction    = errors.New("unknown action")
)

// StatusReader pre-reads the current status of a target resource. It is the
// one side effect inside the authorization step: toggle-status endpoints
// derive their required action from the state of the entity being toggled.
type StatusReader interface {
	ResourceStatus(ctx context.Context, id int64) (int64, error)
}

// Requirement is the capability a route demands, attached at route
// registration and evaluated by a single middleware. Either Action is fixed,
// or Toggle derives the action from the target resource's current status.
type Requirement struct {
	Module string
	Action string
	Toggle *ToggleRule
	// SelfExempt waives the check when the ":id" route parameter names the
	// caller's own user id; the capability is demanded only for foreign
	// targets.
	SelfExempt bool
}

// ToggleRule maps the target's current status to the required action: an
// active resource demands the WhenActive capability (the caller is about to
// deactivate it), and vice versa.
type ToggleRule struct {
	WhenActive   string
	WhenInactive string
	Reader       StatusReader
}

// Require builds a fixed-action requirement.
func Require(module, action string) Requirement {
	return Requirement{Module: module, Action: action}
}

// RequireUnlessSelf builds a fixed-action requirement demanded only when the
// ":id" route parameter targets a user other than the caller. Users always
// manage their own account; touching someone else's takes the capability.
func RequireUnlessSelf(module, action string) Requirement {
	return Requirement{Module: module, Action: action, SelfExempt: true}
}

// RequireToggle builds a status-dependent requirement with the standard
// ACTIVATE/DEACTIVATE pair.
func RequireToggle(module string, reader StatusReader) Requirement {
	return Requirement{
		Module: module,
		Toggle: &ToggleRule{
			WhenActive:   "DEACTIVATE",
			WhenInactive: "ACTIVATE",
			Reader:       reader,
		},
	}
}

// PermissionService decides allow/deny by looking up effective grant rows.
// It never downgrades a failure to an allow: store errors deny.
type PermissionService struct {
	catalogRepo    repository.CatalogRepository
	permissionRepo repository.PermissionRepository
}

func NewPermissionService(catalogRepo repository.CatalogRepository, permissionRepo repository.PermissionRepository) *PermissionService {
	return &PermissionService{
		catalogRepo:    catalogRepo,
		permissionRepo: permissionRepo,
	}
}

// Authorize allows iff an effective grant row exists for the (user, module,
// action) tuple, constrained to the access key when one is present in
// context. A nil key skips the filter; only legacy tokens issued before
// access-key scoping hit that branch.
func (s *PermissionService) Authorize(ctx context.Context, userID int64, moduleName, actionName string, accessKeyID *int64) error {
	module, err := s.catalogRepo.GetModuleByName(ctx, moduleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownModule, moduleName)
		}
		return err
	}

	action, err := s.catalogRepo.GetActionByName(ctx, actionName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownAction, actionName)
		}
		return err
	}

	if accessKeyID == nil {
		log.Printf("[AUTHORIZER] No access key in context for user %d on %s/%s, skipping key filter", userID, moduleName, actionName)
	}

	allowed, err := s.permissionRepo.HasEffectiveGrant(ctx, userID, module.ID, action.ID, accessKeyID)
	if err != nil {
		// Fail closed: a store failure is a deny, never an allow.
		return fmt.Errorf("permission check failed: %w", err)
	}

	if !allowed {
		log.Printf("[AUTHORIZER] Denied user %d: module=%s action=%s access_key=%v", userID, moduleName, actionName, derefKey(accessKeyID))
		return fmt.Errorf("%w: %s/%s", ErrPermissionDenied, moduleName, actionName)
	}

	return nil
}

// Evaluate is the single evaluator behind the permission middleware. For
// toggle requirements it pre-reads the target resource's status to pick the
// required action; resourceID is ignored for fixed-action requirements.
func (s *PermissionService) Evaluate(ctx context.Context, userID int64, req Requirement, resourceID int64, accessKeyID *int64) error {
	actionName := req.Action

	if req.Toggle != nil {
		statusID, err := req.Toggle.Reader.ResourceStatus(ctx, resourceID)
		if err != nil {
			return err
		}

		if statusID == domain.StatusActive {
			actionName = req.Toggle.WhenActive
		} else {
			actionName = req.Toggle.WhenInactive
		}
	}

	return s.Authorize(ctx, userID, req.Module, actionName, accessKeyID)
}

func derefKey(id *int64) interface{} {
	if id == nil {
		return "none"
	}
	return *id
}
