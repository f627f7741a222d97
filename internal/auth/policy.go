package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/domain"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Resource names a protected collection.
type Resource string

const (
	ResourceEvents       Resource = "events"
	ResourcePerformances Resource = "performances"
	ResourceMembers      Resource = "members"
	ResourceMedia        Resource = "media"
	ResourceSettings     Resource = "settings"
	ResourceSocialLinks  Resource = "social_links"
	ResourceComments     Resource = "comments"
	ResourceLikes        Resource = "likes"
	ResourceUsers        Resource = "users"
)

// Action is a verb applied to a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Permission identifies one cell of the policy table.
type Permission struct {
	Resource Resource
	Action   Action
}

// Can is shorthand for building a Permission.
func Can(action Action, resource Resource) Permission {
	return Permission{Resource: resource, Action: action}
}

// Rule lists the roles allowed for a permission. OwnerRoles are only allowed
// when acting on a resource they own.
type Rule struct {
	Roles      []domain.Role
	OwnerRoles []domain.Role
}

// Policy maps permissions to rules. A permission missing from the table is denied.
type Policy map[Permission]Rule

var (
	anyRole     = []domain.Role{domain.RoleUser, domain.RoleArtist, domain.RoleAdmin}
	adminOnly   = []domain.Role{domain.RoleAdmin}
	adminArtist = []domain.Role{domain.RoleAdmin, domain.RoleArtist}
)

// DefaultPolicy is the authorization table for the site API.
func DefaultPolicy() Policy {
	p := Policy{}
	for _, res := range []Resource{ResourceEvents, ResourcePerformances, ResourceSettings, ResourceSocialLinks} {
		p[Can(ActionCreate, res)] = Rule{Roles: adminOnly}
		p[Can(ActionUpdate, res)] = Rule{Roles: adminOnly}
		p[Can(ActionDelete, res)] = Rule{Roles: adminOnly}
	}

	p[Can(ActionCreate, ResourceMembers)] = Rule{Roles: adminOnly}
	p[Can(ActionUpdate, ResourceMembers)] = Rule{Roles: adminOnly, OwnerRoles: []domain.Role{domain.RoleArtist}}
	p[Can(ActionDelete, ResourceMembers)] = Rule{Roles: adminOnly}

	p[Can(ActionCreate, ResourceMedia)] = Rule{Roles: adminArtist}
	p[Can(ActionUpdate, ResourceMedia)] = Rule{Roles: adminOnly, OwnerRoles: []domain.Role{domain.RoleArtist}}
	p[Can(ActionDelete, ResourceMedia)] = Rule{Roles: adminOnly, OwnerRoles: []domain.Role{domain.RoleArtist}}

	p[Can(ActionCreate, ResourceComments)] = Rule{Roles: anyRole}
	p[Can(ActionDelete, ResourceComments)] = Rule{Roles: adminOnly, OwnerRoles: []domain.Role{domain.RoleUser, domain.RoleArtist}}

	p[Can(ActionCreate, ResourceLikes)] = Rule{Roles: anyRole}

	p[Can(ActionRead, ResourceUsers)] = Rule{Roles: adminOnly}
	p[Can(ActionUpdate, ResourceUsers)] = Rule{Roles: adminOnly}
	return p
}

// Authorize succeeds iff the caller is present and its role appears in the
// rule, either unconditionally or as a potential owner.
func (p Policy) Authorize(id *domain.Identity, perm Permission) error {
	if id == nil {
		return ErrUnauthenticated
	}
	rule, ok := p[perm]
	if !ok {
		return ErrForbidden
	}
	if hasRole(rule.Roles, id.Role) || hasRole(rule.OwnerRoles, id.Role) {
		return nil
	}
	return ErrForbidden
}

// AuthorizeOwned is Authorize for a concrete resource: owner-only roles pass
// when the caller's id matches ownerID.
func (p Policy) AuthorizeOwned(id *domain.Identity, perm Permission, ownerID string) error {
	if id == nil {
		return ErrUnauthenticated
	}
	rule, ok := p[perm]
	if !ok {
		return ErrForbidden
	}
	if hasRole(rule.Roles, id.Role) {
		return nil
	}
	if hasRole(rule.OwnerRoles, id.Role) && ownerID != "" && ownerID == id.ID {
		return nil
	}
	return ErrForbidden
}

// IsAllowed reports whether the caller passes the unconditional part of the rule.
func (p Policy) IsAllowed(id *domain.Identity, perm Permission) bool {
	if id == nil {
		return false
	}
	return hasRole(p[perm].Roles, id.Role)
}

func hasRole(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AsHTTPError translates policy failures to API errors.
func AsHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnauthenticated):
		return apperrors.NewUnauthorized(apperrors.MsgUnauthenticated)
	case errors.Is(err, ErrForbidden):
		return apperrors.NewForbidden(apperrors.MsgForbidden)
	default:
		return err
	}
}

// RequirePermission gates a route on the role part of the policy. Ownership is
// checked later, once the resource is loaded.
func RequirePermission(policy Policy, perm Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := IdentityFromContext(c)
		if err := policy.Authorize(id, perm); err != nil {
			return AsHTTPError(err)
		}
		return c.Next()
	}
}
