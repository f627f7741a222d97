package service

import (
	"context"

	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/sanitize"
)

// MsgMemberNotFound is returned for missing member profiles.
const MsgMemberNotFound = "Membre introuvable"

// MemberService manages band member bios.
type MemberService struct {
	members repository.MemberRepository
	policy  auth.Policy
}

// MemberInput is the writable state of a member profile. DisplayOrder and
// UserID are only applied for callers with unconditional update rights.
type MemberInput struct {
	Name         string
	Instrument   string
	Bio          string
	PhotoURL     *string
	DisplayOrder *int
	UserID       *string
}

// NewMemberService constructs the service.
func NewMemberService(members repository.MemberRepository, policy auth.Policy) *MemberService {
	return &MemberService{members: members, policy: policy}
}

// List returns every member ordered for display.
func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	return s.members.List(ctx)
}

// Get returns member id.
func (s *MemberService) Get(ctx context.Context, id string) (*domain.Member, error) {
	if err := requireID(id, MsgMemberNotFound); err != nil {
		return nil, err
	}
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgMemberNotFound)
	}
	return m, nil
}

// Create stores a new profile.
func (s *MemberService) Create(ctx context.Context, input MemberInput) (*domain.Member, error) {
	m := &domain.Member{}
	applyMemberInput(m, input, true)
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update edits member id. An ARTIST may only edit the profile linked to their account.
func (s *MemberService) Update(ctx context.Context, actor *domain.Identity, id string, input MemberInput) (*domain.Member, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	perm := auth.Can(auth.ActionUpdate, auth.ResourceMembers)
	if err := s.policy.AuthorizeOwned(actor, perm, m.OwnerID()); err != nil {
		return nil, auth.AsHTTPError(err)
	}

	applyMemberInput(m, input, s.policy.IsAllowed(actor, perm))
	if err := s.members.Update(ctx, m); err != nil {
		return nil, notFound(err, MsgMemberNotFound)
	}
	return m, nil
}

// Delete removes member id.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgMemberNotFound); err != nil {
		return err
	}
	return notFound(s.members.Delete(ctx, id), MsgMemberNotFound)
}

func applyMemberInput(m *domain.Member, in MemberInput, privileged bool) {
	m.Name = sanitize.Text(in.Name)
	m.Instrument = sanitize.Text(in.Instrument)
	m.Bio = sanitize.HTML(in.Bio)
	m.PhotoURL = trimPtr(in.PhotoURL)
	if !privileged {
		return
	}
	if in.DisplayOrder != nil {
		m.DisplayOrder = *in.DisplayOrder
	}
	if in.UserID != nil {
		m.UserID = trimPtr(in.UserID)
	}
}
