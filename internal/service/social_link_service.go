package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/sanitize"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Social link messages.
const (
	MsgSocialLinkNotFound = "Lien social introuvable"
	MsgSocialLinkExists   = "Un lien social avec ce nom existe déjà"
)

// SocialLinkService manages the band's profile links.
type SocialLinkService struct {
	links repository.SocialLinkRepository
}

// SocialLinkInput is the writable state of a link.
type SocialLinkInput struct {
	Name         string
	URL          string
	Icon         *string
	DisplayOrder int
}

// NewSocialLinkService constructs the service.
func NewSocialLinkService(links repository.SocialLinkRepository) *SocialLinkService {
	return &SocialLinkService{links: links}
}

// List returns links ordered for display.
func (s *SocialLinkService) List(ctx context.Context) ([]domain.SocialLink, error) {
	return s.links.List(ctx)
}

// Create stores a new link. Names are unique.
func (s *SocialLinkService) Create(ctx context.Context, input SocialLinkInput) (*domain.SocialLink, error) {
	link := &domain.SocialLink{}
	applySocialLinkInput(link, input)
	if err := s.links.Create(ctx, link); err != nil {
		return nil, duplicateLink(err)
	}
	return link, nil
}

// Update replaces link id.
func (s *SocialLinkService) Update(ctx context.Context, id string, input SocialLinkInput) (*domain.SocialLink, error) {
	if err := requireID(id, MsgSocialLinkNotFound); err != nil {
		return nil, err
	}
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgSocialLinkNotFound)
	}
	applySocialLinkInput(link, input)
	if err := s.links.Update(ctx, link); err != nil {
		return nil, notFound(duplicateLink(err), MsgSocialLinkNotFound)
	}
	return link, nil
}

// Delete removes link id.
func (s *SocialLinkService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgSocialLinkNotFound); err != nil {
		return err
	}
	return notFound(s.links.Delete(ctx, id), MsgSocialLinkNotFound)
}

func applySocialLinkInput(link *domain.SocialLink, in SocialLinkInput) {
	link.Name = sanitize.Text(in.Name)
	link.URL = strings.TrimSpace(in.URL)
	link.Icon = trimPtr(in.Icon)
	link.DisplayOrder = in.DisplayOrder
}

func duplicateLink(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict(MsgSocialLinkExists)
	}
	return err
}
