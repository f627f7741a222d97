package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/sanitize"
	"github.com/spec-kit/band-site/internal/storage"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Media messages.
const (
	MsgMediaNotFound     = "Média introuvable"
	MsgFileRequired      = "Fichier requis"
	MsgFileTooLarge      = "Fichier trop volumineux"
	MsgUnsupportedFormat = "Format de fichier non supporté"
)

// imageExtensions maps accepted upload types to the stored extension.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService manages the gallery.
type MediaService struct {
	media      repository.MediaRepository
	blobs      storage.BlobStore
	policy     auth.Policy
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxBytes   int64
}

// MediaDependencies bundles collaborators for the media service.
type MediaDependencies struct {
	MediaRepo      repository.MediaRepository
	Blobs          storage.BlobStore
	Policy         auth.Policy
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// MediaInput describes a gallery entry pointing at an external URL.
type MediaInput struct {
	Kind        domain.MediaKind
	Title       string
	Description string
	URL         string
}

// MediaUpdateInput carries editable metadata.
type MediaUpdateInput struct {
	Title       string
	Description string
	URL         *string
}

// UploadInput is an image file sent by the client.
type UploadInput struct {
	Title       string
	Description string
	Data        []byte
}

// MediaListInput filters the gallery.
type MediaListInput struct {
	Kind *domain.MediaKind
	Page PageRequest
}

// NewMediaService constructs the service.
func NewMediaService(deps MediaDependencies) *MediaService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{
		media:      deps.MediaRepo,
		blobs:      deps.Blobs,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		maxBytes:   deps.MaxUploadBytes,
	}
}

// List returns gallery entries, newest first.
func (s *MediaService) List(ctx context.Context, input MediaListInput) ([]domain.Media, PageInfo, error) {
	items, total, err := s.media.List(ctx, repository.MediaFilter{Kind: input.Kind, Page: input.Page.repo()})
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, pageInfo(input.Page, total), nil
}

// Get returns media id.
func (s *MediaService) Get(ctx context.Context, id string) (*domain.Media, error) {
	if err := requireID(id, MsgMediaNotFound); err != nil {
		return nil, err
	}
	m, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgMediaNotFound)
	}
	return m, nil
}

// Create records an external media link owned by actor.
func (s *MediaService) Create(ctx context.Context, actor *domain.Identity, input MediaInput) (*domain.Media, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized(apperrors.MsgUnauthenticated)
	}
	m := &domain.Media{
		Kind:        input.Kind,
		Title:       sanitize.Text(input.Title),
		Description: sanitize.Text(input.Description),
		URL:         strings.TrimSpace(input.URL),
		UploadedBy:  actor.ID,
	}
	if err := s.media.Create(ctx, m); err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventMediaUploaded, actor, m)
	return m, nil
}

// Upload stores an image in the blob store and records it in the gallery.
// The type is sniffed from the content, not taken from the client.
func (s *MediaService) Upload(ctx context.Context, actor *domain.Identity, input UploadInput) (*domain.Media, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized(apperrors.MsgUnauthenticated)
	}
	if len(input.Data) == 0 {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "file", Message: MsgFileRequired})
	}
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "file", Message: MsgFileTooLarge})
	}
	contentType := http.DetectContentType(input.Data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "file", Message: MsgUnsupportedFormat})
	}

	key := "media/" + strings.ToLower(ulid.Make().String()) + ext
	url, err := s.blobs.Put(ctx, key, input.Data)
	if err != nil {
		return nil, apperrors.NewServerError(err, "Échec de l'enregistrement du fichier")
	}

	m := &domain.Media{
		Kind:        domain.MediaKindImage,
		Title:       sanitize.Text(input.Title),
		Description: sanitize.Text(input.Description),
		URL:         url,
		StorageKey:  &key,
		UploadedBy:  actor.ID,
	}
	if err := s.media.Create(ctx, m); err != nil {
		s.removeBlob(ctx, key)
		return nil, err
	}
	s.emit(ctx, events.EventMediaUploaded, actor, m)
	return m, nil
}

// Update edits metadata of media id. ARTIST callers may only edit their own uploads.
func (s *MediaService) Update(ctx context.Context, actor *domain.Identity, id string, input MediaUpdateInput) (*domain.Media, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeOwned(actor, auth.Can(auth.ActionUpdate, auth.ResourceMedia), m.UploadedBy); err != nil {
		return nil, auth.AsHTTPError(err)
	}

	m.Title = sanitize.Text(input.Title)
	m.Description = sanitize.Text(input.Description)
	if input.URL != nil && m.StorageKey == nil {
		m.URL = strings.TrimSpace(*input.URL)
	}
	if err := s.media.Update(ctx, m); err != nil {
		return nil, notFound(err, MsgMediaNotFound)
	}
	return m, nil
}

// Delete removes media id and its stored file.
func (s *MediaService) Delete(ctx context.Context, actor *domain.Identity, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.AuthorizeOwned(actor, auth.Can(auth.ActionDelete, auth.ResourceMedia), m.UploadedBy); err != nil {
		return auth.AsHTTPError(err)
	}
	if err := s.media.Delete(ctx, id); err != nil {
		return notFound(err, MsgMediaNotFound)
	}
	if m.StorageKey != nil {
		s.removeBlob(ctx, *m.StorageKey)
	}
	s.emit(ctx, events.EventMediaDeleted, actor, m)
	return nil
}

func (s *MediaService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete blob", zap.String("key", key), zap.Error(err))
	}
}

func (s *MediaService) emit(ctx context.Context, typ events.EventType, actor *domain.Identity, m *domain.Media) {
	publish(ctx, s.dispatcher, events.Event{
		Type:      typ,
		SubjectID: m.ID,
		Actor:     actorOf(actor),
		Payload:   events.MediaPayload{Kind: m.Kind, Title: m.Title, StorageKey: m.StorageKey},
	})
}
