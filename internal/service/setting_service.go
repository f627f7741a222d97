package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/repository"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Settings messages.
const (
	MsgSettingNotFound = "Paramètre introuvable"
	MsgInvalidKey      = "Clé invalide"
)

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,63}$`)

// SettingService manages the site key/value settings.
type SettingService struct {
	settings repository.SettingRepository
}

// NewSettingService constructs the service.
func NewSettingService(settings repository.SettingRepository) *SettingService {
	return &SettingService{settings: settings}
}

// All returns every setting as a key/value map.
func (s *SettingService) All(ctx context.Context) (map[string]string, error) {
	list, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, item := range list {
		out[item.Key] = item.Value
	}
	return out, nil
}

// Get returns setting key.
func (s *SettingService) Get(ctx context.Context, key string) (*domain.SiteSetting, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	item, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, notFound(err, MsgSettingNotFound)
	}
	return item, nil
}

// Put creates or replaces setting key.
func (s *SettingService) Put(ctx context.Context, key, value string) (*domain.SiteSetting, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	return s.settings.Upsert(ctx, key, value)
}

// Delete removes setting key.
func (s *SettingService) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	return notFound(s.settings.Delete(ctx, key), MsgSettingNotFound)
}

func normalizeKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !settingKeyPattern.MatchString(key) {
		return "", apperrors.NewValidationError(apperrors.FieldError{Field: "key", Message: MsgInvalidKey})
	}
	return key, nil
}
