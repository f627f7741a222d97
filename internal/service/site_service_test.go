package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/band-site/internal/repository/repotest"
)

func TestSettingsUpsertAndMap(t *testing.T) {
	svc := NewSettingService(repotest.NewSettings())
	ctx := context.Background()

	_, err := svc.Put(ctx, "Hero.Title", "Bienvenue")
	require.NoError(t, err)
	_, err = svc.Put(ctx, "hero.title", "Welcome")
	require.NoError(t, err)
	_, err = svc.Put(ctx, "contact_email", "band@example.com")
	require.NoError(t, err)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hero.title": "Welcome", "contact_email": "band@example.com"}, all)

	got, err := svc.Get(ctx, "hero.title")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", got.Value)

	require.NoError(t, svc.Delete(ctx, "hero.title"))
	_, err = svc.Get(ctx, "hero.title")
	requireStatus(t, err, statusNotFound, MsgSettingNotFound)

	_, err = svc.Put(ctx, "bad key!", "x")
	requireStatus(t, err, statusBadRequest, "")
}

func TestSocialLinkUniqueName(t *testing.T) {
	svc := NewSocialLinkService(repotest.NewSocialLinks())
	ctx := context.Background()

	ig, err := svc.Create(ctx, SocialLinkInput{Name: "Instagram", URL: "https://instagram.com/band"})
	require.NoError(t, err)
	yt, err := svc.Create(ctx, SocialLinkInput{Name: "YouTube", URL: "https://youtube.com/@band", DisplayOrder: 1})
	require.NoError(t, err)

	_, err = svc.Create(ctx, SocialLinkInput{Name: "Instagram", URL: "https://instagram.com/other"})
	requireStatus(t, err, statusBadRequest, MsgSocialLinkExists)

	_, err = svc.Update(ctx, yt.ID, SocialLinkInput{Name: "Instagram", URL: "https://instagram.com/x"})
	requireStatus(t, err, statusBadRequest, MsgSocialLinkExists)

	updated, err := svc.Update(ctx, ig.ID, SocialLinkInput{Name: "Instagram", URL: "https://instagram.com/band2"})
	require.NoError(t, err)
	assert.Equal(t, "https://instagram.com/band2", updated.URL)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Instagram", list[0].Name)

	require.NoError(t, svc.Delete(ctx, yt.ID))
	requireStatus(t, svc.Delete(ctx, yt.ID), statusNotFound, MsgSocialLinkNotFound)
}

func TestPerformanceCRUD(t *testing.T) {
	svc := NewPerformanceService(repotest.NewPerformances())
	ctx := context.Background()

	p, err := svc.Create(ctx, PerformanceInput{Title: "Live à Lyon", Venue: "Le Transbordeur"})
	require.NoError(t, err)

	video := "https://video.example.org/lyon"
	updated, err := svc.Update(ctx, p.ID, PerformanceInput{Title: "Live à Lyon", Venue: "Le Transbordeur", VideoURL: &video})
	require.NoError(t, err)
	require.NotNil(t, updated.VideoURL)

	list, info, err := svc.List(ctx, PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, info.Total)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	requireStatus(t, err, statusNotFound, MsgPerformanceNotFound)
}
