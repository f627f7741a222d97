// Package repotest provides in-memory repository implementations for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/repository"
)

func window[T any](items []T, page repository.Page) []T {
	limit, offset := page.Limit, page.Offset
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Users is an in-memory UserRepository.
type Users struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

// NewUsers returns an empty store.
func NewUsers() *Users {
	return &Users{byID: map[string]domain.User{}}
}

// Seed inserts u as is, assigning an id when missing.
func (r *Users) Seed(u domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.byID[u.ID] = u
	return u
}

func (r *Users) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	r.byID[user.ID] = *user
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *Users) List(_ context.Context, page repository.Page) ([]domain.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return window(all, page), len(all), nil
}

func (r *Users) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return &u, nil
}

// Events is an in-memory EventRepository.
type Events struct {
	mu   sync.Mutex
	byID map[string]domain.Event
}

// NewEvents returns an empty store.
func NewEvents() *Events {
	return &Events{byID: map[string]domain.Event{}}
}

func (r *Events) Create(_ context.Context, ev *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	ev.ID = uuid.NewString()
	ev.CreatedAt, ev.UpdatedAt = now, now
	r.byID[ev.ID] = *ev
	return nil
}

func (r *Events) Update(_ context.Context, ev *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[ev.ID]; !ok {
		return pgx.ErrNoRows
	}
	ev.UpdatedAt = time.Now().UTC()
	r.byID[ev.ID] = *ev
	return nil
}

func (r *Events) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *Events) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ev, nil
}

func (r *Events) List(_ context.Context, filter repository.EventFilter) ([]domain.Event, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Event
	for _, ev := range r.byID {
		if !filter.IncludeUnpublished && !ev.Published {
			continue
		}
		if filter.StartsAfter != nil && ev.StartsAt.Before(*filter.StartsAfter) {
			continue
		}
		all = append(all, ev)
	}
	asc := filter.StartsAfter != nil
	sort.Slice(all, func(i, j int) bool {
		if asc {
			return all[i].StartsAt.Before(all[j].StartsAt)
		}
		return all[i].StartsAt.After(all[j].StartsAt)
	})
	return window(all, filter.Page), len(all), nil
}

// Performances is an in-memory PerformanceRepository.
type Performances struct {
	mu   sync.Mutex
	byID map[string]domain.Performance
}

// NewPerformances returns an empty store.
func NewPerformances() *Performances {
	return &Performances{byID: map[string]domain.Performance{}}
}

func (r *Performances) Create(_ context.Context, p *domain.Performance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	r.byID[p.ID] = *p
	return nil
}

func (r *Performances) Update(_ context.Context, p *domain.Performance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	p.UpdatedAt = time.Now().UTC()
	r.byID[p.ID] = *p
	return nil
}

func (r *Performances) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *Performances) GetByID(_ context.Context, id string) (*domain.Performance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *Performances) List(_ context.Context, page repository.Page) ([]domain.Performance, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Performance, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PerformedAt.After(all[j].PerformedAt) })
	return window(all, page), len(all), nil
}

// Members is an in-memory MemberRepository.
type Members struct {
	mu   sync.Mutex
	byID map[string]domain.Member
}

// NewMembers returns an empty store.
func NewMembers() *Members {
	return &Members{byID: map[string]domain.Member{}}
}

func (r *Members) Create(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = now, now
	r.byID[m.ID] = *m
	return nil
}

func (r *Members) Update(_ context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.UpdatedAt = time.Now().UTC()
	r.byID[m.ID] = *m
	return nil
}

func (r *Members) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *Members) GetByID(_ context.Context, id string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (r *Members) List(_ context.Context) ([]domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Member, 0, len(r.byID))
	for _, m := range r.byID {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].DisplayOrder != all[j].DisplayOrder {
			return all[i].DisplayOrder < all[j].DisplayOrder
		}
		return all[i].Name < all[j].Name
	})
	return all, nil
}

// Media is an in-memory MediaRepository.
type Media struct {
	mu   sync.Mutex
	byID map[string]domain.Media
}

// NewMedia returns an empty store.
func NewMedia() *Media {
	return &Media{byID: map[string]domain.Media{}}
}

func (r *Media) Create(_ context.Context, m *domain.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = now, now
	r.byID[m.ID] = *m
	return nil
}

func (r *Media) Update(_ context.Context, m *domain.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.UpdatedAt = time.Now().UTC()
	r.byID[m.ID] = *m
	return nil
}

func (r *Media) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *Media) GetByID(_ context.Context, id string) (*domain.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func (r *Media) List(_ context.Context, filter repository.MediaFilter) ([]domain.Media, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Media
	for _, m := range r.byID {
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, filter.Page), len(all), nil
}

// Settings is an in-memory SettingRepository.
type Settings struct {
	mu    sync.Mutex
	byKey map[string]domain.SiteSetting
}

// NewSettings returns an empty store.
func NewSettings() *Settings {
	return &Settings{byKey: map[string]domain.SiteSetting{}}
}

func (r *Settings) List(_ context.Context) ([]domain.SiteSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.SiteSetting, 0, len(r.byKey))
	for _, s := range r.byKey {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	return all, nil
}

func (r *Settings) Get(_ context.Context, key string) (*domain.SiteSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byKey[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (r *Settings) Upsert(_ context.Context, key, value string) (*domain.SiteSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := domain.SiteSetting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	r.byKey[key] = s
	return &s, nil
}

func (r *Settings) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[key]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byKey, key)
	return nil
}

// SocialLinks is an in-memory SocialLinkRepository.
type SocialLinks struct {
	mu   sync.Mutex
	byID map[string]domain.SocialLink
}

// NewSocialLinks returns an empty store.
func NewSocialLinks() *SocialLinks {
	return &SocialLinks{byID: map[string]domain.SocialLink{}}
}

func (r *SocialLinks) nameTaken(name, exceptID string) bool {
	for id, l := range r.byID {
		if id != exceptID && l.Name == name {
			return true
		}
	}
	return false
}

func (r *SocialLinks) Create(_ context.Context, link *domain.SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(link.Name, "") {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	link.ID = uuid.NewString()
	link.CreatedAt, link.UpdatedAt = now, now
	r.byID[link.ID] = *link
	return nil
}

func (r *SocialLinks) Update(_ context.Context, link *domain.SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[link.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.nameTaken(link.Name, link.ID) {
		return repository.ErrDuplicate
	}
	link.UpdatedAt = time.Now().UTC()
	r.byID[link.ID] = *link
	return nil
}

func (r *SocialLinks) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *SocialLinks) GetByID(_ context.Context, id string) (*domain.SocialLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &l, nil
}

func (r *SocialLinks) List(_ context.Context) ([]domain.SocialLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.SocialLink, 0, len(r.byID))
	for _, l := range r.byID {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].DisplayOrder != all[j].DisplayOrder {
			return all[i].DisplayOrder < all[j].DisplayOrder
		}
		return all[i].Name < all[j].Name
	})
	return all, nil
}

// Comments is an in-memory CommentRepository. Author names are resolved from Users.
type Comments struct {
	mu    sync.Mutex
	users *Users
	order []string
	byID  map[string]domain.Comment
}

// NewComments returns an empty store reading author names from users.
func NewComments(users *Users) *Comments {
	return &Comments{users: users, byID: map[string]domain.Comment{}}
}

func (r *Comments) Create(ctx context.Context, c *domain.Comment) error {
	author, err := r.users.GetByID(ctx, c.UserID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.AuthorName = author.Name
	c.CreatedAt, c.UpdatedAt = now, now
	r.byID[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *Comments) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *Comments) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r *Comments) ListByTarget(_ context.Context, target domain.TargetType, targetID string, page repository.Page) ([]domain.Comment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Comment
	for _, id := range r.order {
		c, ok := r.byID[id]
		if ok && c.TargetType == target && c.TargetID == targetID {
			all = append(all, c)
		}
	}
	return window(all, page), len(all), nil
}

type likeKey struct {
	user   string
	target domain.TargetType
	id     string
}

// Likes is an in-memory LikeRepository.
type Likes struct {
	mu  sync.Mutex
	set map[likeKey]struct{}
}

// NewLikes returns an empty store.
func NewLikes() *Likes {
	return &Likes{set: map[likeKey]struct{}{}}
}

func (r *Likes) Add(_ context.Context, userID string, target domain.TargetType, targetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{userID, target, targetID}
	if _, ok := r.set[k]; ok {
		return false, nil
	}
	r.set[k] = struct{}{}
	return true, nil
}

func (r *Likes) Remove(_ context.Context, userID string, target domain.TargetType, targetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{userID, target, targetID}
	if _, ok := r.set[k]; !ok {
		return false, nil
	}
	delete(r.set, k)
	return true, nil
}

func (r *Likes) Exists(_ context.Context, userID string, target domain.TargetType, targetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.set[likeKey{userID, target, targetID}]
	return ok, nil
}

func (r *Likes) Count(_ context.Context, target domain.TargetType, targetID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.set {
		if k.target == target && k.id == targetID {
			n++
		}
	}
	return n, nil
}

var (
	_ repository.UserRepository        = (*Users)(nil)
	_ repository.EventRepository       = (*Events)(nil)
	_ repository.PerformanceRepository = (*Performances)(nil)
	_ repository.MemberRepository      = (*Members)(nil)
	_ repository.MediaRepository       = (*Media)(nil)
	_ repository.SettingRepository     = (*Settings)(nil)
	_ repository.SocialLinkRepository  = (*SocialLinks)(nil)
	_ repository.CommentRepository     = (*Comments)(nil)
	_ repository.LikeRepository        = (*Likes)(nil)
)
