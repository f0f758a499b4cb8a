package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/maheshrc27/socialnet-api/internal/models"
)

var errStoreDown = errors.New("store down")

// memStore backs every fake repository so publish transactions can span
// the scheduled post and post tables.
type memStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	nextID    int64
	users     map[int64]*models.User
	scheduled map[int64]*models.ScheduledPost
	posts     []*models.Post
	history   []*models.PublishHistory

	failPostCreate func(sp *models.Post) bool
	failListDue    bool
	// beforeMarkPublished runs ahead of the compare-and-set, outside the
	// store lock, so tests can land a competing write in that window.
	beforeMarkPublished func(id int64)
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int64]*models.User{},
		scheduled: map[int64]*models.ScheduledPost{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(name string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: m.id(), Name: name, Email: name + "@example.com", ProfilePicture: "https://cdn/" + name + ".png"}
	m.users[u.ID] = u
	return u
}

func (m *memStore) postCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

func (m *memStore) scheduledPost(id int64) *models.ScheduledPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.scheduled[id]
	if !ok {
		return nil
	}
	cp := *sp
	return &cp
}

// fakeTransactor serialises transactions and restores publish flags and
// posts when fn fails.
type fakeTransactor struct{ m *memStore }

func (t fakeTransactor) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	t.m.txMu.Lock()
	defer t.m.txMu.Unlock()

	t.m.mu.Lock()
	flags := map[int64]bool{}
	for id, sp := range t.m.scheduled {
		flags[id] = sp.Published
	}
	postsLen := len(t.m.posts)
	t.m.mu.Unlock()

	if err := fn(nil); err != nil {
		t.m.mu.Lock()
		for id, published := range flags {
			if sp, ok := t.m.scheduled[id]; ok {
				sp.Published = published
			}
		}
		t.m.posts = t.m.posts[:postsLen]
		t.m.mu.Unlock()
		return err
	}
	return nil
}

type fakeUserRepo struct{ m *memStore }

func (r fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	return u, ok, nil
}

func (r fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (r fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user.ID = r.m.id()
	r.m.users[user.ID] = user
	return user.ID, nil
}

func (r fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.users[user.ID] = user
	return nil
}

type fakePostRepo struct{ m *memStore }

func (r fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failPostCreate != nil && r.m.failPostCreate(post) {
		return 0, errStoreDown
	}
	post.ID = r.m.id()
	post.CreatedAt = time.Now()
	cp := *post
	r.m.posts = append(r.m.posts, &cp)
	return post.ID, nil
}

func (r fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Post
	for _, p := range r.m.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeScheduledRepo struct{ m *memStore }

func (r fakeScheduledRepo) Create(ctx context.Context, tx *sql.Tx, sp *models.ScheduledPost) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sp.ID = r.m.id()
	sp.CreatedAt = time.Now()
	sp.UpdatedAt = sp.CreatedAt
	cp := *sp
	r.m.scheduled[sp.ID] = &cp
	return sp.ID, nil
}

func (r fakeScheduledRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	return r.m.scheduledPost(id), nil
}

func (r fakeScheduledRepo) ListPending(ctx context.Context, userID int64, now time.Time) ([]*models.ScheduledPost, error) {
	return r.filter(func(sp *models.ScheduledPost) bool {
		return sp.UserID == userID && !sp.Published && !sp.ScheduledAt.Before(now)
	}), nil
}

func (r fakeScheduledRepo) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	if r.m.failListDue {
		return nil, errStoreDown
	}
	return r.filter(func(sp *models.ScheduledPost) bool { return sp.IsDue(now) }), nil
}

func (r fakeScheduledRepo) filter(keep func(sp *models.ScheduledPost) bool) []*models.ScheduledPost {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.ScheduledPost{}
	for _, sp := range r.m.scheduled {
		if keep(sp) {
			cp := *sp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out
}

func (r fakeScheduledRepo) Update(ctx context.Context, id int64, patch models.ScheduledPostPatch) (*models.ScheduledPost, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sp, ok := r.m.scheduled[id]
	if !ok || sp.Published {
		return nil, false, nil
	}
	if patch.Content != nil {
		sp.Content = *patch.Content
	}
	if patch.MediaURL != nil {
		sp.MediaURL = *patch.MediaURL
	}
	if patch.ScheduledAt != nil {
		sp.ScheduledAt = *patch.ScheduledAt
	}
	sp.UpdatedAt = time.Now()
	cp := *sp
	return &cp, true, nil
}

func (r fakeScheduledRepo) Remove(ctx context.Context, id int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sp, ok := r.m.scheduled[id]
	if !ok || sp.Published {
		return false, nil
	}
	delete(r.m.scheduled, id)
	return true, nil
}

func (r fakeScheduledRepo) MarkPublished(ctx context.Context, tx *sql.Tx, id int64, due *time.Time) (*models.ScheduledPost, error) {
	if r.m.beforeMarkPublished != nil {
		r.m.beforeMarkPublished(id)
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sp, ok := r.m.scheduled[id]
	if !ok || sp.Published {
		return nil, nil
	}
	if due != nil && sp.ScheduledAt.After(*due) {
		return nil, nil
	}
	sp.Published = true
	cp := *sp
	return &cp, nil
}

type fakeHistoryRepo struct{ m *memStore }

func (r fakeHistoryRepo) Create(ctx context.Context, ph *models.PublishHistory) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ph.ID = r.m.id()
	cp := *ph
	r.m.history = append(r.m.history, &cp)
	return ph.ID, nil
}

func (r fakeHistoryRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.PublishHistory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.PublishHistory
	for _, ph := range r.m.history {
		if ph.UserID == userID {
			out = append(out, ph)
		}
	}
	return out, nil
}

type scheduledCall struct {
	postID int64
	at     time.Time
}

type fakeScheduler struct {
	mu    sync.Mutex
	calls []scheduledCall
	err   error
}

func (f *fakeScheduler) SchedulePublish(ctx context.Context, postID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, scheduledCall{postID: postID, at: at})
	return f.err
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
