package command

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ielts-momentum/momentum-hub/internal/domain/activity"
	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
	"github.com/ielts-momentum/momentum-hub/internal/domain/score"
	"github.com/ielts-momentum/momentum-hub/internal/domain/user"
)

// In-memory fakes implementing the repository contracts, including the
// storage-level atomicity the real implementations provide: idempotent
// seed upserts and conditional completion transitions.

type fakeChallengeRepo struct {
	mu    sync.Mutex
	items map[string]*challenge.Challenge

	seedCalls int
	listErr   error
	seedErr   error
	markErr   error
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{items: make(map[string]*challenge.Challenge)}
}

func challengeKey(username, day string, seq int) string {
	return fmt.Sprintf("%s|%s|%d", username, day, seq)
}

func (r *fakeChallengeRepo) ListByUserDay(_ context.Context, username, day string) ([]*challenge.Challenge, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*challenge.Challenge
	for _, c := range r.items {
		if c.Username == username && c.Day == day {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeChallengeRepo) SeedIfAbsent(_ context.Context, set []*challenge.Challenge) error {
	if r.seedErr != nil {
		return r.seedErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedCalls++
	for _, c := range set {
		key := challengeKey(c.Username, c.Day, c.Seq)
		if _, exists := r.items[key]; exists {
			continue
		}
		copied := *c
		r.items[key] = &copied
	}
	return nil
}

func (r *fakeChallengeRepo) MarkCompleted(_ context.Context, username, day string, seq int, completedAt time.Time) (bool, error) {
	if r.markErr != nil {
		return false, r.markErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[challengeKey(username, day, seq)]
	if !ok || c.State.IsCompleted() {
		return false, nil
	}
	c.State = challenge.CompletedAt(completedAt)
	return true, nil
}

func (r *fakeChallengeRepo) TotalCompletedXP(_ context.Context, username string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, c := range r.items {
		if c.Username == username && c.State.IsCompleted() {
			total += c.XP
		}
	}
	return total, nil
}

func (r *fakeChallengeRepo) TopByCompletedXP(_ context.Context, limit int) ([]challenge.XPTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser := make(map[string]int)
	for _, c := range r.items {
		if c.State.IsCompleted() {
			byUser[c.Username] += c.XP
		}
	}
	totals := make([]challenge.XPTotal, 0, len(byUser))
	for u, xp := range byUser {
		totals = append(totals, challenge.XPTotal{Username: u, TotalXP: xp})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].TotalXP != totals[j].TotalXP {
			return totals[i].TotalXP > totals[j].TotalXP
		}
		return totals[i].Username < totals[j].Username
	})
	if limit < len(totals) {
		totals = totals[:limit]
	}
	return totals, nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	records []*activity.Record

	appendErr error
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (r *fakeActivityRepo) Append(_ context.Context, record *activity.Record) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.records = append(r.records, &copied)
	return nil
}

func (r *fakeActivityRepo) CountDistinctDays(_ context.Context, username string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	days := make(map[string]struct{})
	for _, rec := range r.records {
		if rec.Username == username {
			days[rec.Day] = struct{}{}
		}
	}
	return len(days), nil
}

func (r *fakeActivityRepo) CountDistinctUsers(_ context.Context, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make(map[string]struct{})
	for _, rec := range r.records {
		if rec.Day == day {
			users[rec.Username] = struct{}{}
		}
	}
	return len(users), nil
}

func (r *fakeActivityRepo) CountAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *fakeActivityRepo) CountPerDay(_ context.Context) ([]activity.DayCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDay := make(map[string]int)
	for _, rec := range r.records {
		byDay[rec.Day]++
	}
	out := make([]activity.DayCount, 0, len(byDay))
	for day, n := range byDay {
		out = append(out, activity.DayCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (r *fakeActivityRepo) ListRecent(_ context.Context, limit int) ([]*activity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*activity.Record, len(r.records))
	copy(out, r.records)
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeActivityRepo) byKind(kind activity.Kind) []*activity.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*activity.Record
	for _, rec := range r.records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Username]; exists {
		return user.ErrUserAlreadyExists
	}
	copied := *u
	r.users[u.Username] = &copied
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; !ok {
		return user.ErrUserNotFound
	}
	copied := *u
	r.users[u.Username] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, username)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) GetDisplayNames(_ context.Context, usernames []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make(map[string]string)
	for _, username := range usernames {
		if u, ok := r.users[username]; ok {
			names[username] = u.DisplayName
		}
	}
	return names, nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role user.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeScoreRepo struct {
	mu      sync.Mutex
	entries []*score.Entry

	insertErr error
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{}
}

func (r *fakeScoreRepo) Insert(_ context.Context, entry *score.Entry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeScoreRepo) ListByUser(_ context.Context, username string) ([]*score.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*score.Entry
	for _, e := range r.entries {
		if e.Username == username {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestDay < out[j].TestDay })
	return out, nil
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) InvalidateLeaderboard(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}
