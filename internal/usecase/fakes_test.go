package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"skillmatch/internal/domain/conversation"
	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/profile"
	"skillmatch/internal/domain/skill"
	"skillmatch/internal/repository"

	"github.com/google/uuid"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type memProfiles struct {
	mu      sync.Mutex
	items   map[uuid.UUID]profile.Profile
	getErr  map[uuid.UUID]error
	listErr error
	seq     int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{items: map[uuid.UUID]profile.Profile{}, getErr: map[uuid.UUID]error{}}
}

// add stores an onboarded profile with a strictly increasing created_at.
func (m *memProfiles) add(role profile.Role, name string, skills ...string) profile.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	known, _ := skill.NormalizeSet(skills)
	p := profile.Profile{
		ID:                     uuid.New(),
		Role:                   role,
		FullName:               name,
		Email:                  strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.org",
		Skills:                 known,
		HasCompletedOnboarding: true,
		CreatedAt:              epoch.Add(time.Duration(m.seq) * time.Minute),
	}
	m.items[p.ID] = p
	return p
}

func (m *memProfiles) ListByRole(_ context.Context, role profile.Role) ([]profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]profile.Profile, 0)
	for _, p := range m.items {
		if p.Role == role && p.HasCompletedOnboarding {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

func (m *memProfiles) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[id]; err != nil {
		return profile.Profile{}, err
	}
	p, ok := m.items[id]
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: profile %s", repository.ErrNotFound, id)
	}
	return p, nil
}

func (m *memProfiles) Update(_ context.Context, p profile.Profile) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[p.ID]
	if !ok {
		return profile.Profile{}, repository.ErrNotFound
	}
	cur.FullName, cur.Bio, cur.Experience, cur.Availability = p.FullName, p.Bio, p.Experience, p.Availability
	cur.Skills, cur.Languages, cur.LinkedInURL = p.Skills, p.Languages, p.LinkedInURL
	m.items[p.ID] = cur
	return cur, nil
}

func (m *memProfiles) CompleteOnboarding(_ context.Context, p profile.Profile) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[p.ID]
	if !ok {
		return profile.Profile{}, repository.ErrNotFound
	}
	if cur.Role != "" && cur.Role != p.Role {
		return profile.Profile{}, repository.ErrConflict
	}
	p.Email, p.CreatedAt = cur.Email, cur.CreatedAt
	p.HasCompletedOnboarding = true
	m.items[p.ID] = p
	return p, nil
}

func (m *memProfiles) SetAvatarURL(_ context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.items[id]
	p.AvatarURL = url
	m.items[id] = p
	return nil
}

func (m *memProfiles) SetCVURL(_ context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.items[id]
	p.CVURL = url
	m.items[id] = p
	return nil
}

func (m *memProfiles) Ping(context.Context) error { return nil }

type memJobs struct {
	mu    sync.Mutex
	items map[uuid.UUID]job.Job
	seq   int
}

func newMemJobs() *memJobs { return &memJobs{items: map[uuid.UUID]job.Job{}} }

func (m *memJobs) add(employerID uuid.UUID, title string, required ...string) job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	j := job.Job{
		ID:           uuid.New(),
		EmployerID:   employerID,
		Title:        title,
		Description:  title,
		Requirements: job.Requirements{Required: required, Preferred: []string{}},
		WorkType:     job.WorkTypeRemote,
		Status:       job.StatusPublished,
		CreatedAt:    epoch.Add(time.Duration(m.seq) * time.Minute),
	}
	m.items[j.ID] = j
	return j
}

func (m *memJobs) put(j job.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[j.ID] = j
}

func (m *memJobs) sorted(keep func(job.Job) bool) []job.Job {
	out := make([]job.Job, 0)
	for _, j := range m.items {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].CreatedAt.Before(out[k].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[k].ID[:]) < 0
	})
	return out
}

func (m *memJobs) ListPublished(context.Context) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(job.Job.IsPublished), nil
}

func (m *memJobs) ListByEmployer(_ context.Context, employerID uuid.UUID) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(j job.Job) bool { return j.EmployerID == employerID })
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

func (m *memJobs) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.items[id]
	if !ok {
		return job.Job{}, repository.ErrNotFound
	}
	return j, nil
}

func (m *memJobs) Create(_ context.Context, j job.Job) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	j.CreatedAt = epoch.Add(time.Duration(m.seq) * time.Minute)
	m.items[j.ID] = j
	return j, nil
}

func (m *memJobs) Update(_ context.Context, j job.Job) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[j.ID]
	if !ok || cur.EmployerID != j.EmployerID {
		return job.Job{}, repository.ErrNotFound
	}
	j.CreatedAt = cur.CreatedAt
	m.items[j.ID] = j
	return j, nil
}

func (m *memJobs) UpdateStatus(_ context.Context, id, employerID uuid.UUID, status job.Status) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[id]
	if !ok || cur.EmployerID != employerID {
		return job.Job{}, repository.ErrNotFound
	}
	cur.Status = status
	m.items[id] = cur
	return cur, nil
}

func (m *memJobs) Delete(_ context.Context, id, employerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[id]
	if !ok || cur.EmployerID != employerID {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memJobs) Ping(context.Context) error { return nil }

type pairKey struct{ job, worker uuid.UUID }

// memMatches applies the same per-field merge the SQL upsert performs,
// under one lock per call.
type memMatches struct {
	mu      sync.Mutex
	items   map[pairKey]match.Match
	listErr error
}

func newMemMatches() *memMatches { return &memMatches{items: map[pairKey]match.Match{}} }

func (m *memMatches) ListForParty(_ context.Context, role profile.Role, id uuid.UUID) ([]match.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]match.Match, 0)
	for _, v := range m.items {
		if (role == profile.RoleWorker && v.WorkerID == id) || (role == profile.RoleEmployer && v.EmployerID == id) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memMatches) ListConfirmedForParty(ctx context.Context, role profile.Role, id uuid.UUID) ([]match.Match, error) {
	all, err := m.ListForParty(ctx, role, id)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, v := range all {
		if v.IsConfirmed() {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memMatches) Get(_ context.Context, jobID, workerID uuid.UUID) (match.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[pairKey{jobID, workerID}]
	if !ok {
		return match.Match{}, repository.ErrNotFound
	}
	return v, nil
}

func (m *memMatches) UpsertField(_ context.Context, in repository.UpsertMatchField) (match.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pairKey{in.JobID, in.WorkerID}
	cur, ok := m.items[k]
	if !ok {
		cur = match.New(in.JobID, in.WorkerID, in.EmployerID, in.Role, in.Status)
		cur.ID = uuid.New()
		m.items[k] = cur
		return cur, nil
	}
	if cur.EmployerID != in.EmployerID {
		return match.Match{}, repository.ErrOwnership
	}
	cur = cur.Apply(in.Role, in.Status)
	m.items[k] = cur
	return cur, nil
}

func (m *memMatches) ExistsConfirmedBetween(_ context.Context, a, b uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.items {
		if v.IsConfirmed() && v.Involves(a) && v.Involves(b) {
			return true, nil
		}
	}
	return false, nil
}

type memConversations struct {
	mu       sync.Mutex
	items    map[uuid.UUID]conversation.Conversation
	messages []conversation.Message
}

func newMemConversations() *memConversations {
	return &memConversations{items: map[uuid.UUID]conversation.Conversation{}}
}

func (m *memConversations) GetOrCreate(_ context.Context, a, b uuid.UUID) (conversation.Conversation, error) {
	u1, u2, err := conversation.OrderedPair(a, b)
	if err != nil {
		return conversation.Conversation{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.User1ID == u1 && c.User2ID == u2 {
			return c, nil
		}
	}
	c := conversation.Conversation{ID: uuid.New(), User1ID: u1, User2ID: u2, CreatedAt: epoch}
	m.items[c.ID] = c
	return c, nil
}

func (m *memConversations) GetByID(_ context.Context, id uuid.UUID) (conversation.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return conversation.Conversation{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *memConversations) ListForUser(_ context.Context, userID uuid.UUID) ([]repository.ConversationListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.ConversationListItem, 0)
	for _, c := range m.items {
		if !c.Has(userID) {
			continue
		}
		unread := 0
		for _, msg := range m.messages {
			if msg.ConversationID == c.ID && msg.ReceiverID == userID && !msg.Read {
				unread++
			}
		}
		out = append(out, repository.ConversationListItem{Conversation: c, UnreadCount: unread})
	}
	return out, nil
}

func (m *memConversations) Create(_ context.Context, msg conversation.Message) (conversation.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[msg.ConversationID]
	if !ok {
		return conversation.Message{}, repository.ErrNotFound
	}
	msg.CreatedAt = epoch.Add(time.Duration(len(m.messages)+1) * time.Second)
	m.messages = append(m.messages, msg)
	c.LastMessage = msg.Content
	at := msg.CreatedAt
	c.LastMessageAt = &at
	m.items[c.ID] = c
	return msg, nil
}

func (m *memConversations) List(_ context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]conversation.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]conversation.Message, 0)
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		msg := m.messages[i]
		if msg.ConversationID != conversationID || (before != nil && !msg.CreatedAt.Before(*before)) {
			continue
		}
		out = append([]conversation.Message{msg}, out...)
	}
	return out, nil
}

func (m *memConversations) MarkRead(_ context.Context, conversationID, receiverID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.ConversationID == conversationID && msg.ReceiverID == receiverID && !msg.Read {
			msg.Read = true
			n++
		}
	}
	return n, nil
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []match.Match
	messages  []conversation.Message
}

func (n *recordingNotifier) MatchConfirmed(_ context.Context, m match.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, m)
}

func (n *recordingNotifier) MessageCreated(_ context.Context, msg conversation.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

type countingMetrics struct {
	mu        sync.Mutex
	swipes    map[string]int
	confirmed int
}

func (c *countingMetrics) SwipeRecorded(role profile.Role, decision match.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.swipes == nil {
		c.swipes = map[string]int{}
	}
	c.swipes[string(role)+":"+string(decision)]++
}

func (c *countingMetrics) MatchConfirmed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed++
}
