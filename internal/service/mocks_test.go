package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/notify"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// MockUserRepository is an in-memory profile directory
type MockUserRepository struct {
	users map[uint]*models.User
	err   error
}

func NewMockUserRepository(users ...*models.User) *MockUserRepository {
	m := &MockUserRepository{users: make(map[uint]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserRepository) Create(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByID(_ context.Context, id uint) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) FindByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *MockUserRepository) Search(_ context.Context, query string, limit int) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.User
	for _, u := range m.users {
		if len(out) >= limit {
			break
		}
		if u.FirstName == query || u.Company == query {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockConnectionRepository enforces the unordered-pair uniqueness of the real
// store and is safe for concurrent use.
type MockConnectionRepository struct {
	mu     sync.Mutex
	conns  []*models.Connection
	nextID uint
	users  *MockUserRepository

	createErr error
	listErr   error
	findErr   error
}

func NewMockConnectionRepository(users *MockUserRepository) *MockConnectionRepository {
	return &MockConnectionRepository{nextID: 1, users: users}
}

func (m *MockConnectionRepository) Create(_ context.Context, conn *models.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	key := models.PairKey(conn.RequesterID, conn.RecipientID)
	for _, c := range m.conns {
		if c.PairKey == key {
			return repository.ErrUniqueViolation
		}
	}
	conn.ID = m.nextID
	conn.PairKey = key
	m.nextID++
	stored := *conn
	m.conns = append(m.conns, &stored)
	return nil
}

func (m *MockConnectionRepository) FindByID(_ context.Context, id uint) (*models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, c := range m.conns {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockConnectionRepository) FindBetween(_ context.Context, a, b uint) (*models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	key := models.PairKey(a, b)
	for _, c := range m.conns {
		if c.PairKey == key {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockConnectionRepository) ExistsAccepted(_ context.Context, a, b uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return false, m.listErr
	}
	key := models.PairKey(a, b)
	for _, c := range m.conns {
		if c.PairKey == key && c.Status == models.ConnectionAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockConnectionRepository) list(match func(*models.Connection) bool) ([]models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Connection
	for _, c := range m.conns {
		if match(c) {
			cp := *c
			if u, ok := m.users.users[cp.RequesterID]; ok {
				cp.Requester = *u
			}
			if u, ok := m.users.users[cp.RecipientID]; ok {
				cp.Recipient = *u
			}
			out = append(out, cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MockConnectionRepository) ListByRecipient(_ context.Context, recipientID uint, status models.ConnectionStatus) ([]models.Connection, error) {
	return m.list(func(c *models.Connection) bool { return c.RecipientID == recipientID && c.Status == status })
}

func (m *MockConnectionRepository) ListByRequester(_ context.Context, requesterID uint, status models.ConnectionStatus) ([]models.Connection, error) {
	return m.list(func(c *models.Connection) bool { return c.RequesterID == requesterID && c.Status == status })
}

func (m *MockConnectionRepository) UpdateStatusIfPending(_ context.Context, id, recipientID uint, status models.ConnectionStatus, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conns {
		if c.ID == id && c.RecipientID == recipientID && c.Status == models.ConnectionPending {
			c.Status = status
			c.UpdatedAt = at
			return 1, nil
		}
	}
	return 0, nil
}

// MockMessageRepository is an in-memory message store
type MockMessageRepository struct {
	mu     sync.Mutex
	msgs   []*models.Message
	nextID uint

	createErr error
	threadErr error
	markErr   error
	countErr  error

	// staleLookups makes the next n FindByClientID calls miss, as if a
	// concurrent send had not committed yet.
	staleLookups int
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{nextID: 1}
}

func (m *MockMessageRepository) Create(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.msgs {
		if existing.ClientID == msg.ClientID && existing.SenderID == msg.SenderID {
			return repository.ErrUniqueViolation
		}
	}
	msg.ID = m.nextID
	m.nextID++
	stored := *msg
	m.msgs = append(m.msgs, &stored)
	return nil
}

func (m *MockMessageRepository) FindByClientID(_ context.Context, clientID string, senderID uint) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staleLookups > 0 {
		m.staleLookups--
		return nil, repository.ErrNotFound
	}
	for _, msg := range m.msgs {
		if msg.ClientID == clientID && msg.SenderID == senderID {
			cp := *msg
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockMessageRepository) collect(match func(*models.Message) bool, newestFirst bool) []models.Message {
	var out []models.Message
	for _, msg := range m.msgs {
		if match(msg) {
			out = append(out, *msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		before := out[i].CreatedAt.Before(out[j].CreatedAt) ||
			(out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID)
		if newestFirst {
			return !before
		}
		return before
	})
	return out
}

func (m *MockMessageRepository) FindThread(_ context.Context, a, b uint) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.threadErr != nil {
		return nil, m.threadErr
	}
	return m.collect(func(msg *models.Message) bool {
		return (msg.SenderID == a && msg.RecipientID == b) || (msg.SenderID == b && msg.RecipientID == a)
	}, false), nil
}

func (m *MockMessageRepository) FindForUser(_ context.Context, userID uint) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.threadErr != nil {
		return nil, m.threadErr
	}
	return m.collect(func(msg *models.Message) bool {
		return msg.SenderID == userID || msg.RecipientID == userID
	}, true), nil
}

func (m *MockMessageRepository) MarkThreadRead(_ context.Context, readerID, peerID uint, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return 0, m.markErr
	}
	var n int64
	for _, msg := range m.msgs {
		if msg.RecipientID == readerID && msg.SenderID == peerID && !msg.IsRead {
			readAt := at
			msg.IsRead = true
			msg.ReadAt = &readAt
			n++
		}
	}
	return n, nil
}

func (m *MockMessageRepository) CountUnread(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.msgs {
		if msg.RecipientID == userID && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *MockMessageRepository) CountUnreadFrom(_ context.Context, userID, peerID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, msg := range m.msgs {
		if msg.RecipientID == userID && msg.SenderID == peerID && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

// recordingNotifier captures notifications instead of queueing them
type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) kinds() []models.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NotificationKind, len(r.got))
	for i, n := range r.got {
		out[i] = n.Kind
	}
	return out
}

func alumni(ids ...uint) []*models.User {
	names := map[uint]string{1: "Asha", 2: "Ravi", 3: "Meera", 4: "Kiran"}
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.User{ID: id, FirstName: names[id], Email: names[id] + "@example.com", Company: "Acme"})
	}
	return out
}
