package service

import (
	"context"
	"errors"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/notify"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
	jww "github.com/spf13/jwalterweatherman"
)

// ConnectionService manages connection requests between alumni and the
// accepted graph derived from them.
type ConnectionService struct {
	connRepo repository.ConnectionRepositoryInterface
	userRepo repository.UserRepositoryInterface
	notifier notify.Notifier
	now      func() time.Time
}

func NewConnectionService(connRepo repository.ConnectionRepositoryInterface, userRepo repository.UserRepositoryInterface, notifier notify.Notifier) *ConnectionService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &ConnectionService{
		connRepo: connRepo,
		userRepo: userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateRequest records a pending request from requesterID to recipientID.
// Any existing connection between the two, in either direction and in any
// status, makes this fail with ErrDuplicateRequest.
func (s *ConnectionService) CreateRequest(ctx context.Context, requesterID, recipientID uint) (*models.Connection, error) {
	if requesterID == recipientID {
		return nil, ErrSelfConnection
	}
	if _, err := s.userRepo.FindByID(ctx, recipientID); err != nil {
		return nil, storeError("load recipient", err)
	}

	now := s.now()
	conn := &models.Connection{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.ConnectionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.connRepo.Create(ctx, conn); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrDuplicateRequest
		}
		return nil, persistence("create connection", err)
	}

	jww.INFO.Printf("connection %d requested: %d -> %d", conn.ID, requesterID, recipientID)
	s.notifier.Notify(ctx, notify.Notification{
		UserID:  recipientID,
		ActorID: requesterID,
		Kind:    models.NotifyConnectionRequested,
	})
	return conn, nil
}

// ListIncomingPending returns requests awaiting userID's decision, newest first.
func (s *ConnectionService) ListIncomingPending(ctx context.Context, userID uint) ([]models.PendingRequest, error) {
	conns, err := s.connRepo.ListByRecipient(ctx, userID, models.ConnectionPending)
	if err != nil {
		return nil, persistence("list pending requests", err)
	}

	out := make([]models.PendingRequest, 0, len(conns))
	for i := range conns {
		c := &conns[i]
		out = append(out, models.PendingRequest{
			ConnectionID: c.ID,
			Requester:    summaryOf(&c.Requester, c.RequesterID),
			CreatedAt:    c.CreatedAt,
		})
	}
	return out, nil
}

// Resolve moves a pending request to accepted or rejected. Only the recipient
// may resolve, and only once.
func (s *ConnectionService) Resolve(ctx context.Context, actorID, connectionID uint, decision models.ConnectionStatus) (*models.Connection, error) {
	if !decision.IsTerminal() {
		return nil, ErrInvalidDecision
	}

	rows, err := s.connRepo.UpdateStatusIfPending(ctx, connectionID, actorID, decision, s.now())
	if err != nil {
		return nil, persistence("resolve connection", err)
	}
	if rows == 0 {
		return nil, s.explainUnresolved(ctx, actorID, connectionID)
	}

	conn, err := s.connRepo.FindByID(ctx, connectionID)
	if err != nil {
		// The status change is already committed.
		return nil, persistence("reload connection", err)
	}

	jww.INFO.Printf("connection %d %s by %d", conn.ID, decision, actorID)
	if decision == models.ConnectionAccepted {
		s.notifier.Notify(ctx, notify.Notification{
			UserID:  conn.RequesterID,
			ActorID: actorID,
			Kind:    models.NotifyConnectionAccepted,
		})
	}
	return conn, nil
}

// explainUnresolved reports why the conditional update matched nothing.
func (s *ConnectionService) explainUnresolved(ctx context.Context, actorID, connectionID uint) error {
	conn, err := s.connRepo.FindByID(ctx, connectionID)
	if err != nil {
		return storeError("load connection", err)
	}
	if conn.RecipientID != actorID {
		if conn.RequesterID != actorID {
			// not a party to this request
			return ErrNotFound
		}
		return ErrNotRecipient
	}
	return ErrAlreadyResolved
}

// ListAccepted returns userID's accepted connections: those userID initiated
// first, then those userID received.
func (s *ConnectionService) ListAccepted(ctx context.Context, userID uint) ([]models.ConnectionView, error) {
	outgoing, err := s.connRepo.ListByRequester(ctx, userID, models.ConnectionAccepted)
	if err != nil {
		return nil, persistence("list outgoing connections", err)
	}
	incoming, err := s.connRepo.ListByRecipient(ctx, userID, models.ConnectionAccepted)
	if err != nil {
		return nil, persistence("list incoming connections", err)
	}

	views := make([]models.ConnectionView, 0, len(outgoing)+len(incoming))
	for i := range outgoing {
		c := &outgoing[i]
		if c.RecipientID == userID {
			continue
		}
		views = append(views, view(c, models.DirectionOutgoing, summaryOf(&c.Recipient, c.RecipientID)))
	}
	for i := range incoming {
		c := &incoming[i]
		if c.RequesterID == userID {
			continue
		}
		views = append(views, view(c, models.DirectionIncoming, summaryOf(&c.Requester, c.RequesterID)))
	}
	return views, nil
}

// AreConnected reports whether a and b share an accepted connection.
func (s *ConnectionService) AreConnected(ctx context.Context, a, b uint) (bool, error) {
	ok, err := s.connRepo.ExistsAccepted(ctx, a, b)
	if err != nil {
		return false, persistence("check connection", err)
	}
	return ok, nil
}

// Between returns the connection between viewerID and otherID as seen by
// viewerID, in any status, or nil when they have none.
func (s *ConnectionService) Between(ctx context.Context, viewerID, otherID uint) (*models.ConnectionView, error) {
	if viewerID == otherID {
		return nil, nil
	}
	c, err := s.connRepo.FindBetween(ctx, viewerID, otherID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("find connection", err)
	}

	dir := models.DirectionOutgoing
	if c.RecipientID == viewerID {
		dir = models.DirectionIncoming
	}
	v := view(c, dir, models.UnknownProfile(otherID))
	return &v, nil
}

func view(c *models.Connection, dir models.ConnectionDirection, counterpart models.ProfileSummary) models.ConnectionView {
	return models.ConnectionView{
		ConnectionID: c.ID,
		Status:       c.Status,
		Direction:    dir,
		Counterpart:  counterpart,
		CreatedAt:    c.CreatedAt,
		Since:        c.UpdatedAt,
	}
}

// summaryOf uses a preloaded profile when present and degrades to a
// placeholder when the association did not load.
func summaryOf(u *models.User, id uint) models.ProfileSummary {
	if u == nil || u.ID == 0 {
		return models.UnknownProfile(id)
	}
	return u.Summary()
}
