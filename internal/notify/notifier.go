package notify

import (
	"context"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
	jww "github.com/spf13/jwalterweatherman"
)

// Notification describes an event one alumnus should hear about by email.
type Notification struct {
	UserID  uint
	ActorID uint
	Kind    models.NotificationKind
	Preview string
}

// Notifier is fire-and-forget. Implementations must not block the caller on
// delivery and never report failures back.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(context.Context, Notification) {}

const maxPreviewLength = 140

// Outbox persists notifications for the Worker to deliver.
type Outbox struct {
	repo repository.NotificationRepositoryInterface
	now  func() time.Time
}

func NewOutbox(repo repository.NotificationRepositoryInterface) *Outbox {
	return &Outbox{repo: repo, now: time.Now}
}

func (o *Outbox) Notify(ctx context.Context, n Notification) {
	due := o.now()
	row := &models.PendingNotification{
		UserID:    n.UserID,
		ActorID:   n.ActorID,
		Kind:      n.Kind,
		Preview:   truncate(n.Preview, maxPreviewLength),
		NextRetry: &due,
	}
	if err := o.repo.Enqueue(ctx, row); err != nil {
		jww.WARN.Printf("notify: enqueue %s for user %d failed: %v", n.Kind, n.UserID, err)
		return
	}
	jww.DEBUG.Printf("notify: queued %s for user %d (id %d)", n.Kind, n.UserID, row.ID)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
