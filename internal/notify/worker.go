package notify

import (
	"context"
	"errors"
	"time"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/repository"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/validation"
	jww "github.com/spf13/jwalterweatherman"
)

const (
	batchSize    = 100
	parkDelay    = time.Hour
	retention    = 7 * 24 * time.Hour
	cleanupEvery = time.Hour
)

type WorkerConfig struct {
	Interval    time.Duration
	BaseDelay   time.Duration
	MaxAttempts int
	BaseURL     string
}

// Worker drains the outbox, retrying failed deliveries with exponential backoff.
type Worker struct {
	repo   repository.NotificationRepositoryInterface
	users  repository.UserRepositoryInterface
	mailer Mailer
	cfg    WorkerConfig
	now    func() time.Time

	lastCleanup time.Time
}

func NewWorker(repo repository.NotificationRepositoryInterface, users repository.UserRepositoryInterface, mailer Mailer, cfg WorkerConfig) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Worker{repo: repo, users: users, mailer: mailer, cfg: cfg, now: time.Now}
}

// Run processes the outbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	jww.INFO.Printf("notify: worker started (interval %s)", w.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			jww.INFO.Println("notify: worker stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one delivery pass and, at most hourly, prunes stale rows.
func (w *Worker) Tick(ctx context.Context) {
	now := w.now()
	retryable, err := w.repo.GetRetryable(ctx, now, batchSize)
	if err != nil {
		jww.ERROR.Printf("notify: fetch retryable: %v", err)
		return
	}

	for i := range retryable {
		w.deliver(ctx, &retryable[i])
	}

	if now.Sub(w.lastCleanup) >= cleanupEvery {
		w.lastCleanup = now
		removed, err := w.repo.CleanupOld(ctx, retention)
		if err != nil {
			jww.ERROR.Printf("notify: cleanup: %v", err)
		} else if removed > 0 {
			jww.INFO.Printf("notify: removed %d stale notifications", removed)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, pn *models.PendingNotification) {
	recipient, err := w.users.FindByID(ctx, pn.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		jww.WARN.Printf("notify: dropping %d, user %d no longer exists", pn.ID, pn.UserID)
		w.remove(ctx, pn.ID)
		return
	}
	if err != nil {
		jww.ERROR.Printf("notify: load user %d: %v", pn.UserID, err)
		w.reschedule(ctx, pn)
		return
	}

	to := validation.NormalizeEmail(recipient.Email)
	if !validation.ValidateEmail(to) {
		jww.WARN.Printf("notify: dropping %d, user %d has no usable email", pn.ID, pn.UserID)
		w.remove(ctx, pn.ID)
		return
	}

	actorName := models.FallbackDisplayName(pn.ActorID)
	if actor, err := w.users.FindByID(ctx, pn.ActorID); err == nil {
		actorName = actor.DisplayName()
	}

	subject, body := Compose(pn, actorName, w.cfg.BaseURL)
	if err := w.mailer.Send(ctx, Email{To: to, Subject: subject, Body: body}); err != nil {
		jww.WARN.Printf("notify: delivery %d to user %d failed: %v", pn.ID, pn.UserID, err)
		w.reschedule(ctx, pn)
		return
	}

	w.remove(ctx, pn.ID)
	jww.DEBUG.Printf("notify: delivered %d to user %d", pn.ID, pn.UserID)
}

func (w *Worker) remove(ctx context.Context, id uint) {
	if err := w.repo.Delete(ctx, id); err != nil {
		jww.ERROR.Printf("notify: delete %d: %v", id, err)
	}
}

func (w *Worker) reschedule(ctx context.Context, pn *models.PendingNotification) {
	attempts := pn.Attempts + 1
	next := w.now().Add(w.backoff(attempts))
	if err := w.repo.MarkAttempted(ctx, pn.ID, attempts, &next); err != nil {
		jww.ERROR.Printf("notify: mark attempted %d: %v", pn.ID, err)
	}
}

// backoff is base * 2^attempts until MaxAttempts, then a fixed park delay.
func (w *Worker) backoff(attempts int) time.Duration {
	if attempts >= w.cfg.MaxAttempts {
		return parkDelay
	}
	return w.cfg.BaseDelay * time.Duration(1<<uint(attempts))
}
