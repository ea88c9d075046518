package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/testutil"
)

func newConnectionService(ids ...uint) (*ConnectionService, *MockConnectionRepository, *recordingNotifier) {
	users := NewMockUserRepository(alumni(ids...)...)
	conns := NewMockConnectionRepository(users)
	notifier := &recordingNotifier{}
	svc := NewConnectionService(conns, users, notifier)
	svc.now = testutil.NewClock().Now
	return svc, conns, notifier
}

func TestConnectionService_RequestAcceptFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newConnectionService(1, 2)

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if conn.Status != models.ConnectionPending {
		t.Errorf("expected pending, got %s", conn.Status)
	}

	pending, err := svc.ListIncomingPending(ctx, 2)
	if err != nil {
		t.Fatalf("ListIncomingPending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Requester.ID != 1 {
		t.Fatalf("expected one request from 1, got %+v", pending)
	}
	if pending[0].Requester.DisplayName != "Asha" {
		t.Errorf("expected requester profile attached, got %q", pending[0].Requester.DisplayName)
	}

	resolved, err := svc.Resolve(ctx, 2, conn.ID, models.ConnectionAccepted)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Status != models.ConnectionAccepted {
		t.Errorf("expected accepted, got %s", resolved.Status)
	}

	forA, err := svc.ListAccepted(ctx, 1)
	if err != nil {
		t.Fatalf("ListAccepted(1) failed: %v", err)
	}
	forB, err := svc.ListAccepted(ctx, 2)
	if err != nil {
		t.Fatalf("ListAccepted(2) failed: %v", err)
	}
	if len(forA) != 1 || forA[0].Counterpart.ID != 2 || forA[0].Direction != models.DirectionOutgoing {
		t.Errorf("unexpected view for 1: %+v", forA)
	}
	if len(forB) != 1 || forB[0].Counterpart.ID != 1 || forB[0].Direction != models.DirectionIncoming {
		t.Errorf("unexpected view for 2: %+v", forB)
	}

	pending, _ = svc.ListIncomingPending(ctx, 2)
	if len(pending) != 0 {
		t.Errorf("accepted request still pending: %+v", pending)
	}

	kinds := notifier.kinds()
	if len(kinds) != 2 || kinds[0] != models.NotifyConnectionRequested || kinds[1] != models.NotifyConnectionAccepted {
		t.Errorf("unexpected notifications: %v", kinds)
	}
}

func TestConnectionService_CreateRequestErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setup     func(*ConnectionService, *MockConnectionRepository)
		requester uint
		recipient uint
		wantErr   error
	}{
		{
			name:      "self request",
			requester: 1, recipient: 1,
			wantErr: ErrSelfConnection,
		},
		{
			name:      "unknown recipient",
			requester: 1, recipient: 9,
			wantErr: ErrNotFound,
		},
		{
			name: "same direction twice",
			setup: func(s *ConnectionService, _ *MockConnectionRepository) {
				s.CreateRequest(ctx, 1, 2)
			},
			requester: 1, recipient: 2,
			wantErr: ErrDuplicateRequest,
		},
		{
			name: "reverse direction",
			setup: func(s *ConnectionService, _ *MockConnectionRepository) {
				s.CreateRequest(ctx, 2, 1)
			},
			requester: 1, recipient: 2,
			wantErr: ErrDuplicateRequest,
		},
		{
			name: "after rejection",
			setup: func(s *ConnectionService, _ *MockConnectionRepository) {
				c, _ := s.CreateRequest(ctx, 1, 2)
				s.Resolve(ctx, 2, c.ID, models.ConnectionRejected)
			},
			requester: 1, recipient: 2,
			wantErr: ErrDuplicateRequest,
		},
		{
			name: "store failure",
			setup: func(_ *ConnectionService, r *MockConnectionRepository) {
				r.createErr = errStoreDown
			},
			requester: 1, recipient: 2,
			wantErr: ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newConnectionService(1, 2)
			if tt.setup != nil {
				tt.setup(svc, repo)
			}
			_, err := svc.CreateRequest(ctx, tt.requester, tt.recipient)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConnectionService_PersistenceErrorKeepsCause(t *testing.T) {
	svc, repo, _ := newConnectionService(1, 2)
	repo.createErr = errStoreDown

	_, err := svc.CreateRequest(context.Background(), 1, 2)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PersistenceError, got %T", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestConnectionService_ConcurrentDuplicateRequests(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConnectionService(1, 2)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			conn, err := svc.CreateRequest(ctx, 1, 2)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && conn.Status == models.ConnectionPending:
				successes++
			case errors.Is(err, ErrDuplicateRequest):
				dupes++
			default:
				t.Errorf("unexpected result: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes != 1 || dupes != callers-1 {
		t.Errorf("expected 1 success and %d duplicates, got %d and %d", callers-1, successes, dupes)
	}
}

func TestConnectionService_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    uint
		connID   func(id uint) uint
		decision models.ConnectionStatus
		before   models.ConnectionStatus
		wantErr  error
	}{
		{name: "recipient accepts", actor: 2, decision: models.ConnectionAccepted},
		{name: "recipient rejects", actor: 2, decision: models.ConnectionRejected},
		{name: "requester cannot resolve", actor: 1, decision: models.ConnectionAccepted, wantErr: ErrNotRecipient},
		{name: "outsider sees not found", actor: 3, decision: models.ConnectionAccepted, wantErr: ErrNotFound},
		{name: "unknown id", actor: 2, connID: func(id uint) uint { return id + 100 }, decision: models.ConnectionAccepted, wantErr: ErrNotFound},
		{name: "pending is not a decision", actor: 2, decision: models.ConnectionPending, wantErr: ErrInvalidDecision},
		{name: "already accepted", actor: 2, before: models.ConnectionAccepted, decision: models.ConnectionRejected, wantErr: ErrAlreadyResolved},
		{name: "already rejected", actor: 2, before: models.ConnectionRejected, decision: models.ConnectionAccepted, wantErr: ErrAlreadyResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newConnectionService(1, 2, 3)
			conn, err := svc.CreateRequest(ctx, 1, 2)
			if err != nil {
				t.Fatalf("CreateRequest failed: %v", err)
			}
			if tt.before != "" {
				if _, err := svc.Resolve(ctx, 2, conn.ID, tt.before); err != nil {
					t.Fatalf("first Resolve failed: %v", err)
				}
			}
			id := conn.ID
			if tt.connID != nil {
				id = tt.connID(id)
			}

			got, err := svc.Resolve(ctx, tt.actor, id, tt.decision)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				stored, _ := repo.FindByID(ctx, conn.ID)
				want := tt.before
				if want == "" {
					want = models.ConnectionPending
				}
				if stored.Status != want {
					t.Errorf("status changed to %s on failed resolve", stored.Status)
				}
				return
			}
			if got.Status != tt.decision {
				t.Errorf("expected %s, got %s", tt.decision, got.Status)
			}
		})
	}
}

func TestConnectionService_ResolveReloadFailureIsPersistence(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newConnectionService(1, 2)
	conn, _ := svc.CreateRequest(ctx, 1, 2)

	repo.findErr = errStoreDown
	_, err := svc.Resolve(ctx, 2, conn.ID, models.ConnectionAccepted)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	repo.findErr = nil
	stored, _ := repo.FindByID(ctx, conn.ID)
	if stored.Status != models.ConnectionAccepted {
		t.Errorf("primary write should stay committed, got %s", stored.Status)
	}
}

func TestConnectionService_ListAcceptedIsSymmetric(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConnectionService(1, 2, 3, 4)

	accept := func(requester, recipient uint) {
		c, err := svc.CreateRequest(ctx, requester, recipient)
		if err != nil {
			t.Fatalf("CreateRequest(%d,%d) failed: %v", requester, recipient, err)
		}
		if _, err := svc.Resolve(ctx, recipient, c.ID, models.ConnectionAccepted); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
	}
	accept(1, 2)
	accept(3, 1)
	accept(1, 4)
	if _, err := svc.CreateRequest(ctx, 2, 3); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	views, err := svc.ListAccepted(ctx, 1)
	if err != nil {
		t.Fatalf("ListAccepted failed: %v", err)
	}
	// outgoing (newest first) then incoming
	want := []struct {
		peer uint
		dir  models.ConnectionDirection
	}{
		{4, models.DirectionOutgoing},
		{2, models.DirectionOutgoing},
		{3, models.DirectionIncoming},
	}
	if len(views) != len(want) {
		t.Fatalf("expected %d views, got %+v", len(want), views)
	}
	for i, w := range want {
		if views[i].Counterpart.ID != w.peer || views[i].Direction != w.dir {
			t.Errorf("view %d: got peer %d %s, want %d %s", i, views[i].Counterpart.ID, views[i].Direction, w.peer, w.dir)
		}
	}

	for _, peer := range []uint{2, 3, 4} {
		theirs, _ := svc.ListAccepted(ctx, peer)
		found := false
		for _, v := range theirs {
			if v.Counterpart.ID == 1 {
				found = true
			}
		}
		if !found {
			t.Errorf("user %d does not list 1 back", peer)
		}
		ok, _ := svc.AreConnected(ctx, peer, 1)
		if !ok {
			t.Errorf("AreConnected(%d, 1) = false", peer)
		}
	}

	if ok, _ := svc.AreConnected(ctx, 2, 3); ok {
		t.Error("pending request must not count as connected")
	}
}

func TestConnectionService_ListErrors(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newConnectionService(1, 2)
	repo.listErr = errStoreDown

	if _, err := svc.ListAccepted(ctx, 1); !errors.Is(err, ErrPersistence) {
		t.Errorf("ListAccepted: expected ErrPersistence, got %v", err)
	}
	if _, err := svc.ListIncomingPending(ctx, 1); !errors.Is(err, ErrPersistence) {
		t.Errorf("ListIncomingPending: expected ErrPersistence, got %v", err)
	}
	if _, err := svc.AreConnected(ctx, 1, 2); !errors.Is(err, ErrPersistence) {
		t.Errorf("AreConnected: expected ErrPersistence, got %v", err)
	}
}

func TestConnectionService_Between(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newConnectionService(1, 2, 3)

	if v, err := svc.Between(ctx, 1, 2); err != nil || v != nil {
		t.Fatalf("expected no connection, got %+v, %v", v, err)
	}

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	tests := []struct {
		viewer, other uint
		want          models.ConnectionDirection
	}{
		{1, 2, models.DirectionOutgoing},
		{2, 1, models.DirectionIncoming},
	}
	for _, tt := range tests {
		v, err := svc.Between(ctx, tt.viewer, tt.other)
		if err != nil || v == nil {
			t.Fatalf("Between(%d, %d) = %+v, %v", tt.viewer, tt.other, v, err)
		}
		if v.ConnectionID != conn.ID || v.Status != models.ConnectionPending || v.Direction != tt.want {
			t.Errorf("Between(%d, %d) = %+v", tt.viewer, tt.other, v)
		}
	}

	if v, _ := svc.Between(ctx, 1, 1); v != nil {
		t.Error("no connection with yourself")
	}

	repo.findErr = errStoreDown
	if _, err := svc.Between(ctx, 1, 3); !errors.Is(err, ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", err)
	}
}
