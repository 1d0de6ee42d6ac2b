package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/solstream/rewards/internal/adapter/treasury"
	"github.com/solstream/rewards/internal/domain/model"
	testhelpers "github.com/solstream/rewards/internal/test"
)

func TestNewPayoutSettlerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	settler := NewPayoutSettler(&testhelpers.SettlerFacadeStub{}, time.Second, 0, 0, logger)
	if settler.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", settler.batchSize)
	}
	if settler.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", settler.workers)
	}
}

func TestPayoutSettlerSettlesPayouts(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SettlerFacadeStub{
		Batches: [][]model.Payout{{{ID: 1, Identity: "alice", Points: 1000, Amount: 10, Status: model.PayoutStatusSettling}}},
	}
	settler := NewPayoutSettler(facade, 10*time.Millisecond, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	settler.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		settled := len(facade.Settled) > 0
		facade.Unlock()
		if settled {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for payout settlement")
		case <-time.After(10 * time.Millisecond):
		}
	}

	settler.Stop()
	facade.Lock()
	defer facade.Unlock()
	if len(facade.Transferred) == 0 || facade.Transferred[0].ID != 1 {
		t.Fatalf("expected transfer for payout 1, got %+v", facade.Transferred)
	}
	if len(facade.Settled) == 0 || facade.Settled[0] != 1 {
		t.Fatalf("expected payout 1 settled, got %+v", facade.Settled)
	}
	if len(facade.Released) != 0 {
		t.Fatalf("expected no releases, got %+v", facade.Released)
	}
}

func TestPayoutSettlerHandlesRateLimiting(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	attempts := int32(0)
	payout := model.Payout{ID: 1, Identity: "alice", Points: 1000, Amount: 10, Status: model.PayoutStatusSettling}
	facade := &testhelpers.SettlerFacadeStub{
		Batches: [][]model.Payout{{payout}, {payout}},
		TransferFn: func(context.Context, model.Payout) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return treasury.TooManyRequestsError{RetryAfter: 10 * time.Millisecond}
			}
			return nil
		},
	}

	settler := NewPayoutSettler(facade, 5*time.Millisecond, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	settler.Start(ctx)

	deadline := time.After(time.Second)
	for {
		facade.Lock()
		if len(facade.Settled) > 0 {
			facade.Unlock()
			break
		}
		facade.Unlock()
		select {
		case <-deadline:
			t.Fatal("timeout waiting for retry after rate limit")
		case <-time.After(10 * time.Millisecond):
		}
	}
	settler.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Released) == 0 || facade.Released[0] != 1 {
		t.Fatalf("expected rate limited payout to be released, got %+v", facade.Released)
	}
}

func TestPayoutSettlerReleasesRejectedPayouts(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SettlerFacadeStub{
		Batches: [][]model.Payout{{{ID: 3, Identity: "bob", Points: 1000, Amount: 10, Status: model.PayoutStatusSettling}}},
		TransferFn: func(context.Context, model.Payout) error {
			return treasury.ErrTransferRejected
		},
	}

	settler := NewPayoutSettler(facade, 5*time.Millisecond, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	settler.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		released := len(facade.Released) > 0
		facade.Unlock()
		if released {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for payout release")
		case <-time.After(10 * time.Millisecond):
		}
	}
	settler.Stop()

	facade.Lock()
	defer facade.Unlock()
	if facade.Released[0] != 3 {
		t.Fatalf("expected payout 3 released, got %+v", facade.Released)
	}
	if len(facade.Settled) != 0 {
		t.Fatalf("rejected payout must not be settled, got %+v", facade.Settled)
	}
}
