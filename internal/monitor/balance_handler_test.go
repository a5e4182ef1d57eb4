package monitor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/chain"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/monitor"
	"github.com/jeffleon2/draftea-settlement-service/internal/monitor/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type handlerFixture struct {
	now      time.Time
	registry *monitor.Registry
	conn     *fakeConn
	chain    *mocks.MockChainClient
	store    *mocks.MockPaymentStore
	handler  *monitor.BalanceHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	registry := monitor.NewRegistry()
	conn := newFakeConn(true)
	chainClient := mocks.NewMockChainClient(t)
	store := mocks.NewMockPaymentStore(t)
	validator := monitor.NewValidator(chainClient, testMints())

	handler := monitor.NewBalanceHandler(registry, chainClient, validator, conn, store, 5, 2*time.Minute).
		WithClock(func() time.Time { return now })

	return &handlerFixture{
		now:      now,
		registry: registry,
		conn:     conn,
		chain:    chainClient,
		store:    store,
		handler:  handler,
	}
}

func TestHandle_CompletesPaymentOnRecentDualTransfer(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)
	activeWatch(f.registry, 2, 102, "P", merchantOwner, f.now)

	f.chain.EXPECT().
		GetRecentSignatures(ctx, accountA, 5).
		Return([]chain.SignatureInfo{{Signature: "S1", BlockTime: timePtr(f.now.Add(-30 * time.Second))}}, nil).
		Once()
	f.chain.EXPECT().GetTransaction(ctx, "S1").Return(dualTransferTx("S1", usdcMint), nil).Once()
	f.store.EXPECT().UpdatePaymentStatus(ctx, "P", models.StatusCompleted, "S1").Return(nil).Once()

	f.handler.Handle(ctx, 101, nil)

	assert.Equal(t, 0, f.registry.Len())
	unsubscribes := f.conn.sentWith(models.MethodAccountUnsubscribe)
	assert.Len(t, unsubscribes, 2)
	var ids []interface{}
	for _, u := range unsubscribes {
		ids = append(ids, u.Params[0])
	}
	assert.ElementsMatch(t, []interface{}{uint64(101), uint64(102)}, ids)
}

func TestHandle_ReleasesWatchesWhenStoreAlreadyCompleted(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)
	activeWatch(f.registry, 2, 102, "P", merchantOwner, f.now)

	f.chain.EXPECT().
		GetRecentSignatures(ctx, accountA, 5).
		Return([]chain.SignatureInfo{{Signature: "S1", BlockTime: timePtr(f.now.Add(-30 * time.Second))}}, nil).
		Once()
	f.chain.EXPECT().GetTransaction(ctx, "S1").Return(dualTransferTx("S1", usdcMint), nil).Once()
	f.store.EXPECT().
		UpdatePaymentStatus(ctx, "P", models.StatusCompleted, "S1").
		Return(models.ErrPaymentAlreadyCompleted).
		Once()

	f.handler.Handle(ctx, 101, nil)

	assert.Equal(t, 0, f.registry.Len())
	assert.Len(t, f.conn.sentWith(models.MethodAccountUnsubscribe), 2)
}

func TestHandle_IgnoresSignaturesOutsideRecencyWindow(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)

	f.chain.EXPECT().
		GetRecentSignatures(ctx, accountA, 5).
		Return([]chain.SignatureInfo{
			{Signature: "OLD", BlockTime: timePtr(f.now.Add(-3 * time.Minute))},
			{Signature: "NOTIME"},
		}, nil).
		Once()

	f.handler.Handle(ctx, 101, nil)

	assert.Equal(t, 1, f.registry.Len())
	f.chain.AssertNotCalled(t, "GetTransaction", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_TriesNextSignatureWhenNewestIsNotSettling(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)

	single := &chain.Transaction{
		PreTokenBalances:  []chain.TokenBalance{balance(0, usdcMint, "0")},
		PostTokenBalances: []chain.TokenBalance{balance(0, usdcMint, "1")},
	}
	f.chain.EXPECT().
		GetRecentSignatures(ctx, accountA, 5).
		Return([]chain.SignatureInfo{
			{Signature: "S2", BlockTime: timePtr(f.now.Add(-60 * time.Second))},
			{Signature: "S1", BlockTime: timePtr(f.now.Add(-10 * time.Second))},
		}, nil).
		Once()
	f.chain.EXPECT().GetTransaction(ctx, "S1").Return(single, nil).Once()
	f.chain.EXPECT().GetTransaction(ctx, "S2").Return(dualTransferTx("S2", usdcMint), nil).Once()
	f.store.EXPECT().UpdatePaymentStatus(ctx, "P", models.StatusCompleted, "S2").Return(nil).Once()

	f.handler.Handle(ctx, 101, nil)

	assert.Equal(t, 0, f.registry.Len())
}

func TestHandle_SignatureFetchFailureKeepsWatch(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)

	f.chain.EXPECT().GetRecentSignatures(ctx, accountA, 5).Return(nil, errors.New("rate limited")).Once()

	f.handler.Handle(ctx, 101, nil)

	assert.Equal(t, 1, f.registry.Len())
}

func TestHandle_RestoresWatchesWhenStatusUpdateFails(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)

	f.chain.EXPECT().
		GetRecentSignatures(ctx, accountA, 5).
		Return([]chain.SignatureInfo{{Signature: "S1", BlockTime: timePtr(f.now)}}, nil).
		Once()
	f.chain.EXPECT().GetTransaction(ctx, "S1").Return(dualTransferTx("S1", usdcMint), nil).Once()
	f.store.EXPECT().UpdatePaymentStatus(ctx, "P", models.StatusCompleted, "S1").Return(errors.New("db down")).Once()

	f.handler.Handle(ctx, 101, nil)

	_, found := f.registry.Find(101)
	assert.True(t, found)
	assert.Empty(t, f.conn.sentWith(models.MethodAccountUnsubscribe))
}

func TestHandle_UnknownSubscriptionIsNoop(t *testing.T) {
	f := newHandlerFixture(t)
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)

	f.handler.Handle(context.Background(), 999, nil)

	assert.Equal(t, 1, f.registry.Len())
}

func TestHandle_ConcurrentNotificationsCompleteOnce(t *testing.T) {
	f := newHandlerFixture(t)
	activeWatch(f.registry, 1, 101, "P", accountA, f.now)
	activeWatch(f.registry, 2, 102, "P", merchantOwner, f.now)

	recent := []chain.SignatureInfo{{Signature: "S1", BlockTime: timePtr(f.now.Add(-5 * time.Second))}}
	f.chain.EXPECT().GetRecentSignatures(mock.Anything, mock.Anything, 5).Return(recent, nil)
	f.chain.EXPECT().GetTransaction(mock.Anything, "S1").Return(dualTransferTx("S1", usdcMint), nil)
	f.store.EXPECT().UpdatePaymentStatus(mock.Anything, "P", models.StatusCompleted, "S1").Return(nil).Once()

	var wg sync.WaitGroup
	for _, sub := range []uint64{101, 102} {
		wg.Add(1)
		go func(sub uint64) {
			defer wg.Done()
			f.handler.Handle(context.Background(), sub, nil)
		}(sub)
	}
	wg.Wait()

	assert.Equal(t, 0, f.registry.Len())
	f.store.AssertNumberOfCalls(t, "UpdatePaymentStatus", 1)
}
