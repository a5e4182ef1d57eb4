package monitor_test

import (
	"context"
	"sync"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/chain"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/monitor"
	"github.com/shopspring/decimal"
)

const (
	usdcMint      = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	usdtMint      = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	feeWallet     = "9E9ME8Xjrnnz5tyLqPWUbXVbPjXusEp9NdjKeugDjW5t"
	merchantOwner = "So11111111111111111111111111111111111111112"
	accountA      = "11111111111111111111111111111111"
)

var testTokens = config.Tokens{
	USDCMint: usdcMint,
	USDTMint: usdtMint,
}

func testMints() map[models.Token]string {
	return map[models.Token]string{
		models.TokenUSDC: usdcMint,
		models.TokenUSDT: usdtMint,
	}
}

func testOptions() monitor.Options {
	return monitor.Options{
		SignatureLimit:         5,
		RecencyWindow:          2 * time.Minute,
		WatchTTL:               10 * time.Minute,
		SweepInterval:          time.Hour,
		ResubscribeOnReconnect: true,
		FeeWallet:              feeWallet,
		FeeAmount:              decimal.RequireFromString("0.1"),
		Tokens:                 testTokens,
	}
}

// fakeConn records outbound frames and lets tests push inbound traffic.
type fakeConn struct {
	mu        sync.Mutex
	connected bool
	epoch     uint64
	sent      []models.RPCRequest
	messages  chan []byte
	events    chan monitor.ConnectionEvent
}

func newFakeConn(connected bool) *fakeConn {
	f := &fakeConn{
		connected: connected,
		messages:  make(chan []byte, 16),
		events:    make(chan monitor.ConnectionEvent, 16),
	}
	if connected {
		f.epoch = 1
	}
	return f
}

func (f *fakeConn) Send(v interface{}) bool {
	_, ok := f.SendWithEpoch(v)
	return ok
}

func (f *fakeConn) SendWithEpoch(v interface{}) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return 0, false
	}
	f.sent = append(f.sent, v.(models.RPCRequest))
	return f.epoch, true
}

func (f *fakeConn) Run(ctx context.Context) { <-ctx.Done() }

func (f *fakeConn) Messages() <-chan []byte { return f.messages }

func (f *fakeConn) Events() <-chan monitor.ConnectionEvent { return f.events }

func (f *fakeConn) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeConn) Close() error { return nil }

// connect simulates a successful dial and returns the new epoch.
func (f *fakeConn) connect() uint64 {
	f.mu.Lock()
	f.connected = true
	f.epoch++
	epoch := f.epoch
	f.mu.Unlock()
	f.events <- monitor.ConnectionEvent{Type: monitor.Connected, Epoch: epoch}
	return epoch
}

func (f *fakeConn) sentWith(method string) []models.RPCRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RPCRequest
	for _, r := range f.sent {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func balance(index uint16, mint, value string) chain.TokenBalance {
	return chain.TokenBalance{AccountIndex: index, Mint: mint, Amount: amount(value)}
}

// dualTransferTx credits a merchant account and a fee account with mint.
func dualTransferTx(signature, mint string) *chain.Transaction {
	return &chain.Transaction{
		Signature: signature,
		PreTokenBalances: []chain.TokenBalance{
			balance(0, mint, "500"),
			balance(1, mint, "0"),
			balance(2, mint, "3"),
		},
		PostTokenBalances: []chain.TokenBalance{
			balance(0, mint, "489.9"),
			balance(1, mint, "10"),
			balance(2, mint, "3.1"),
		},
		InstructionCount: 2,
	}
}

func activeWatch(registry *monitor.Registry, ephemeralID, subscriptionID uint64, paymentID, account string, subscribedAt time.Time) {
	registry.Register(ephemeralID, models.Watch{
		PaymentID:      paymentID,
		WatchedAccount: account,
		ExpectedAmount: amount("10"),
		Token:          models.TokenUSDC,
		SubscribedAt:   subscribedAt,
		Epoch:          1,
	})
	registry.Promote(ephemeralID, subscriptionID)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
