package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/chain"
	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAccount  = errors.New("invalid account")
	ErrPaymentNotFound = models.ErrPaymentNotFound
)

// ChainClient reads signature history and transactions from the chain.
type ChainClient interface {
	GetRecentSignatures(ctx context.Context, address string, limit int) ([]chain.SignatureInfo, error)
	GetTransaction(ctx context.Context, signature string) (*chain.Transaction, error)
}

// PaymentStore is the slice of the payment service the monitor needs.
// UpdatePaymentStatus must refuse to complete an already completed payment
// with models.ErrPaymentAlreadyCompleted.
type PaymentStore interface {
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, signature string) error
}

// Publisher defines the interface for publishing events to Kafka topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

type Sender interface {
	Send(v interface{}) bool
}

// Connector is the subscription channel. *Connection implements it.
type Connector interface {
	Sender
	SendWithEpoch(v interface{}) (uint64, bool)
	Run(ctx context.Context)
	Messages() <-chan []byte
	Events() <-chan ConnectionEvent
	IsConnected() bool
	Close() error
}

type Options struct {
	SignatureLimit         int
	RecencyWindow          time.Duration
	WatchTTL               time.Duration
	SweepInterval          time.Duration
	ResubscribeOnReconnect bool
	FeeWallet              string
	FeeAmount              decimal.Decimal
	Tokens                 config.Tokens
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SignatureLimit:         cfg.Monitor.SignatureLimit,
		RecencyWindow:          cfg.Monitor.RecencyWindow,
		WatchTTL:               cfg.Monitor.WatchTTL,
		SweepInterval:          cfg.Monitor.SweepInterval,
		ResubscribeOnReconnect: cfg.Monitor.ResubscribeOnReconnect,
		FeeWallet:              cfg.Fee.Wallet,
		FeeAmount:              cfg.Fee.Amount,
		Tokens:                 cfg.Tokens,
	}
}

// VerifyResult is the outcome of a manual verification.
type VerifyResult struct {
	Verified               bool
	Status                 models.PaymentStatus
	Signature              string
	DualTransfersCompleted bool
	VerifiedAt             *time.Time
}

// SettlementMonitor watches payment accounts over the websocket channel and
// completes payments once a dual-transfer transaction lands.
type SettlementMonitor struct {
	opts       Options
	conn       Connector
	store      PaymentStore
	registry   *Registry
	validator  *Validator
	handler    *BalanceHandler
	dispatcher *Dispatcher
	reaper     *Reaper
	settler    *settler
	now        func() time.Time

	runCtx   context.Context
	inflight sync.WaitGroup
}

// NewSettlementMonitor wires the monitor. publisher may be nil, in which case
// watch expiries are only logged.
func NewSettlementMonitor(opts Options, conn Connector, chainClient ChainClient, store PaymentStore, publisher Publisher) *SettlementMonitor {
	registry := NewRegistry()
	validator := NewValidator(chainClient, map[models.Token]string{
		models.TokenUSDC: opts.Tokens.USDCMint,
		models.TokenUSDT: opts.Tokens.USDTMint,
	})

	m := &SettlementMonitor{
		opts:      opts,
		conn:      conn,
		store:     store,
		registry:  registry,
		validator: validator,
		handler:   NewBalanceHandler(registry, chainClient, validator, conn, store, opts.SignatureLimit, opts.RecencyWindow),
		reaper:    NewReaper(registry, conn, publisher, opts.WatchTTL, opts.SweepInterval),
		settler:   &settler{registry: registry, sender: conn, store: store},
		now:       time.Now,
		runCtx:    context.Background(),
	}
	m.dispatcher = NewDispatcher(registry, m.onNotification)
	return m
}

// WithClock replaces the clock of the monitor and the components it owns.
func (m *SettlementMonitor) WithClock(now func() time.Time) *SettlementMonitor {
	m.now = now
	m.handler.WithClock(now)
	m.reaper.WithClock(now)
	return m
}

// Run drives the connection and processes inbound traffic until ctx is
// cancelled. In-flight notification handlers are waited for before it
// returns.
func (m *SettlementMonitor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.runCtx = ctx

	if err := m.reaper.Start(); err != nil {
		return err
	}

	var connDone sync.WaitGroup
	connDone.Add(1)
	go func() {
		defer connDone.Done()
		m.conn.Run(ctx)
	}()

	defer func() {
		<-m.reaper.Stop().Done()
		cancel()
		if err := m.conn.Close(); err != nil {
			logrus.Warnf("error closing websocket: %v", err)
		}
		connDone.Wait()
		m.inflight.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw := <-m.conn.Messages():
			m.dispatcher.Dispatch(raw)
		case ev := <-m.conn.Events():
			m.onConnectionEvent(ev)
		}
	}
}

func (m *SettlementMonitor) onConnectionEvent(ev ConnectionEvent) {
	switch ev.Type {
	case Connected:
		if !m.opts.ResubscribeOnReconnect {
			return
		}
		if sent := m.registry.Rearm(ev.Epoch, m.sendSubscribe); sent > 0 {
			logrus.Infof("resubscribed %d watches on connection epoch %d", sent, ev.Epoch)
		}
	case Disconnected:
		logrus.Warnf("websocket down, %d watches waiting for reconnect", m.registry.Len())
	}
}

func (m *SettlementMonitor) onNotification(subscriptionID uint64, snapshot json.RawMessage) {
	ctx := m.runCtx
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		m.handler.Handle(ctx, subscriptionID, snapshot)
	}()
}

func (m *SettlementMonitor) sendSubscribe(ephemeralID uint64, w models.Watch) (uint64, bool) {
	return m.conn.SendWithEpoch(models.NewAccountSubscribe(ephemeralID, w.WatchedAccount))
}

// WatchPaymentAccounts subscribes to balance changes on every target of
// paymentID. All targets are validated before anything is registered.
func (m *SettlementMonitor) WatchPaymentAccounts(ctx context.Context, paymentID string, targets []models.WatchTarget) error {
	if paymentID == "" {
		return fmt.Errorf("%w: payment id is required", ErrInvalidAccount)
	}
	if len(targets) == 0 {
		return fmt.Errorf("%w: no accounts to watch", ErrInvalidAccount)
	}
	targets = append([]models.WatchTarget(nil), targets...)
	for i, t := range targets {
		if err := chain.ValidateAddress(t.Account); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidAccount, t.Account)
		}
		if t.Asset == "" {
			targets[i].Asset = models.TokenUSDC
		}
		if _, ok := m.opts.Tokens.Lookup(string(targets[i].Asset)); !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedToken, targets[i].Asset)
		}
	}

	log := logrus.WithField("payment_id", paymentID)
	if !m.conn.IsConnected() && !m.opts.ResubscribeOnReconnect {
		log.Warn("websocket not connected, cannot subscribe")
		return nil
	}

	now := m.now()
	for _, t := range targets {
		w := models.Watch{
			PaymentID:      paymentID,
			WatchedAccount: t.Account,
			ExpectedAmount: t.ExpectedAmount,
			Token:          t.Asset,
			SubscribedAt:   now,
		}
		if _, ok := m.registry.Subscribe(w, m.sendSubscribe, m.opts.ResubscribeOnReconnect); !ok {
			log.WithField("account", t.Account).Warn("subscribe not sent, watch not yet active")
			continue
		}
		log.WithFields(logrus.Fields{
			"account":  t.Account,
			"expected": t.ExpectedAmount.String(),
			"asset":    t.Asset,
		}).Info("watching account")
	}
	return nil
}

// WatchPayment derives the merchant and fee token accounts of payment and
// watches both.
func (m *SettlementMonitor) WatchPayment(ctx context.Context, payment *models.Payment) error {
	targets, err := m.TargetsFor(payment)
	if err != nil {
		return err
	}
	return m.WatchPaymentAccounts(ctx, payment.ID, targets)
}

// TargetsFor returns the associated token accounts that receive the merchant
// amount and the platform fee for payment.
func (m *SettlementMonitor) TargetsFor(payment *models.Payment) ([]models.WatchTarget, error) {
	token, ok := m.opts.Tokens.Lookup(string(payment.Token))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedToken, payment.Token)
	}

	merchantATA, err := chain.AssociatedTokenAddress(payment.Recipient, token.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: recipient %q", ErrInvalidAccount, payment.Recipient)
	}
	feeATA, err := chain.AssociatedTokenAddress(m.opts.FeeWallet, token.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: fee wallet %q", ErrInvalidAccount, m.opts.FeeWallet)
	}

	return []models.WatchTarget{
		{Account: merchantATA, Asset: payment.Token, ExpectedAmount: payment.Amount},
		{Account: feeATA, Asset: payment.Token, ExpectedAmount: m.opts.FeeAmount},
	}, nil
}

// ForceVerify checks signature against payment paymentID without waiting
// for a notification, and completes the payment when it is settling. A
// payment whose token cannot be validated reports ErrUnsupportedToken.
func (m *SettlementMonitor) ForceVerify(ctx context.Context, paymentID, signature string) (VerifyResult, error) {
	payment, err := m.store.GetPayment(ctx, paymentID)
	if err != nil {
		return VerifyResult{}, err
	}

	result := storedResult(payment)
	if payment.IsCompleted() {
		return m.withDualTransfers(ctx, result), nil
	}
	if signature == "" {
		return result, nil
	}

	valid, err := m.validator.IsSettlingTransaction(ctx, signature, payment.Token)
	if err != nil {
		return result, err
	}
	if !valid {
		return result, nil
	}

	err = m.store.UpdatePaymentStatus(ctx, paymentID, models.StatusCompleted, signature)
	if errors.Is(err, models.ErrPaymentAlreadyCompleted) {
		m.settler.release(paymentID)
		stored, err := m.store.GetPayment(ctx, paymentID)
		if err != nil {
			return result, fmt.Errorf("error reloading payment %s: %w", paymentID, err)
		}
		return m.withDualTransfers(ctx, storedResult(stored)), nil
	}
	if err != nil {
		return result, fmt.Errorf("error completing payment %s: %w", paymentID, err)
	}
	m.settler.release(paymentID)
	metrics.SettlementsTotal.WithLabelValues("force_verify").Inc()

	verifiedAt := m.now()
	result.Verified = true
	result.Status = models.StatusCompleted
	result.Signature = signature
	result.VerifiedAt = &verifiedAt
	return m.withDualTransfers(ctx, result), nil
}

// storedResult reports payment as the store holds it.
func storedResult(payment *models.Payment) VerifyResult {
	result := VerifyResult{
		Verified:   payment.IsCompleted(),
		Status:     payment.Status,
		VerifiedAt: payment.VerifiedAt,
	}
	if payment.Signature != nil {
		result.Signature = *payment.Signature
	}
	return result
}

func (m *SettlementMonitor) withDualTransfers(ctx context.Context, result VerifyResult) VerifyResult {
	if result.Verified {
		result.DualTransfersCompleted = m.DualTransfersCompleted(ctx, result.Signature)
	}
	return result
}

// DualTransfersCompleted reports the instruction-count hint for signature.
func (m *SettlementMonitor) DualTransfersCompleted(ctx context.Context, signature string) bool {
	if signature == "" {
		return false
	}
	ok, err := m.validator.HasAtLeastTwoInstructions(ctx, signature)
	if err != nil {
		logrus.Warnf("error inspecting transaction %s: %v", signature, err)
		return false
	}
	return ok
}

// ActiveWatchCount counts pending and active watches.
func (m *SettlementMonitor) ActiveWatchCount() int {
	return m.registry.Len()
}

func (m *SettlementMonitor) IsConnected() bool {
	return m.conn.IsConnected()
}

func (m *SettlementMonitor) Close() error {
	return m.conn.Close()
}
