package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffleon2/draftea-settlement-service/internal/chain"
	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
)

var ErrUnsupportedToken = errors.New("unsupported token")

// Validator decides whether a confirmed transaction settles a payment: it
// must succeed and credit at least two token accounts of the payment's mint,
// one for the merchant and one for the platform fee.
type Validator struct {
	chain ChainClient
	mints map[models.Token]string
}

func NewValidator(chain ChainClient, mints map[models.Token]string) *Validator {
	return &Validator{chain: chain, mints: mints}
}

// IsSettlingTransaction fetches signature and applies the dual-transfer
// rule for token. A transaction the node cannot find is not settling.
func (v *Validator) IsSettlingTransaction(ctx context.Context, signature string, token models.Token) (bool, error) {
	mint, ok := v.mints[token]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedToken, token)
	}

	tx, err := v.chain.GetTransaction(ctx, signature)
	if err != nil {
		if errors.Is(err, chain.ErrTransactionNotFound) {
			metrics.ValidationsTotal.WithLabelValues("not_found").Inc()
			return false, nil
		}
		metrics.ValidationsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("error validating %s: %w", signature, err)
	}

	if IsDualTransfer(tx, mint) {
		metrics.ValidationsTotal.WithLabelValues("valid").Inc()
		return true, nil
	}
	metrics.ValidationsTotal.WithLabelValues("invalid").Inc()
	return false, nil
}

// HasAtLeastTwoInstructions is a structural hint used for status reporting
// only, never for settlement.
func (v *Validator) HasAtLeastTwoInstructions(ctx context.Context, signature string) (bool, error) {
	tx, err := v.chain.GetTransaction(ctx, signature)
	if err != nil {
		if errors.Is(err, chain.ErrTransactionNotFound) {
			return false, nil
		}
		return false, err
	}
	return tx.InstructionCount >= 2, nil
}

// IsDualTransfer counts post balances of mint that grew against the pre
// balance at the same account index. Accounts with no pre balance are not
// counted.
func IsDualTransfer(tx *chain.Transaction, mint string) bool {
	if tx == nil || tx.Failed {
		return false
	}

	pre := make(map[uint16]chain.TokenBalance, len(tx.PreTokenBalances))
	for _, b := range tx.PreTokenBalances {
		if b.Mint == mint {
			pre[b.AccountIndex] = b
		}
	}

	increases := 0
	for _, post := range tx.PostTokenBalances {
		if post.Mint != mint {
			continue
		}
		before, ok := pre[post.AccountIndex]
		if !ok {
			continue
		}
		if post.Amount.GreaterThan(before.Amount) {
			increases++
		}
	}
	return increases >= 2
}
