package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAddress      = errors.New("invalid solana address")
)

// SignatureInfo is one entry of an account's signature history.
type SignatureInfo struct {
	Signature string
	BlockTime *time.Time
	Failed    bool
}

// TokenBalance is a token account balance snapshot taken before or after a
// transaction. Amount is expressed in whole tokens at the mint's precision.
type TokenBalance struct {
	AccountIndex uint16
	Mint         string
	Owner        string
	Amount       decimal.Decimal
}

// Transaction is the subset of a confirmed transaction the settlement
// monitor needs to decide whether it pays a payment.
type Transaction struct {
	Signature         string
	Slot              uint64
	BlockTime         *time.Time
	Failed            bool
	Fee               uint64
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
	InstructionCount  int
}

// Client reads signatures and transactions from a Solana JSON-RPC node.
type Client struct {
	rpc *rpc.Client
}

func NewClient(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint)}
}

// GetRecentSignatures returns up to limit signatures touching address,
// newest first, at confirmed commitment.
func (c *Client) GetRecentSignatures(ctx context.Context, address string, limit int) ([]SignatureInfo, error) {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	out, err := c.rpc.GetSignaturesForAddressWithOpts(ctx, pub, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching signatures for %s: %w", address, err)
	}

	signatures := make([]SignatureInfo, 0, len(out))
	for _, s := range out {
		if s == nil {
			continue
		}
		info := SignatureInfo{
			Signature: s.Signature.String(),
			Failed:    s.Err != nil,
		}
		if s.BlockTime != nil {
			t := s.BlockTime.Time()
			info.BlockTime = &t
		}
		signatures = append(signatures, info)
	}
	return signatures, nil
}

// GetTransaction fetches a confirmed transaction with its metadata.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*Transaction, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", signature, err)
	}

	maxVersion := uint64(0)
	res, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("error fetching transaction %s: %w", signature, err)
	}
	if res == nil || res.Meta == nil {
		return nil, ErrTransactionNotFound
	}

	tx := &Transaction{
		Signature:         signature,
		Slot:              res.Slot,
		Failed:            res.Meta.Err != nil,
		Fee:               res.Meta.Fee,
		PreTokenBalances:  toTokenBalances(res.Meta.PreTokenBalances),
		PostTokenBalances: toTokenBalances(res.Meta.PostTokenBalances),
	}
	if res.BlockTime != nil {
		t := res.BlockTime.Time()
		tx.BlockTime = &t
	}
	if res.Transaction != nil {
		if decoded, err := res.Transaction.GetTransaction(); err == nil && decoded != nil {
			tx.InstructionCount = len(decoded.Message.Instructions)
		}
	}
	return tx, nil
}

func toTokenBalances(in []rpc.TokenBalance) []TokenBalance {
	out := make([]TokenBalance, 0, len(in))
	for _, b := range in {
		balance := TokenBalance{
			AccountIndex: b.AccountIndex,
			Mint:         b.Mint.String(),
		}
		if b.Owner != nil {
			balance.Owner = b.Owner.String()
		}
		balance.Amount = uiAmount(b.UiTokenAmount)
		out = append(out, balance)
	}
	return out
}

// uiAmount converts the raw integer amount to whole tokens using the mint
// decimals reported in the snapshot.
func uiAmount(a *rpc.UiTokenAmount) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	if a.Amount != "" {
		if raw, err := decimal.NewFromString(a.Amount); err == nil {
			return raw.Shift(-int32(a.Decimals))
		}
	}
	if a.UiAmountString != "" {
		if v, err := decimal.NewFromString(a.UiAmountString); err == nil {
			return v
		}
	}
	return decimal.Zero
}

// ValidateAddress reports whether address is a well formed base58 public key.
func ValidateAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return nil
}

// AssociatedTokenAddress derives the associated token account of wallet for mint.
func AssociatedTokenAddress(wallet, mint string) (string, error) {
	walletKey, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, wallet)
	}
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, mint)
	}
	ata, _, err := solana.FindAssociatedTokenAddress(walletKey, mintKey)
	if err != nil {
		return "", fmt.Errorf("error deriving token account for %s: %w", wallet, err)
	}
	return ata.String(), nil
}
