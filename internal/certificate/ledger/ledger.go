// Package ledger is the narrow capability surface over the certificate token
// contract. It carries no business rules.
package ledger

import (
	"context"

	dErrors "academix/pkg/domain-errors"
)

// MintReceipt is the confirmation of a mint. AssignedTokenID is nil when the
// token id could not be read from the emitted Transfer event.
type MintReceipt struct {
	TxRef           string
	AssignedTokenID *string
}

// TokenRecord is the on-chain view of a token.
type TokenRecord struct {
	TokenID       string
	MetadataRef   string
	Owner         string
	MintedAtBlock uint64
}

// Gateway errors carry domain codes: CodeUnavailable when no signer is
// configured or the node cannot be reached, CodeInvalidInput for a malformed
// recipient, CodeNotFound for an unknown token.
type Gateway interface {
	Mint(ctx context.Context, idHint, metadataRef, recipient string) (*MintReceipt, error)
	GetToken(ctx context.Context, tokenID string) (*TokenRecord, error)
	Owner(ctx context.Context) (string, error)
}

// Offline stands in when no RPC endpoint is configured. Every call fails as
// unavailable, so issuance leaves certificates pending.
type Offline struct{}

func (Offline) Mint(context.Context, string, string, string) (*MintReceipt, error) {
	return nil, dErrors.New(dErrors.CodeUnavailable, "ledger not configured")
}

func (Offline) GetToken(context.Context, string) (*TokenRecord, error) {
	return nil, dErrors.New(dErrors.CodeUnavailable, "ledger not configured")
}

func (Offline) Owner(context.Context) (string, error) {
	return "", dErrors.New(dErrors.CodeUnavailable, "ledger not configured")
}
