package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"academix/internal/platform/config"
	dErrors "academix/pkg/domain-errors"
)

// Backend is the node surface the adapter needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// EVMGateway implements Gateway against an ERC-721 certificate contract.
type EVMGateway struct {
	backend  Backend
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	signer   *ecdsa.PrivateKey
	chainID  *big.Int
	logger   *slog.Logger
}

type EVMOption func(*EVMGateway)

func WithLogger(logger *slog.Logger) EVMOption {
	return func(g *EVMGateway) {
		g.logger = logger
	}
}

// WithSigner sets the key used to send mint transactions. Without it Mint
// reports the gateway as unavailable.
func WithSigner(key *ecdsa.PrivateKey, chainID *big.Int) EVMOption {
	return func(g *EVMGateway) {
		g.signer = key
		g.chainID = chainID
	}
}

// NewEVMGateway binds the certificate contract at contractAddress.
func NewEVMGateway(backend Backend, contractAddress string, opts ...EVMOption) (*EVMGateway, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid ledger contract address %q", contractAddress)
	}
	parsed, err := abi.JSON(strings.NewReader(certificateABI))
	if err != nil {
		return nil, fmt.Errorf("parse certificate abi: %w", err)
	}

	address := common.HexToAddress(contractAddress)
	g := &EVMGateway{
		backend:  backend,
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Dial connects to the configured RPC endpoint and builds the gateway. A
// missing signer key leaves the gateway read-only.
func Dial(ctx context.Context, cfg config.Ledger, logger *slog.Logger) (*EVMGateway, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}

	opts := []EVMOption{WithLogger(logger)}
	if cfg.SignerKey != "" {
		key, err := crypto.HexToECDSA(cfg.SignerKey)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("parse ledger signer key: %w", err)
		}
		chainID := big.NewInt(cfg.ChainID)
		if cfg.ChainID == 0 {
			if chainID, err = client.ChainID(ctx); err != nil {
				client.Close()
				return nil, fmt.Errorf("read ledger chain id: %w", err)
			}
		}
		opts = append(opts, WithSigner(key, chainID))
	}

	return NewEVMGateway(client, cfg.ContractAddress, opts...)
}

// Mint sends mintCertificate and waits for it to be mined.
func (g *EVMGateway) Mint(ctx context.Context, idHint, metadataRef, recipient string) (*MintReceipt, error) {
	if g.signer == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "ledger signer not configured")
	}
	if !common.IsHexAddress(recipient) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "recipient is not a valid address")
	}

	auth, err := bind.NewKeyedTransactorWithChainID(g.signer, g.chainID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "build ledger transactor")
	}
	auth.Context = ctx

	tx, err := g.contract.Transact(auth, "mintCertificate", common.HexToAddress(recipient), idHint, metadataRef)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "send mint transaction")
	}

	receipt, err := bind.WaitMined(ctx, g.backend, tx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "wait for mint receipt")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, dErrors.New(dErrors.CodeInternal, "mint transaction reverted")
	}

	out := &MintReceipt{TxRef: tx.Hash().Hex()}
	if tokenID, ok := g.mintedTokenID(receipt.Logs); ok {
		out.AssignedTokenID = &tokenID
	} else {
		g.logger.WarnContext(ctx, "mint receipt carried no transfer event",
			"tx_ref", out.TxRef,
			"id_hint", idHint,
		)
	}
	return out, nil
}

// mintedTokenID reads the token id from the first Transfer event emitted by
// the contract from the zero address.
func (g *EVMGateway) mintedTokenID(logs []*types.Log) (string, bool) {
	transfer := g.abi.Events["Transfer"].ID
	for _, l := range logs {
		if l == nil || l.Address != g.address || len(l.Topics) != 4 || l.Topics[0] != transfer {
			continue
		}
		if common.BytesToAddress(l.Topics[1].Bytes()) != (common.Address{}) {
			continue
		}
		return new(big.Int).SetBytes(l.Topics[3].Bytes()).String(), true
	}
	return "", false
}

// GetToken reads a token by its numeric id. A non-numeric id is treated as a
// certificate id and resolved through the contract first.
func (g *EVMGateway) GetToken(ctx context.Context, tokenID string) (*TokenRecord, error) {
	opts := &bind.CallOpts{Context: ctx}

	numericID, err := g.resolveTokenID(opts, tokenID)
	if err != nil {
		return nil, err
	}

	var ownerOut []any
	if err := g.contract.Call(opts, &ownerOut, "ownerOf", numericID); err != nil {
		return nil, callError(err, "read token owner")
	}
	owner := *abi.ConvertType(ownerOut[0], new(common.Address)).(*common.Address)

	var uriOut []any
	if err := g.contract.Call(opts, &uriOut, "tokenURI", numericID); err != nil {
		return nil, callError(err, "read token uri")
	}
	uri := *abi.ConvertType(uriOut[0], new(string)).(*string)

	return &TokenRecord{
		TokenID:       numericID.String(),
		MetadataRef:   uri,
		Owner:         owner.Hex(),
		MintedAtBlock: g.mintedAtBlock(ctx, numericID),
	}, nil
}

func (g *EVMGateway) resolveTokenID(opts *bind.CallOpts, tokenID string) (*big.Int, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	if n, ok := new(big.Int).SetString(tokenID, 10); ok && n.Sign() >= 0 {
		return n, nil
	}

	var out []any
	if err := g.contract.Call(opts, &out, "tokenOfCertificate", tokenID); err != nil {
		return nil, callError(err, "resolve certificate token")
	}
	n := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if n == nil || n.Sign() == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	return n, nil
}

// mintedAtBlock finds the block of the mint Transfer event. Zero means unknown.
func (g *EVMGateway) mintedAtBlock(ctx context.Context, tokenID *big.Int) uint64 {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{g.address},
		Topics: [][]common.Hash{
			{g.abi.Events["Transfer"].ID},
			{common.Hash{}},
			nil,
			{common.BigToHash(tokenID)},
		},
	}
	logs, err := g.backend.FilterLogs(ctx, query)
	if err != nil || len(logs) == 0 {
		if err != nil {
			g.logger.DebugContext(ctx, "mint block lookup failed", "token_id", tokenID.String(), "error", err)
		}
		return 0
	}
	return logs[0].BlockNumber
}

func (g *EVMGateway) Owner(ctx context.Context) (string, error) {
	var out []any
	if err := g.contract.Call(&bind.CallOpts{Context: ctx}, &out, "owner"); err != nil {
		return "", callError(err, "read contract owner")
	}
	return abi.ConvertType(out[0], new(common.Address)).(*common.Address).Hex(), nil
}

// Health reports whether the node answers.
func (g *EVMGateway) Health(ctx context.Context) error {
	if _, err := g.backend.HeaderByNumber(ctx, nil); err != nil {
		return fmt.Errorf("ledger node: %w", err)
	}
	return nil
}

// callError maps a reverted view call to NotFound and anything else to Unavailable.
func callError(err error, msg string) error {
	if isRevert(err) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "token not found")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}

func isRevert(err error) bool {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && strings.Contains(strings.ToLower(dataErr.Error()), "revert") {
		return true
	}
	if errors.Is(err, bind.ErrNoCode) {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}
