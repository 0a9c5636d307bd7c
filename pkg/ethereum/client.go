package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/internal/metrics"
	"github.com/chainsafe/nft-minter/pkg/config"
	"github.com/chainsafe/nft-minter/pkg/ethereum/contracts"
	"github.com/chainsafe/nft-minter/pkg/metadata"
	"github.com/chainsafe/nft-minter/pkg/mint"
)

// Client represents an Ethereum client bound to the NFT collection contract
type Client struct {
	config      *config.EthereumConfig
	client      *ethclient.Client
	privateKey  *ecdsa.PrivateKey
	address     common.Address
	maxGasPrice *big.Int
	logger      *zap.Logger

	collectionAddress common.Address
	collection        *contracts.NftCollection
}

// NewClient creates a new Ethereum client
func NewClient(cfg *config.EthereumConfig, logger *zap.Logger) (*Client, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum RPC: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(cfg.PrivateKeyHex())
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	maxGasPrice, err := cfg.MaxGasPriceWei()
	if err != nil {
		client.Close()
		return nil, err
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey)
	collectionAddress := common.HexToAddress(cfg.CollectionContract)

	collection, err := contracts.NewNftCollection(collectionAddress, client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to load collection contract: %w", err)
	}

	logger.Info("Connected to Ethereum",
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("collection_contract", collectionAddress.Hex()),
		zap.String("minter_address", address.Hex()))

	return &Client{
		config:            cfg,
		client:            client,
		privateKey:        privateKey,
		address:           address,
		maxGasPrice:       maxGasPrice,
		collectionAddress: collectionAddress,
		collection:        collection,
		logger:            logger,
	}, nil
}

// Close closes the Ethereum client
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// GetTransactor returns a transaction signer
func (c *Client) GetTransactor(ctx context.Context) (*bind.TransactOpts, error) {
	chainID := big.NewInt(c.config.ChainID)

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Signer = rejectingSigner(auth.Signer)
	auth.Context = ctx

	nonce, err := c.client.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.GasLimit = c.config.GasLimit

	if c.maxGasPrice != nil {
		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}

		capped := capGasPrice(gasPrice, c.maxGasPrice)
		if capped != gasPrice {
			c.logger.Warn("Suggested gas price exceeds maximum",
				zap.String("suggested", gasPrice.String()),
				zap.String("max", c.maxGasPrice.String()))
		}
		auth.GasPrice = capped
	}

	return auth, nil
}

// BlockNumber gets the latest block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), nil
}

// TransactionReceipt returns the receipt of hash, ethereum.NotFound while pending.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, hash)
}

// Administrators returns the collection's administrator list
func (c *Client) Administrators(ctx context.Context) ([]common.Address, error) {
	admins, err := c.collection.GetAdministrators(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed to get administrators: %w", err)
	}
	return admins, nil
}

// TokenCount returns the number of tokens recorded by the collection
func (c *Client) TokenCount(ctx context.Context) (*big.Int, error) {
	count, err := c.collection.TotalSupply(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed to get token count: %w", err)
	}
	return count, nil
}

// Mint broadcasts one mint transaction. It never retries.
func (c *Client) Mint(ctx context.Context, args *metadata.Args) (mint.OperationHandle, error) {
	c.logger.Info("Submitting mint transaction", args.Fields()...)

	auth, err := c.GetTransactor(ctx)
	if err != nil {
		metrics.TransactionsSent.WithLabelValues("failed").Inc()
		return mint.OperationHandle{}, classifySubmitError(err)
	}

	tx, err := c.collection.Mint(auth, args.TokenID, args.Name, args.Description, args.Symbol, args.URI)
	if err != nil {
		metrics.TransactionsSent.WithLabelValues("failed").Inc()
		return mint.OperationHandle{}, fmt.Errorf("failed to submit mint transaction: %w", classifySubmitError(err))
	}

	metrics.TransactionsSent.WithLabelValues("sent").Inc()
	c.logger.Info("Mint transaction submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("nonce", tx.Nonce()),
		zap.String("token_id", args.TokenID.String()))

	return mint.OperationHandle{
		TxHash:      tx.Hash(),
		Nonce:       tx.Nonce(),
		SubmittedAt: time.Now(),
	}, nil
}

// MintedTokenID returns the token id of the Minted event in receipt.
func (c *Client) MintedTokenID(receipt *types.Receipt) (*big.Int, error) {
	ev, err := c.mintedEvent(receipt)
	if err != nil {
		return nil, err
	}
	return ev.TokenId, nil
}

// mintedEvent extracts the Minted event emitted by the collection from receipt.
func (c *Client) mintedEvent(receipt *types.Receipt) (*contracts.NftCollectionMinted, error) {
	if receipt == nil {
		return nil, fmt.Errorf("no receipt")
	}
	for _, log := range receipt.Logs {
		if log.Address != c.collectionAddress {
			continue
		}
		ev, err := c.collection.ParseMinted(*log)
		if err != nil {
			continue
		}
		return ev, nil
	}
	return nil, fmt.Errorf("no Minted event in receipt %s", receipt.TxHash.Hex())
}

func capGasPrice(suggested, maxPrice *big.Int) *big.Int {
	if maxPrice != nil && suggested.Cmp(maxPrice) > 0 {
		return maxPrice
	}
	return suggested
}
