package ethereum

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

// userRejectedCode is the EIP-1193 code for a request declined by the account holder.
const userRejectedCode = 4001

// rejectingSigner marks every signing failure as a wallet rejection.
func rejectingSigner(sign bind.SignerFn) bind.SignerFn {
	return func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		signed, err := sign(from, tx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mint.ErrWalletRejected, err)
		}
		return signed, nil
	}
}

// classifySubmitError tags errors that represent the wallet declining to sign.
// Anything else is left as is and treated as a network rejection.
func classifySubmitError(err error) error {
	if err == nil || errors.Is(err, mint.ErrWalletRejected) {
		return err
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == userRejectedCode {
		return fmt.Errorf("%w: %v", mint.ErrWalletRejected, err)
	}
	return err
}
