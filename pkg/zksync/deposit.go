package zksync

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const zkSyncABIJSON = `[
 {"type":"function","name":"depositETH","stateMutability":"payable","inputs":[{"name":"_zkSyncAddress","type":"address"}],"outputs":[]},
 {"type":"function","name":"depositERC20","stateMutability":"nonpayable","inputs":[{"name":"_token","type":"address"},{"name":"_amount","type":"uint104"},{"name":"_zkSyncAddress","type":"address"}],"outputs":[]}
]`

const erc20ABIJSON = `[
 {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// ERC20DepositGasLimit approve 尚未上链时无法估算 depositERC20 的 gas, 使用固定上限
const ERC20DepositGasLimit uint64 = 300000

var (
	zkSyncABI = mustParseABI(zkSyncABIJSON)
	erc20ABI  = mustParseABI(erc20ABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Depositor 在 L1 上调用 zkSync 主合约完成充值
type Depositor struct {
	backend  bind.ContractBackend
	contract common.Address
	key      *ecdsa.PrivateKey
	chainID  *big.Int
}

func NewDepositor(backend bind.ContractBackend, contract common.Address, key *ecdsa.PrivateKey, chainID *big.Int) *Depositor {
	return &Depositor{backend: backend, contract: contract, key: key, chainID: chainID}
}

func (d *Depositor) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "transactor")
	}
	opts.Context = ctx
	return opts, nil
}

// Deposit ETH 走 depositETH (payable); ERC-20 先检查授权额度, 不足时 approve 后 depositERC20
func (d *Depositor) Deposit(ctx context.Context, token Token, amount *big.Int, to common.Address) (*DepositResponse, error) {
	resp := &DepositResponse{Token: token.Symbol, Amount: amount.String(), DepositTo: to}
	zk := bind.NewBoundContract(d.contract, zkSyncABI, d.backend, d.backend, d.backend)

	if token.IsETH() {
		opts, err := d.transactOpts(ctx)
		if err != nil {
			return nil, err
		}
		opts.Value = amount
		tx, err := zk.Transact(opts, "depositETH", to)
		if err != nil {
			return nil, errors.Wrap(err, "depositETH")
		}
		resp.EthTxHash = tx.Hash()
		return resp, nil
	}

	approveTx, err := d.ensureAllowance(ctx, token.Address, amount)
	if err != nil {
		return nil, err
	}

	opts, err := d.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	if approveTx != nil {
		h := approveTx.Hash()
		resp.ApproveTxHash = &h
		// 估算基于已出块状态, 此时授权还不可见, 会误判为 revert
		opts.GasLimit = ERC20DepositGasLimit
		opts.Nonce = new(big.Int).SetUint64(approveTx.Nonce() + 1)
	}
	tx, err := zk.Transact(opts, "depositERC20", token.Address, amount, to)
	if err != nil {
		return nil, errors.Wrap(err, "depositERC20")
	}
	resp.EthTxHash = tx.Hash()
	return resp, nil
}

// ensureAllowance 额度足够时返回 nil, 否则返回已发送的 approve 交易
func (d *Depositor) ensureAllowance(ctx context.Context, tokenAddr common.Address, amount *big.Int) (*types.Transaction, error) {
	erc20 := bind.NewBoundContract(tokenAddr, erc20ABI, d.backend, d.backend, d.backend)
	owner := crypto.PubkeyToAddress(d.key.PublicKey)

	var out []interface{}
	if err := erc20.Call(&bind.CallOpts{Context: ctx, From: owner}, &out, "allowance", owner, d.contract); err != nil {
		return nil, errors.Wrap(err, "allowance")
	}
	if len(out) == 1 {
		if allowance, ok := out[0].(*big.Int); ok && allowance.Cmp(amount) >= 0 {
			return nil, nil
		}
	}

	opts, err := d.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := erc20.Transact(opts, "approve", d.contract, amount)
	if err != nil {
		return nil, errors.Wrap(err, "approve")
	}
	return tx, nil
}
