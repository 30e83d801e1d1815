package zksync

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zkContract = common.HexToAddress("0x82F67958A5474e40E1485742d648C0b0686b6e5D")

// recordingBackend 记录合约调用顺序; 与节点一致, 估算只看已出块的授权额度
type recordingBackend struct {
	allowance *big.Int
	callErr   error
	nonce     uint64
	log       []string
	sent      []*types.Transaction
}

func methodOf(data []byte) (*abi.Method, error) {
	if len(data) < 4 {
		return nil, errors.New("no selector")
	}
	if m, err := zkSyncABI.MethodById(data[:4]); err == nil {
		return m, nil
	}
	return erc20ABI.MethodById(data[:4])
}

func (b *recordingBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (b *recordingBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	m, err := methodOf(msg.Data)
	if err != nil {
		return nil, err
	}
	b.log = append(b.log, "call:"+m.Name)
	if b.callErr != nil {
		return nil, b.callErr
	}
	return m.Outputs.Pack(b.allowance)
}

func (b *recordingBackend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	m, err := methodOf(msg.Data)
	if err != nil {
		return 0, err
	}
	b.log = append(b.log, "estimate:"+m.Name)
	if m.Name == "depositERC20" {
		args, err := m.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return 0, err
		}
		if b.allowance.Cmp(args[1].(*big.Int)) < 0 {
			return 0, errors.New("execution reverted: transferFrom")
		}
	}
	return 100000, nil
}

func (b *recordingBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *recordingBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *recordingBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	m, err := methodOf(tx.Data())
	if err != nil {
		return err
	}
	b.log = append(b.log, "send:"+m.Name)
	b.sent = append(b.sent, tx)
	return nil
}

func (b *recordingBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100)}, nil
}

func (b *recordingBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (b *recordingBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return b.nonce, nil
}

func (b *recordingBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *recordingBackend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("not supported")
}

func newTestDepositor(t *testing.T, b *recordingBackend) *Depositor {
	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)
	return NewDepositor(b, zkContract, key, big.NewInt(4))
}

func senderOf(t *testing.T, tx *types.Transaction) common.Address {
	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(4)), tx)
	require.NoError(t, err)
	return from
}

func TestDepositor_ETH(t *testing.T) {
	b := &recordingBackend{allowance: big.NewInt(0), nonce: 3}
	amount := big.NewInt(5_000_000_000_000_000)

	resp, err := newTestDepositor(t, b).Deposit(context.Background(), ethToken, amount, recipient)
	require.NoError(t, err)

	assert.Equal(t, []string{"estimate:depositETH", "send:depositETH"}, b.log)
	require.Len(t, b.sent, 1)
	tx := b.sent[0]
	assert.Equal(t, zkContract, *tx.To())
	assert.Equal(t, amount, tx.Value())
	assert.Equal(t, uint64(3), tx.Nonce())
	assert.Equal(t, testAddress, senderOf(t, tx))

	args, err := zkSyncABI.Methods["depositETH"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, recipient, args[0])

	assert.Equal(t, tx.Hash(), resp.EthTxHash)
	assert.Nil(t, resp.ApproveTxHash)
	assert.Equal(t, "ETH", resp.Token)
	assert.Equal(t, amount.String(), resp.Amount)
	assert.Equal(t, recipient, resp.DepositTo)
}

func TestDepositor_ERC20_AllowanceSufficient(t *testing.T) {
	b := &recordingBackend{allowance: big.NewInt(2_000_000), nonce: 9}

	resp, err := newTestDepositor(t, b).Deposit(context.Background(), usdcToken, big.NewInt(1_000_000), recipient)
	require.NoError(t, err)

	assert.Equal(t, []string{"call:allowance", "estimate:depositERC20", "send:depositERC20"}, b.log)
	require.Len(t, b.sent, 1)
	tx := b.sent[0]
	assert.Equal(t, zkContract, *tx.To())
	assert.Zero(t, tx.Value().Sign())

	args, err := zkSyncABI.Methods["depositERC20"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, usdcToken.Address, args[0])
	assert.Equal(t, big.NewInt(1_000_000), args[1])
	assert.Equal(t, recipient, args[2])

	assert.Equal(t, tx.Hash(), resp.EthTxHash)
	assert.Nil(t, resp.ApproveTxHash)
}

func TestDepositor_ERC20_ApproveThenDeposit(t *testing.T) {
	// 授权额度为 0, 且 approve 发出后节点仍按旧状态估算
	b := &recordingBackend{allowance: big.NewInt(0), nonce: 9}

	resp, err := newTestDepositor(t, b).Deposit(context.Background(), usdcToken, big.NewInt(1_000_000), recipient)
	require.NoError(t, err)

	// depositERC20 不做估算
	assert.Equal(t, []string{"call:allowance", "estimate:approve", "send:approve", "send:depositERC20"}, b.log)
	require.Len(t, b.sent, 2)
	approve, deposit := b.sent[0], b.sent[1]

	assert.Equal(t, usdcToken.Address, *approve.To())
	args, err := erc20ABI.Methods["approve"].Inputs.Unpack(approve.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, zkContract, args[0])
	assert.Equal(t, big.NewInt(1_000_000), args[1])

	assert.Equal(t, ERC20DepositGasLimit, deposit.Gas())
	assert.Equal(t, uint64(9), approve.Nonce())
	assert.Equal(t, uint64(10), deposit.Nonce())
	assert.Equal(t, testAddress, senderOf(t, deposit))

	require.NotNil(t, resp.ApproveTxHash)
	assert.Equal(t, approve.Hash(), *resp.ApproveTxHash)
	assert.Equal(t, deposit.Hash(), resp.EthTxHash)
}

func TestDepositor_ERC20_AllowanceCallFails(t *testing.T) {
	b := &recordingBackend{allowance: big.NewInt(0), callErr: errors.New("connection refused"), nonce: 1}

	_, err := newTestDepositor(t, b).Deposit(context.Background(), usdcToken, big.NewInt(1), recipient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowance")
	assert.Empty(t, b.sent)
}
