package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zksync-wallet/internal/service/action"
	"zksync-wallet/pkg/errno"
	"zksync-wallet/pkg/utils/lock"
	"zksync-wallet/pkg/validator"
	"zksync-wallet/pkg/zksync"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var walletAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

const recipient = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

type MockActions struct {
	mock.Mock
}

func (m *MockActions) Address() common.Address {
	return walletAddr
}

func (m *MockActions) Nonce(ctx context.Context, tier zksync.NonceTier) (uint32, error) {
	args := m.Called(ctx, tier)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockActions) Transfer(ctx context.Context, req action.TransferRequest) ([]*zksync.Transaction, error) {
	args := m.Called(ctx, req)
	txs, _ := args.Get(0).([]*zksync.Transaction)
	return txs, args.Error(1)
}

func (m *MockActions) Withdraw(ctx context.Context, req action.WithdrawRequest) ([]action.WithdrawResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).([]action.WithdrawResult)
	return res, args.Error(1)
}

func (m *MockActions) Deposit(ctx context.Context, req action.DepositRequest) (*zksync.DepositResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*zksync.DepositResponse)
	return resp, args.Error(1)
}

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func init() {
	gin.SetMode(gin.TestMode)
	validator.Init()
}

func setupWalletRouter(t *testing.T) (*gin.Engine, *MockActions, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	actions := new(MockActions)
	h := NewWalletHandler(actions, lock.NewRedisLock(client), 30*time.Second)

	r := gin.New()
	r.POST("/transfer", h.Transfer)
	r.POST("/withdraw", h.Withdraw)
	r.POST("/deposit", h.Deposit)
	r.GET("/nonce", h.Nonce)
	return r, actions, mr
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) apiResponse {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTransfer_Success(t *testing.T) {
	r, actions, mr := setupWalletRouter(t)

	actions.On("Transfer", mock.Anything, action.TransferRequest{
		To:       common.HexToAddress(recipient),
		Token:    "ETH",
		FeeToken: "USDC",
		Amount:   "1000",
		Fee:      "10",
	}).Return([]*zksync.Transaction{{TxHash: "sync-tx:aa"}, {TxHash: "sync-tx:bb"}}, nil)

	resp := doJSON(t, r, http.MethodPost, "/transfer", gin.H{
		"to": recipient, "token": "ETH", "fee_token": "USDC", "amount": "1000", "fee": "10",
	})

	assert.Equal(t, errno.OK.Code, resp.Code)
	assert.Contains(t, string(resp.Data), "sync-tx:bb")
	// 请求结束后锁已释放
	assert.False(t, mr.Exists("lock:wallet:actions:"+strings.ToLower(walletAddr.Hex())))
	actions.AssertExpectations(t)
}

func TestTransfer_InvalidBody(t *testing.T) {
	r, actions, _ := setupWalletRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/transfer", gin.H{
		"to": "not-an-address", "token": "ETH", "fee_token": "ETH", "amount": "1.5", "fee": "10",
	})

	assert.Equal(t, errno.ErrBind.Code, resp.Code)
	assert.Contains(t, resp.Msg, "To")
	assert.Contains(t, resp.Msg, "Amount")
	actions.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestTransfer_WalletBusy(t *testing.T) {
	r, actions, mr := setupWalletRouter(t)
	require.NoError(t, mr.Set("lock:wallet:actions:"+strings.ToLower(walletAddr.Hex()), "other-holder"))

	resp := doJSON(t, r, http.MethodPost, "/transfer", gin.H{
		"to": recipient, "token": "ETH", "fee_token": "ETH", "amount": "1", "fee": "1",
	})

	assert.Equal(t, errno.ErrWalletBusy.Code, resp.Code)
	actions.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestTransfer_WalletRejected(t *testing.T) {
	r, actions, _ := setupWalletRouter(t)
	actions.On("Transfer", mock.Anything, mock.Anything).Return(nil, errors.New("insufficient balance"))

	resp := doJSON(t, r, http.MethodPost, "/transfer", gin.H{
		"to": recipient, "token": "ETH", "fee_token": "ETH", "amount": "1", "fee": "1",
	})

	assert.Equal(t, errno.ErrWalletRejected.Code, resp.Code)
	assert.Equal(t, "insufficient balance", resp.Msg)
}

func TestWithdraw_StageErrors(t *testing.T) {
	cases := []struct {
		name  string
		stage string
		code  int
	}{
		{"sign withdraw", action.StageSignWithdraw, errno.ErrSigningFailed.Code},
		{"sign transfer", action.StageSignTransfer, errno.ErrSigningFailed.Code},
		{"submit batch", action.StageSubmitBatch, errno.ErrSubmissionFailed.Code},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, actions, _ := setupWalletRouter(t)
			actions.On("Withdraw", mock.Anything, mock.Anything).
				Return(nil, &action.StageError{Stage: tc.stage, Err: errors.New("user rejected signature")})

			resp := doJSON(t, r, http.MethodPost, "/withdraw", gin.H{
				"address": recipient, "token": "ETH", "fee_token": "USDC", "amount": "5", "fees": "1",
			})

			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, "Error while performing "+tc.stage+": user rejected signature", resp.Msg)
		})
	}
}

func TestWithdraw_Success(t *testing.T) {
	r, actions, _ := setupWalletRouter(t)
	actions.On("Withdraw", mock.Anything, action.WithdrawRequest{
		Address:      common.HexToAddress(recipient),
		Token:        "ETH",
		FeeToken:     "ETH",
		Amount:       "5",
		FastWithdraw: true,
		Fees:         "1",
	}).Return([]action.WithdrawResult{{TxHash: "sync-tx:cc"}}, nil)

	resp := doJSON(t, r, http.MethodPost, "/withdraw", gin.H{
		"address": recipient, "token": "ETH", "fee_token": "ETH", "amount": "5", "fees": "1", "fast_withdraw": true,
	})

	assert.Equal(t, errno.OK.Code, resp.Code)
	assert.Contains(t, string(resp.Data), "sync-tx:cc")
	actions.AssertExpectations(t)
}

func TestDeposit_Success(t *testing.T) {
	r, actions, _ := setupWalletRouter(t)
	ethHash := common.HexToHash("0x01")
	actions.On("Deposit", mock.Anything, action.DepositRequest{Token: "ETH", Amount: "100"}).
		Return(&zksync.DepositResponse{EthTxHash: ethHash, Token: "ETH", Amount: "100", DepositTo: walletAddr}, nil)

	resp := doJSON(t, r, http.MethodPost, "/deposit", gin.H{"token": "ETH", "amount": "100"})

	assert.Equal(t, errno.OK.Code, resp.Code)
	assert.Contains(t, string(resp.Data), ethHash.Hex())
}

func TestNonce(t *testing.T) {
	r, actions, _ := setupWalletRouter(t)
	actions.On("Nonce", mock.Anything, zksync.NonceVerified).Return(uint32(7), nil)
	actions.On("Nonce", mock.Anything, zksync.NonceCommitted).Return(uint32(9), nil)

	resp := doJSON(t, r, http.MethodGet, "/nonce?tier=verified", nil)
	require.Equal(t, errno.OK.Code, resp.Code)
	var data struct {
		Nonce uint32 `json:"nonce"`
		Tier  string `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, uint32(7), data.Nonce)

	resp = doJSON(t, r, http.MethodGet, "/nonce", nil)
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, uint32(9), data.Nonce)
	assert.Equal(t, "committed", data.Tier)

	resp = doJSON(t, r, http.MethodGet, "/nonce?tier=pending", nil)
	assert.Equal(t, errno.ErrBind.Code, resp.Code)
}
