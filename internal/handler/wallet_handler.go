package handler

import (
	"context"
	"strings"
	"time"

	"zksync-wallet/internal/handler/request"
	"zksync-wallet/internal/handler/response"
	"zksync-wallet/internal/service/action"
	"zksync-wallet/pkg/errno"
	"zksync-wallet/pkg/logger"
	"zksync-wallet/pkg/utils/lock"
	"zksync-wallet/pkg/validator"
	"zksync-wallet/pkg/zksync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletActions 钱包操作 (action.Service)
type WalletActions interface {
	Address() common.Address
	Nonce(ctx context.Context, tier zksync.NonceTier) (uint32, error)
	Transfer(ctx context.Context, req action.TransferRequest) ([]*zksync.Transaction, error)
	Withdraw(ctx context.Context, req action.WithdrawRequest) ([]action.WithdrawResult, error)
	Deposit(ctx context.Context, req action.DepositRequest) (*zksync.DepositResponse, error)
}

type WalletHandler struct {
	actions WalletActions
	locker  lock.DistributedLock
	lockTTL time.Duration
}

func NewWalletHandler(actions WalletActions, locker lock.DistributedLock, lockTTL time.Duration) *WalletHandler {
	return &WalletHandler{actions: actions, locker: locker, lockTTL: lockTTL}
}

func (h *WalletHandler) lockKey() string {
	return "wallet:actions:" + strings.ToLower(h.actions.Address().Hex())
}

// acquire 同一钱包的操作串行执行, nonce 才不会冲突
func (h *WalletHandler) acquire(c *gin.Context) (func(), bool) {
	ctx := c.Request.Context()
	key := h.lockKey()

	token, ok, err := h.locker.Acquire(ctx, key, h.lockTTL)
	if err != nil {
		logger.Error("获取钱包锁失败", zap.String("key", key), zap.Error(err))
		response.Error(c, errno.InternalServerError)
		return nil, false
	}
	if !ok {
		response.Error(c, errno.ErrWalletBusy)
		return nil, false
	}
	return func() {
		if err := h.locker.Release(context.Background(), key, token); err != nil {
			logger.Warn("释放钱包锁失败", zap.String("key", key), zap.Error(err))
		}
	}, true
}

// Transfer 发起 L2 转账, 手续费与转账币种不同时按批次提交
// @Summary L2 转账
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body request.TransferRequest true "转账参数"
// @Success 200 {object} response.Response
// @Router /wallet/transfer [post]
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req request.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	release, ok := h.acquire(c)
	if !ok {
		return
	}
	defer release()

	txs, err := h.actions.Transfer(c.Request.Context(), action.TransferRequest{
		To:       common.HexToAddress(req.To),
		Token:    req.Token,
		FeeToken: req.FeeToken,
		Amount:   req.Amount,
		Fee:      req.Fee,
	})
	if err != nil {
		logger.Warn("transfer failed", zap.String("to", req.To), zap.Error(err))
		response.Error(c, actionError(err))
		return
	}

	response.Success(c, gin.H{"transactions": txs})
}

// Withdraw 提现到 L1 地址
// @Summary 提现到 L1
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body request.WithdrawRequest true "提现参数"
// @Success 200 {object} response.Response
// @Router /wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req request.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	release, ok := h.acquire(c)
	if !ok {
		return
	}
	defer release()

	results, err := h.actions.Withdraw(c.Request.Context(), action.WithdrawRequest{
		Address:      common.HexToAddress(req.Address),
		Token:        req.Token,
		FeeToken:     req.FeeToken,
		Amount:       req.Amount,
		FastWithdraw: req.FastWithdraw,
		Fees:         req.Fees,
	})
	if err != nil {
		logger.Warn("withdraw failed", zap.String("to", req.Address), zap.Error(err))
		response.Error(c, actionError(err))
		return
	}

	response.Success(c, gin.H{"transactions": results})
}

// Deposit 从 L1 充值到本钱包
// @Summary L1 充值
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body request.DepositRequest true "充值参数"
// @Success 200 {object} response.Response{data=zksync.DepositResponse}
// @Router /wallet/deposit [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req request.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	release, ok := h.acquire(c)
	if !ok {
		return
	}
	defer release()

	resp, err := h.actions.Deposit(c.Request.Context(), action.DepositRequest{
		Token:  req.Token,
		Amount: req.Amount,
	})
	if err != nil {
		logger.Warn("deposit failed", zap.String("token", req.Token), zap.Error(err))
		response.Error(c, actionError(err))
		return
	}

	response.Success(c, resp)
}

// Nonce 查询账户 nonce
// @Summary 查询 nonce
// @Tags wallet
// @Produce json
// @Param tier query string false "committed 或 verified" Enums(committed, verified)
// @Success 200 {object} response.Response
// @Router /wallet/nonce [get]
func (h *WalletHandler) Nonce(c *gin.Context) {
	var q request.NonceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}
	tier := zksync.NonceCommitted
	if q.Tier != "" {
		tier = zksync.NonceTier(q.Tier)
	}

	nonce, err := h.actions.Nonce(c.Request.Context(), tier)
	if err != nil {
		response.Error(c, errno.ErrWalletRejected.WithMessage(err.Error()))
		return
	}

	response.Success(c, gin.H{
		"address": h.actions.Address().Hex(),
		"tier":    tier,
		"nonce":   nonce,
	})
}

// actionError 按失败阶段映射错误码
func actionError(err error) error {
	switch {
	case action.IsSigningFailure(err):
		return errno.ErrSigningFailed.WithMessage(err.Error())
	case action.IsSubmissionFailure(err):
		return errno.ErrSubmissionFailed.WithMessage(err.Error())
	default:
		return errno.ErrWalletRejected.WithMessage(err.Error())
	}
}
