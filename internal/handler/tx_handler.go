package handler

import (
	"context"
	"errors"

	"zksync-wallet/internal/handler/response"
	"zksync-wallet/internal/service/status"
	"zksync-wallet/internal/service/tracker"
	"zksync-wallet/pkg/errno"

	"github.com/gin-gonic/gin"
)

// StatusReader 交易状态查询 (status.View)
type StatusReader interface {
	Get(ctx context.Context, hash string) (*status.TxStatus, error)
}

type TxHandler struct {
	statuses StatusReader
}

func NewTxHandler(statuses StatusReader) *TxHandler {
	return &TxHandler{statuses: statuses}
}

// Get 查询已跟踪交易或充值的状态
// @Summary 交易状态
// @Tags tx
// @Produce json
// @Param hash path string true "L2 交易哈希或 L1 充值哈希"
// @Success 200 {object} response.Response{data=status.TxStatus}
// @Router /tx/{hash} [get]
func (h *TxHandler) Get(c *gin.Context) {
	st, err := h.statuses.Get(c.Request.Context(), c.Param("hash"))
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			response.Error(c, errno.ErrTxNotFound)
			return
		}
		response.Error(c, errno.ErrDatabase)
		return
	}
	response.Success(c, st)
}
