package routes

import (
	"zksync-wallet/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterWalletRoutes 钱包操作: 转账 / 提现 / 充值 / nonce
func RegisterWalletRoutes(rg *gin.RouterGroup, h *handler.WalletHandler) {
	walletGroup := rg.Group("/wallet")
	{
		walletGroup.GET("/nonce", h.Nonce)
		walletGroup.POST("/transfer", h.Transfer)
		walletGroup.POST("/withdraw", h.Withdraw)
		walletGroup.POST("/deposit", h.Deposit)
	}
}

// RegisterTxRoutes 跟踪状态查询, hash 可以是 L2 交易哈希或充值的 L1 交易哈希
func RegisterTxRoutes(rg *gin.RouterGroup, h *handler.TxHandler) {
	rg.GET("/tx/:hash", h.Get)
}
