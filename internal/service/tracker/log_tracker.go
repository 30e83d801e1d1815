package tracker

import (
	"context"

	"zksync-wallet/internal/service/action"
	"zksync-wallet/pkg/logger"

	"go.uber.org/zap"
)

// LogTracker 只打日志, 供命令行使用
type LogTracker struct{}

var _ action.Tracker = LogTracker{}

func (LogTracker) WatchTransaction(_ context.Context, req action.WatchTransactionRequest) error {
	logger.Info("watching transaction", zap.String("tx_hash", req.TransactionHash))
	return nil
}

func (LogTracker) WatchDeposit(_ context.Context, req action.WatchDepositRequest) error {
	if req.DepositTx == nil {
		return ErrEmptyDeposit
	}
	logger.Info("watching deposit",
		zap.String("eth_tx", req.DepositTx.EthTxHash.Hex()),
		zap.String("token", req.TokenSymbol),
		zap.String("amount", req.Amount))
	return nil
}
