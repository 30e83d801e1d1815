package tracker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"zksync-wallet/internal/event"
	"zksync-wallet/internal/model"
	"zksync-wallet/internal/service/action"
	"zksync-wallet/pkg/zksync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return NewStore(db), db
}

func outboxByTopic(t *testing.T, db *gorm.DB, topic string) []model.OutboxMessage {
	var msgs []model.OutboxMessage
	require.NoError(t, db.Where("topic = ?", topic).Order("id").Find(&msgs).Error)
	return msgs
}

func testDeposit() *zksync.DepositResponse {
	approve := common.HexToHash("0xaa")
	return &zksync.DepositResponse{
		EthTxHash:     common.HexToHash("0xbeef"),
		Token:         "USDC",
		Amount:        "2500000",
		DepositTo:     common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		ApproveTxHash: &approve,
	}
}

func TestStore_WatchTransactionIdempotent(t *testing.T) {
	ctx := context.Background()
	store, db := setupStore(t)

	for i := 0; i < 2; i++ {
		require.NoError(t, store.WatchTransaction(ctx, action.WatchTransactionRequest{TransactionHash: "sync-tx:01"}))
	}

	row, err := store.GetTransaction(ctx, "sync-tx:01")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, row.Status)

	msgs := outboxByTopic(t, db, event.TopicTxWatch)
	require.Len(t, msgs, 1)
	assert.Equal(t, "sync-tx:01", msgs[0].Key)

	var ev event.TxWatchEvent
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &ev))
	assert.Equal(t, "sync-tx:01", ev.TxHash)
	assert.NotEmpty(t, ev.EventID)
}

func TestStore_WatchTransactionEmptyHash(t *testing.T) {
	store, _ := setupStore(t)
	err := store.WatchTransaction(context.Background(), action.WatchTransactionRequest{TransactionHash: "  "})
	assert.ErrorIs(t, err, ErrEmptyHash)
}

func TestStore_WatchDeposit(t *testing.T) {
	ctx := context.Background()
	store, db := setupStore(t)
	dep := testDeposit()

	require.NoError(t, store.WatchDeposit(ctx, action.WatchDepositRequest{DepositTx: dep, TokenSymbol: "USDC", Amount: "2500000"}))
	require.NoError(t, store.WatchDeposit(ctx, action.WatchDepositRequest{DepositTx: dep, TokenSymbol: "USDC", Amount: "2500000"}))

	row, err := store.GetDeposit(ctx, dep.EthTxHash.Hex())
	require.NoError(t, err)
	assert.Equal(t, "USDC", row.TokenSymbol)
	assert.Equal(t, "2500000", row.Amount.String())
	assert.Equal(t, dep.ApproveTxHash.Hex(), row.ApproveTxHash)
	assert.Equal(t, model.StatusPending, row.Status)

	msgs := outboxByTopic(t, db, event.TopicDepositWatch)
	require.Len(t, msgs, 1)
	var ev event.DepositWatchEvent
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &ev))
	assert.Equal(t, dep.EthTxHash.Hex(), ev.EthTxHash)
	assert.Equal(t, "2500000", ev.Amount)
}

func TestStore_WatchDepositInvalid(t *testing.T) {
	store, _ := setupStore(t)

	assert.ErrorIs(t, store.WatchDeposit(context.Background(), action.WatchDepositRequest{}), ErrEmptyDeposit)
	assert.ErrorIs(t, store.WatchDeposit(context.Background(), action.WatchDepositRequest{
		DepositTx: testDeposit(), Amount: "lots",
	}), ErrInvalidAmount)
}

func TestStore_GetTransactionNotFound(t *testing.T) {
	store, _ := setupStore(t)
	_, err := store.GetTransaction(context.Background(), "sync-tx:missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store, db := setupStore(t)
	require.NoError(t, store.WatchTransaction(ctx, action.WatchTransactionRequest{TransactionHash: "sync-tx:01"}))

	changed, err := store.UpdateStatus(ctx, StatusUpdate{Kind: event.KindTransaction, Hash: "sync-tx:01", Status: model.StatusCommitted, BlockNumber: 7})
	require.NoError(t, err)
	assert.True(t, changed)

	// 相同状态不重复写
	changed, err = store.UpdateStatus(ctx, StatusUpdate{Kind: event.KindTransaction, Hash: "sync-tx:01", Status: model.StatusCommitted, BlockNumber: 7})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = store.UpdateStatus(ctx, StatusUpdate{Kind: event.KindTransaction, Hash: "sync-tx:01", Status: model.StatusVerified, BlockNumber: 7})
	require.NoError(t, err)
	assert.True(t, changed)

	// 终态之后不再变化
	changed, err = store.UpdateStatus(ctx, StatusUpdate{Kind: event.KindTransaction, Hash: "sync-tx:01", Status: model.StatusExpired})
	require.NoError(t, err)
	assert.False(t, changed)

	row, err := store.GetTransaction(ctx, "sync-tx:01")
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerified, row.Status)
	assert.Equal(t, uint64(7), row.BlockNumber)

	msgs := outboxByTopic(t, db, event.TopicTxStatus)
	require.Len(t, msgs, 2)
	var ev event.TxStatusEvent
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &ev))
	assert.Equal(t, model.StatusVerified, ev.Status)
	assert.Equal(t, event.KindTransaction, ev.Kind)
}

func TestStore_UpdateStatusTruncatesFailReason(t *testing.T) {
	ctx := context.Background()
	store, db := setupStore(t)
	require.NoError(t, store.WatchTransaction(ctx, action.WatchTransactionRequest{TransactionHash: "sync-tx:03"}))

	reason := strings.Repeat("余额不足", 100)
	changed, err := store.UpdateStatus(ctx, StatusUpdate{Kind: event.KindTransaction, Hash: "sync-tx:03", Status: model.StatusFailed, FailReason: reason})
	require.NoError(t, err)
	assert.True(t, changed)

	row, err := store.GetTransaction(ctx, "sync-tx:03")
	require.NoError(t, err)
	assert.Equal(t, maxFailReason, utf8.RuneCountInString(row.FailReason))
	assert.True(t, strings.HasPrefix(reason, row.FailReason))

	msgs := outboxByTopic(t, db, event.TopicTxStatus)
	require.Len(t, msgs, 1)
	var ev event.TxStatusEvent
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &ev))
	assert.Equal(t, row.FailReason, ev.FailReason)
}

func TestStore_UpdateStatusUnknownKind(t *testing.T) {
	store, _ := setupStore(t)
	_, err := store.UpdateStatus(context.Background(), StatusUpdate{Kind: "swap", Hash: "x", Status: model.StatusFailed})
	assert.Error(t, err)
}

func TestStore_ExpireStale(t *testing.T) {
	ctx := context.Background()
	store, db := setupStore(t)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Create(&model.TrackedTransaction{TxHash: "sync-tx:old", Status: model.StatusPending, CreatedAt: old}).Error)
	require.NoError(t, db.Create(&model.TrackedTransaction{TxHash: "sync-tx:done", Status: model.StatusVerified, CreatedAt: old}).Error)
	require.NoError(t, db.Create(&model.TrackedDeposit{EthTxHash: "0x01", TokenSymbol: "ETH", DepositTo: "0x02", Status: model.StatusPending, CreatedAt: old}).Error)
	require.NoError(t, store.WatchTransaction(ctx, action.WatchTransactionRequest{TransactionHash: "sync-tx:fresh"}))

	n, err := store.ExpireStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	row, _ := store.GetTransaction(ctx, "sync-tx:old")
	assert.Equal(t, model.StatusExpired, row.Status)
	row, _ = store.GetTransaction(ctx, "sync-tx:done")
	assert.Equal(t, model.StatusVerified, row.Status)
	row, _ = store.GetTransaction(ctx, "sync-tx:fresh")
	assert.Equal(t, model.StatusPending, row.Status)
	dep, _ := store.GetDeposit(ctx, "0x01")
	assert.Equal(t, model.StatusExpired, dep.Status)
}
