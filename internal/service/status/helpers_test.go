package status

import (
	"zksync-wallet/pkg/zksync"

	"github.com/ethereum/go-ethereum/common"
)

func testDepositTx() *zksync.DepositResponse {
	return &zksync.DepositResponse{
		EthTxHash: common.HexToHash("0x1234"),
		Token:     "ETH",
		Amount:    "1",
		DepositTo: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
	}
}
