package zksync

import (
	"math"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// MaxTimestamp 交易默认的 validUntil (uint32 上限)
const MaxTimestamp uint64 = math.MaxUint32

// NonceTier 查询 nonce 时使用的账户状态层级
type NonceTier string

const (
	NonceCommitted NonceTier = "committed"
	NonceVerified  NonceTier = "verified"
)

// TransferParams 构造 L2 转账所需的参数
// Amount/Fee 为最小单位的十进制字符串; Nonce 为空时由钱包读取 committed nonce
type TransferParams struct {
	To     common.Address `json:"to"`
	Token  string         `json:"token"`
	Amount string         `json:"amount"`
	Fee    string         `json:"fee"`
	Nonce  *uint32        `json:"nonce,omitempty"`
}

// WithdrawParams 构造 L2 -> L1 提现所需的参数
type WithdrawParams struct {
	EthAddress     common.Address `json:"ethAddress"`
	Token          string         `json:"token"`
	Amount         string         `json:"amount"`
	Fee            string         `json:"fee"`
	Nonce          *uint32        `json:"nonce,omitempty"`
	FastProcessing bool           `json:"fastProcessing"`
}

// DepositParams L1 -> L2 充值参数
type DepositParams struct {
	DepositTo common.Address `json:"depositTo"`
	Token     string         `json:"token"`
	Amount    string         `json:"amount"`
}

// Signature zkSync 账户密钥对交易的签名
type Signature struct {
	PubKey    string `json:"pubKey"`
	Signature string `json:"signature"`
}

// TxEthSignature 以太坊账户对可读消息的签名
type TxEthSignature struct {
	Type      string `json:"type"` // EthereumSignature
	Signature string `json:"signature"`
}

// SyncTx 可提交到 zkSync 的交易
type SyncTx interface {
	TxType() string
	TxNonce() uint32
}

type Transfer struct {
	Type       string         `json:"type"`
	AccountID  uint32         `json:"accountId"`
	From       common.Address `json:"from"`
	To         common.Address `json:"to"`
	Token      uint32         `json:"token"`
	Amount     string         `json:"amount"`
	Fee        string         `json:"fee"`
	Nonce      uint32         `json:"nonce"`
	ValidFrom  uint64         `json:"validFrom"`
	ValidUntil uint64         `json:"validUntil"`
	Signature  *Signature     `json:"signature,omitempty"`
}

func (t *Transfer) TxType() string  { return "Transfer" }
func (t *Transfer) TxNonce() uint32 { return t.Nonce }

type Withdraw struct {
	Type       string         `json:"type"`
	AccountID  uint32         `json:"accountId"`
	From       common.Address `json:"from"`
	To         common.Address `json:"to"`
	Token      uint32         `json:"token"`
	Amount     string         `json:"amount"`
	Fee        string         `json:"fee"`
	Nonce      uint32         `json:"nonce"`
	ValidFrom  uint64         `json:"validFrom"`
	ValidUntil uint64         `json:"validUntil"`
	Signature  *Signature     `json:"signature,omitempty"`
}

func (w *Withdraw) TxType() string  { return "Withdraw" }
func (w *Withdraw) TxNonce() uint32 { return w.Nonce }

// SignedTransaction 已签名、待提交的交易 (批量提交的基本单元)
type SignedTransaction struct {
	Tx                SyncTx          `json:"tx"`
	EthereumSignature *TxEthSignature `json:"signature,omitempty"`
}

// Transaction 提交后的交易句柄
type Transaction struct {
	TxHash string             `json:"txHash"`
	TxData *SignedTransaction `json:"txData,omitempty"`
}

// DepositResponse L1 充值交易 (ETHOperation)
type DepositResponse struct {
	EthTxHash common.Hash    `json:"ethTxHash" swaggertype:"string"`
	Token     string         `json:"token"`
	Amount    string         `json:"amount"`
	DepositTo common.Address `json:"depositTo" swaggertype:"string"`
	// ApproveTxHash 仅 ERC-20 且授权额度不足时存在
	ApproveTxHash *common.Hash `json:"approveTxHash,omitempty" swaggertype:"string"`
}

// AccountBalance 账户在某一层级 (committed / verified) 的状态
type AccountBalance struct {
	Balances   map[string]string `json:"balances"`
	Nonce      uint32            `json:"nonce"`
	PubKeyHash string            `json:"pubKeyHash"`
}

// AccountState account_info 的返回
type AccountState struct {
	Address   common.Address `json:"address"`
	ID        *uint32        `json:"id"`
	Committed AccountBalance `json:"committed"`
	Verified  AccountBalance `json:"verified"`
}

type BlockInfo struct {
	BlockNumber uint64 `json:"blockNumber"`
	Committed   bool   `json:"committed"`
	Verified    bool   `json:"verified"`
}

// TransactionReceipt tx_info 的返回
type TransactionReceipt struct {
	Executed   bool       `json:"executed"`
	Success    *bool      `json:"success"`
	FailReason *string    `json:"failReason"`
	Block      *BlockInfo `json:"block"`
}

type Token struct {
	Address  common.Address `json:"address"`
	ID       uint32         `json:"id"`
	Symbol   string         `json:"symbol"`
	Decimals int            `json:"decimals"`
}

// IsETH ETH 在 zkSync 中以零地址表示
func (t Token) IsETH() bool {
	return t.Address == (common.Address{})
}

// Tokens 以 symbol 为 key 的代币表
type Tokens map[string]Token

// Resolve 按 symbol (大小写不敏感) 或合约地址查找代币
func (ts Tokens) Resolve(symbolOrAddress string) (Token, bool) {
	if t, ok := ts[symbolOrAddress]; ok {
		return t, true
	}
	for _, t := range ts {
		if strings.EqualFold(t.Symbol, symbolOrAddress) {
			return t, true
		}
		if common.IsHexAddress(symbolOrAddress) && t.Address == common.HexToAddress(symbolOrAddress) {
			return t, true
		}
	}
	return Token{}, false
}

// ContractAddress contract_address 的返回
type ContractAddress struct {
	MainContract string `json:"mainContract"`
	GovContract  string `json:"govContract"`
}
