package zksync

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// EthSigner 用以太坊私钥签署 zkSync 可读消息 (EIP-191 personal_sign)
type EthSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewEthSigner(key *ecdsa.PrivateKey) *EthSigner {
	return &EthSigner{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

func (s *EthSigner) Address() common.Address {
	return s.address
}

func (s *EthSigner) PrivateKey() *ecdsa.PrivateKey {
	return s.key
}

func (s *EthSigner) SignMessage(msg []byte) (*TxEthSignature, error) {
	sig, err := crypto.Sign(accounts.TextHash(msg), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "sign message")
	}
	sig[crypto.RecoveryIDOffset] += 27
	return &TxEthSignature{Type: "EthereumSignature", Signature: hexutil.Encode(sig)}, nil
}

// TransferMessage amount 为 0 时省略转账行, fee 为 0 时省略手续费行
func TransferMessage(to common.Address, token Token, amount, fee *big.Int, nonce uint32) string {
	return buildMessage("Transfer", to, token, amount, fee, nonce)
}

func WithdrawMessage(to common.Address, token Token, amount, fee *big.Int, nonce uint32) string {
	return buildMessage("Withdraw", to, token, amount, fee, nonce)
}

func buildMessage(kind string, to common.Address, token Token, amount, fee *big.Int, nonce uint32) string {
	var lines []string
	if amount != nil && amount.Sign() > 0 {
		lines = append(lines, fmt.Sprintf("%s %s %s to: %s",
			kind, FormatUnits(amount, token.Decimals), token.Symbol, strings.ToLower(to.Hex())))
	}
	if fee != nil && fee.Sign() > 0 {
		lines = append(lines, fmt.Sprintf("Fee: %s %s", FormatUnits(fee, token.Decimals), token.Symbol))
	}
	lines = append(lines, fmt.Sprintf("Nonce: %d", nonce))
	return strings.Join(lines, "\n")
}

// TxSigner zkSync 账户密钥 (L2) 签名
type TxSigner interface {
	PubKeyHash(ctx context.Context) (string, error)
	SignTransfer(ctx context.Context, tx *Transfer) (*Signature, error)
	SignWithdraw(ctx context.Context, tx *Withdraw) (*Signature, error)
}
