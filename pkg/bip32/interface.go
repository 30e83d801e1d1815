package bip32

import (
	"crypto/ecdsa"
	"errors"
)

// ExtendedKey 包装了 BIP-32 扩展密钥
type ExtendedKey interface {
	// ECDSA 返回 go-ethereum 签名使用的私钥
	ECDSA() (*ecdsa.PrivateKey, error)
	// Derive 根据索引派生子密钥
	Derive(index uint32) (ExtendedKey, error)
}

// HDWallet 定义了分层确定性钱包的基本行为
type HDWallet interface {
	// DerivePath 根据路径 (如 "m/44'/60'/0'/0/0") 派生密钥
	DerivePath(path string) (ExtendedKey, error)
}

var (
	ErrInvalidSeed = errors.New("无效的种子")
	ErrInvalidPath = errors.New("无效的派生路径")
)
