package bip32

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// HDKey 实现了 ExtendedKey 接口，封装了 hdkeychain.ExtendedKey
type HDKey struct {
	key     *hdkeychain.ExtendedKey
	network *chaincfg.Params
}

func (k *HDKey) ECDSA() (*ecdsa.PrivateKey, error) {
	pk, err := k.key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return pk.ToECDSA(), nil
}

func (k *HDKey) Derive(index uint32) (ExtendedKey, error) {
	childKey, err := k.key.Derive(index)
	if err != nil {
		return nil, fmt.Errorf("派生子密钥失败: %w", err)
	}
	return &HDKey{key: childKey, network: k.network}, nil
}

// Wallet 实现 HDWallet 接口
type Wallet struct {
	masterKey *HDKey
	network   *chaincfg.Params
}

var _ HDWallet = (*Wallet)(nil)

// NewMasterKeyFromSeed 使用 BIP-39 种子生成主密钥
// network 只影响 xprv/xpub 的序列化前缀，默认为 chaincfg.MainNetParams
func NewMasterKeyFromSeed(seed []byte, network *chaincfg.Params) (*Wallet, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, ErrInvalidSeed
	}

	if network == nil {
		network = &chaincfg.MainNetParams
	}

	masterKey, err := hdkeychain.NewMaster(seed, network)
	if err != nil {
		return nil, fmt.Errorf("生成主密钥失败: %w", err)
	}

	return &Wallet{
		masterKey: &HDKey{key: masterKey, network: network},
		network:   network,
	}, nil
}

// DerivePath 解析路径并派生密钥
// 支持格式: m/44'/60'/0'/0/0 或 m/44h/60h/0h/0/0
func (w *Wallet) DerivePath(path string) (ExtendedKey, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "m" {
		return w.masterKey, nil
	}

	path = strings.TrimPrefix(path, "m/")

	var current ExtendedKey = w.masterKey
	for _, segment := range strings.Split(path, "/") {
		hardened := false
		if strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h") {
			hardened = true
			segment = segment[:len(segment)-1]
		}

		val, err := strconv.ParseUint(segment, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidPath, segment)
		}
		index := uint32(val)
		if hardened {
			index += hdkeychain.HardenedKeyStart
		}

		current, err = current.Derive(index)
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}
