package session

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"

	"zksync-wallet/pkg/bip32"
	"zksync-wallet/pkg/bip39"
	"zksync-wallet/pkg/keystore"
	"zksync-wallet/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrNoKeyMaterial   = errors.New("未找到 Keystore 文件，且未配置 WALLET_MNEMONIC")
	ErrMissingPassword = errors.New("加载 Keystore 失败: 未提供密码 (环境变量 WALLET_PASSWORD)")
	ErrInvalidMnemonic = errors.New("助记词校验失败")
)

// KeySource 钱包私钥来源, 优先使用加密的 Keystore 文件
type KeySource struct {
	KeystorePath   string
	Password       string
	Mnemonic       string // 仅限开发环境
	DerivationPath string
}

// LoadMnemonic 优先从本地 Keystore 解密助记词, 文件不存在时回退到明文配置
func LoadMnemonic(src KeySource) (string, error) {
	if src.KeystorePath != "" {
		if _, err := os.Stat(src.KeystorePath); err == nil {
			if src.Password == "" {
				return "", ErrMissingPassword
			}
			encrypted, err := keystore.LoadFromFile(src.KeystorePath)
			if err != nil {
				return "", fmt.Errorf("读取 Keystore 文件失败: %w", err)
			}
			mnemonic, err := keystore.DecryptMnemonic(encrypted, src.Password)
			if err != nil {
				return "", fmt.Errorf("解密 Keystore 失败: %w", err)
			}
			logger.Info("✅ 成功从 Keystore 加载并解密助记词", zap.String("path", src.KeystorePath))
			return mnemonic, nil
		}
	}

	if src.Mnemonic == "" {
		return "", ErrNoKeyMaterial
	}
	logger.Warn("⚠️  未找到 Keystore 文件，使用配置中的明文助记词 (仅限开发环境使用!)")
	return src.Mnemonic, nil
}

// DeriveKey 由助记词按 BIP-32 路径派生以太坊私钥
func DeriveKey(mnemonic, path string) (*ecdsa.PrivateKey, error) {
	svc := bip39.NewMnemonicService()
	if !svc.ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	wallet, err := bip32.NewMasterKeyFromSeed(svc.MnemonicToSeed(mnemonic, ""), nil)
	if err != nil {
		return nil, err
	}
	key, err := wallet.DerivePath(path)
	if err != nil {
		return nil, err
	}
	return key.ECDSA()
}

// LoadKey LoadMnemonic + DeriveKey
func LoadKey(src KeySource) (*ecdsa.PrivateKey, error) {
	mnemonic, err := LoadMnemonic(src)
	if err != nil {
		return nil, err
	}
	return DeriveKey(mnemonic, src.DerivationPath)
}
