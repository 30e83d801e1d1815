package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

// EncryptedKeyJSON 遵循 Ethereum Keystore V3 的结构风格
// 存储的是 "助记词" (Mnemonic) 而不是单个私钥，派生路径由配置决定
type EncryptedKeyJSON struct {
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`      // UUID
	Version int        `json:"version"` // 3
}

type CryptoJSON struct {
	Cipher       string       `json:"cipher"`       // "aes-256-gcm"
	CipherText   string       `json:"ciphertext"`   // Hex string
	CipherParams CipherParams `json:"cipherparams"` // IV
	KDF          string       `json:"kdf"`          // "scrypt"
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"` // Hex string
}

type CipherParams struct {
	IV string `json:"iv"` // Hex string
}

type KDFParams struct {
	DKLen int    `json:"dklen"` // Derived Key Length (32)
	N     int    `json:"n"`     // Scrypt N (262144)
	R     int    `json:"r"`     // Scrypt r (8)
	P     int    `json:"p"`     // Scrypt p (1)
	Salt  string `json:"salt"`  // Hex string
}

var ErrMACMismatch = errors.New("invalid password or corrupted data (MAC mismatch)")

const (
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32
)

// scryptN 测试中会调低以加快速度
var scryptN = 262144

// EncryptMnemonic 将助记词使用密码加密为 JSON 结构
func EncryptMnemonic(mnemonic, password string) (*EncryptedKeyJSON, error) {
	// 1. 生成随机 Salt
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	// 2. 使用 Scrypt 派生密钥，DKLen=32 直接用作 AES-256-GCM 的 Key
	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}

	// 3. 使用 AES-256-GCM 加密
	gcm, err := newGCM(derivedKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(mnemonic), nil)

	// 4. MAC = SHA256(derivedKey + ciphertext)
	mac := sha256.Sum256(append(derivedKey, ciphertext...))

	return &EncryptedKeyJSON{
		Version: 3,
		Id:      uuid.NewString(),
		Crypto: CryptoJSON{
			Cipher:     "aes-256-gcm",
			CipherText: hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{
				IV: hex.EncodeToString(nonce),
			},
			KDF: "scrypt",
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac[:]),
		},
	}, nil
}

// DecryptMnemonic 解密 Keystore JSON 获取助记词
func DecryptMnemonic(keyJSON *EncryptedKeyJSON, password string) (string, error) {
	// 1. 解析 Hex 参数
	salt, err := hex.DecodeString(keyJSON.Crypto.KDFParams.Salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	nonce, err := hex.DecodeString(keyJSON.Crypto.CipherParams.IV)
	if err != nil {
		return "", fmt.Errorf("invalid iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(keyJSON.Crypto.CipherText)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext: %w", err)
	}
	mac, err := hex.DecodeString(keyJSON.Crypto.MAC)
	if err != nil {
		return "", fmt.Errorf("invalid mac: %w", err)
	}

	// 2. 重新派生密钥
	derivedKey, err := scrypt.Key([]byte(password), salt,
		keyJSON.Crypto.KDFParams.N,
		keyJSON.Crypto.KDFParams.R,
		keyJSON.Crypto.KDFParams.P,
		keyJSON.Crypto.KDFParams.DKLen)
	if err != nil {
		return "", err
	}

	// 3. 验证 MAC (常量时间比较)
	calculatedMAC := sha256.Sum256(append(derivedKey, ciphertext...))
	if subtle.ConstantTimeCompare(mac, calculatedMAC[:]) != 1 {
		return "", ErrMACMismatch
	}

	// 4. 解密
	gcm, err := newGCM(derivedKey)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}

// SaveToFile 保存到文件
func (k *EncryptedKeyJSON) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600) // 0600 is important
}

// LoadFromFile 从文件加载
func LoadFromFile(filename string) (*EncryptedKeyJSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var k EncryptedKeyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("解析 keystore 失败: %w", err)
	}
	return &k, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
