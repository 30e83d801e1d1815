package bip32

import (
	"encoding/hex"
	"errors"
	"testing"

	"zksync-wallet/pkg/bip39"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMasterKeyFromSeed(t *testing.T) {
	_, err := NewMasterKeyFromSeed([]byte{1, 2, 3}, nil)
	assert.ErrorIs(t, err, ErrInvalidSeed)

	seed, _ := hex.DecodeString("fffcf9f6da3247d8a846f4b6113e6173")
	wallet, err := NewMasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)

	// 空路径与 "m" 都返回主密钥
	master, err := wallet.DerivePath("m")
	require.NoError(t, err)
	same, err := wallet.DerivePath("")
	require.NoError(t, err)

	a, err := master.ECDSA()
	require.NoError(t, err)
	b, err := same.ECDSA()
	require.NoError(t, err)
	assert.Equal(t, a.D, b.D)
}

func TestDerivePath_EthereumAccount(t *testing.T) {
	// Hardhat / Foundry 默认助记词，m/44'/60'/0'/0/0 的地址是公开已知的
	mnemonic := "test test test test test test test test test test test junk"
	seed := bip39.NewMnemonicService().MnemonicToSeed(mnemonic, "")

	wallet, err := NewMasterKeyFromSeed(seed, nil)
	require.NoError(t, err)

	key, err := wallet.DerivePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)
	priv, err := key.ECDSA()
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", crypto.PubkeyToAddress(priv.PublicKey).Hex())

	// h 后缀与 ' 等价
	alt, err := wallet.DerivePath("m/44h/60h/0h/0/0")
	require.NoError(t, err)
	altPriv, err := alt.ECDSA()
	require.NoError(t, err)
	assert.Equal(t, priv.D, altPriv.D)

	// 逐级 Derive 与路径派生一致
	next, err := key.Derive(1)
	require.NoError(t, err)
	byPath, err := wallet.DerivePath("m/44'/60'/0'/0/1")
	require.NoError(t, err)
	p1, err := next.ECDSA()
	require.NoError(t, err)
	p2, err := byPath.ECDSA()
	require.NoError(t, err)
	assert.Equal(t, p1.D, p2.D)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", crypto.PubkeyToAddress(p1.PublicKey).Hex())
}

func TestDerivePath_Invalid(t *testing.T) {
	seed, _ := hex.DecodeString("fffcf9f6da3247d8a846f4b6113e6173")
	wallet, err := NewMasterKeyFromSeed(seed, nil)
	require.NoError(t, err)

	_, err = wallet.DerivePath("m/44'/abc")
	assert.True(t, errors.Is(err, ErrInvalidPath))
}
