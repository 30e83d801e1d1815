package keystore

import (
	"errors"
	"path/filepath"
	"testing"
)

func init() {
	// 降低 scrypt 成本，避免测试耗时过长
	scryptN = 1024
}

func TestEncryptDecryptMnemonic(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	password := "secure-password"

	// 1. Encrypt
	keyJSON, err := EncryptMnemonic(mnemonic, password)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	if keyJSON.Crypto.Cipher != "aes-256-gcm" {
		t.Errorf("Expected cipher aes-256-gcm, got %s", keyJSON.Crypto.Cipher)
	}
	if keyJSON.Id == "" {
		t.Error("Expected keystore id to be set")
	}

	// 2. Decrypt with correct password
	plaintext, err := DecryptMnemonic(keyJSON, password)
	if err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}

	if plaintext != mnemonic {
		t.Errorf("Decryption mismatch. Expected %s, got %s", mnemonic, plaintext)
	}

	// 3. Decrypt with wrong password
	_, err = DecryptMnemonic(keyJSON, "wrong-password")
	if !errors.Is(err, ErrMACMismatch) {
		t.Errorf("Expected ErrMACMismatch with wrong password, got %v", err)
	}
}

func TestFileSaveLoad(t *testing.T) {
	mnemonic := "test mnemonic"
	password := "123456"
	filename := filepath.Join(t.TempDir(), "wallet.json")

	keyJSON, err := EncryptMnemonic(mnemonic, password)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	if err := keyJSON.SaveToFile(filename); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(filename)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	plaintext, err := DecryptMnemonic(loaded, password)
	if err != nil {
		t.Fatalf("Decryption after load failed: %v", err)
	}
	if plaintext != mnemonic {
		t.Errorf("Expected %s, got %s", mnemonic, plaintext)
	}
}
