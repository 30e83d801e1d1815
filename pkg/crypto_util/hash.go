package crypto_util

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// CalculateBlake3 计算输入的 Blake3 哈希值。
func CalculateBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DedupeKey 为 (topic, payload) 生成稳定的去重键，消费端用它做幂等
func DedupeKey(topic string, payload []byte) string {
	buf := make([]byte, 0, len(topic)+1+len(payload))
	buf = append(buf, topic...)
	buf = append(buf, 0)
	buf = append(buf, payload...)
	return CalculateBlake3(buf)[:32]
}
