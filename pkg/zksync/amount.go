package zksync

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount 解析最小单位的十进制整数字符串
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	return v, nil
}

// FormatUnits 按精度转换为可读金额, 整数也保留 ".0" (与 zkSync 签名消息一致)
func FormatUnits(amount *big.Int, decimals int) string {
	s := decimal.NewFromBigInt(amount, -int32(decimals)).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
