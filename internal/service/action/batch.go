package action

import "zksync-wallet/pkg/zksync"

// NonceSequence 同一批次内按顺序分配 nonce: N, N+1, N+2 ...
type NonceSequence struct {
	next uint32
}

func NewNonceSequence(start uint32) *NonceSequence {
	return &NonceSequence{next: start}
}

func (s *NonceSequence) Next() uint32 {
	n := s.next
	s.next++
	return n
}

// AssignTransferNonces 返回带连续 nonce 的副本, 不修改入参
func AssignTransferNonces(start uint32, legs []zksync.TransferParams) []zksync.TransferParams {
	seq := NewNonceSequence(start)
	out := make([]zksync.TransferParams, len(legs))
	for i, leg := range legs {
		n := seq.Next()
		leg.Nonce = &n
		out[i] = leg
	}
	return out
}
