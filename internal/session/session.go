package session

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"zksync-wallet/pkg/logger"
	"zksync-wallet/pkg/zksync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options 节点与签名服务的连接参数
type Options struct {
	RpcUrl          string
	EthRpcUrl       string // 为空时不支持充值
	SignerUrl       string
	ContractAddress string // 为空时向节点查询
	ChainID         int64
}

// Session 持有一个已连接的钱包及其底层客户端
type Session struct {
	Wallet   *zksync.SyncWallet
	Provider *zksync.RPCProvider
	Signer   *zksync.RemoteTxSigner
	Eth      *ethclient.Client
}

// Open 连接 zkSync 节点、签名服务和 L1 节点并组装钱包
func Open(ctx context.Context, key *ecdsa.PrivateKey, opts Options) (*Session, error) {
	provider, err := zksync.DialProvider(ctx, opts.RpcUrl)
	if err != nil {
		return nil, err
	}
	s := &Session{Provider: provider}

	s.Signer, err = zksync.DialRemoteTxSigner(ctx, opts.SignerUrl)
	if err != nil {
		s.Close()
		return nil, err
	}

	ethSigner := zksync.NewEthSigner(key)

	var depositor *zksync.Depositor
	if opts.EthRpcUrl != "" {
		s.Eth, err = ethclient.DialContext(ctx, opts.EthRpcUrl)
		if err != nil {
			s.Close()
			return nil, errors.Wrap(err, "dial eth node")
		}
		contract, err := s.contractAddress(ctx, opts.ContractAddress)
		if err != nil {
			s.Close()
			return nil, err
		}
		depositor = zksync.NewDepositor(s.Eth, contract, key, big.NewInt(opts.ChainID))
	}

	s.Wallet = zksync.NewSyncWallet(provider, ethSigner, s.Signer, depositor)
	s.checkSigningKey(ctx, ethSigner.Address())

	logger.Info("钱包已加载", zap.String("address", ethSigner.Address().Hex()))
	return s, nil
}

func (s *Session) contractAddress(ctx context.Context, configured string) (common.Address, error) {
	if configured != "" {
		if !common.IsHexAddress(configured) {
			return common.Address{}, errors.Errorf("invalid contract address %q", configured)
		}
		return common.HexToAddress(configured), nil
	}
	addrs, err := s.Provider.ContractAddress(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(addrs.MainContract), nil
}

// checkSigningKey 账户在 L2 登记的公钥与签名服务不一致时交易会被节点拒绝, 启动时提示
func (s *Session) checkSigningKey(ctx context.Context, addr common.Address) {
	pkh, err := s.Signer.PubKeyHash(ctx)
	if err != nil {
		logger.Warn("查询签名服务公钥失败", zap.Error(err))
		return
	}
	state, err := s.Provider.AccountInfo(ctx, addr)
	if err != nil {
		logger.Warn("查询账户信息失败", zap.Error(err))
		return
	}
	if state.Committed.PubKeyHash != pkh {
		logger.Warn("签名服务公钥与账户登记的公钥不一致, L2 交易将被拒绝",
			zap.String("signer", pkh),
			zap.String("account", state.Committed.PubKeyHash))
	}
}

func (s *Session) Close() {
	if s.Eth != nil {
		s.Eth.Close()
	}
	if s.Signer != nil {
		s.Signer.Close()
	}
	if s.Provider != nil {
		s.Provider.Close()
	}
}
