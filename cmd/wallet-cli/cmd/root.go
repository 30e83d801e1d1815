package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"zksync-wallet/internal/service/action"
	"zksync-wallet/internal/service/tracker"
	"zksync-wallet/internal/session"
	"zksync-wallet/pkg/config"
	"zksync-wallet/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "wallet-cli",
	Short: "zkSync 钱包命令行工具",
	Long:  `直接调用钱包操作 (转账 / 提现 / 充值), 连接参数读取 config.yaml 与环境变量。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Init()
		logger.Init(config.Global.App.Env)
	},
}

// Execute 命令入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("keystore", "", "Keystore 文件 (默认读取配置)")
}

// openActions 加载私钥并连接节点, 交易只记录日志不入库
func openActions(cmd *cobra.Command) (*action.Service, *session.Session) {
	src := session.KeySource{
		KeystorePath:   config.Global.Wallet.KeystorePath,
		Password:       config.Global.Wallet.Password,
		Mnemonic:       config.Global.Wallet.Mnemonic,
		DerivationPath: config.Global.Wallet.DerivationPath,
	}
	if path, _ := cmd.Flags().GetString("keystore"); path != "" {
		src.KeystorePath = path
	}
	if src.Password == "" {
		if _, err := os.Stat(src.KeystorePath); err == nil {
			src.Password = readPassword("输入 Keystore 密码: ")
		}
	}

	key, err := session.LoadKey(src)
	if err != nil {
		fmt.Printf("加载私钥失败: %v\n", err)
		os.Exit(1)
	}

	sess, err := session.Open(context.Background(), key, session.Options{
		RpcUrl:          config.Global.ZkSync.RpcUrl,
		EthRpcUrl:       config.Global.ZkSync.EthRpcUrl,
		SignerUrl:       config.Global.ZkSync.SignerUrl,
		ContractAddress: config.Global.ZkSync.ContractAddress,
		ChainID:         config.Global.ZkSync.ChainID,
	})
	if err != nil {
		fmt.Printf("连接节点失败: %v\n", err)
		os.Exit(1)
	}
	return action.NewService(sess.Wallet, tracker.LogTracker{}), sess
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("读取密码失败:", err)
		os.Exit(1)
	}
	return string(b)
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
