package cmd

import (
	"context"
	"fmt"
	"os"

	"zksync-wallet/internal/service/action"
	"zksync-wallet/pkg/validator"
	"zksync-wallet/pkg/zksync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "L2 转账 (手续费代币不同时拆成两笔批量提交)",
	Run: func(cmd *cobra.Command, args []string) {
		to, _ := cmd.Flags().GetString("to")
		token, _ := cmd.Flags().GetString("token")
		feeToken, _ := cmd.Flags().GetString("fee-token")
		amount, _ := cmd.Flags().GetString("amount")
		fee, _ := cmd.Flags().GetString("fee")
		if feeToken == "" {
			feeToken = token
		}
		mustAddress(to)
		mustBaseUnits(amount, fee)

		svc, sess := openActions(cmd)
		defer sess.Close()

		txs, err := svc.Transfer(context.Background(), action.TransferRequest{
			To:       common.HexToAddress(to),
			Token:    token,
			FeeToken: feeToken,
			Amount:   amount,
			Fee:      fee,
		})
		if err != nil {
			fmt.Printf("转账失败: %v\n", err)
			os.Exit(1)
		}
		printJSON(txs)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "从 L2 提现到 L1 地址",
	Run: func(cmd *cobra.Command, args []string) {
		to, _ := cmd.Flags().GetString("to")
		token, _ := cmd.Flags().GetString("token")
		feeToken, _ := cmd.Flags().GetString("fee-token")
		amount, _ := cmd.Flags().GetString("amount")
		fee, _ := cmd.Flags().GetString("fee")
		fast, _ := cmd.Flags().GetBool("fast")
		if feeToken == "" {
			feeToken = token
		}
		mustAddress(to)
		mustBaseUnits(amount, fee)

		svc, sess := openActions(cmd)
		defer sess.Close()

		results, err := svc.Withdraw(context.Background(), action.WithdrawRequest{
			Address:      common.HexToAddress(to),
			Token:        token,
			FeeToken:     feeToken,
			Amount:       amount,
			FastWithdraw: fast,
			Fees:         fee,
		})
		if err != nil {
			fmt.Printf("提现失败: %v\n", err)
			os.Exit(1)
		}
		printJSON(results)
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "从 L1 充值到本钱包的 L2 账户",
	Run: func(cmd *cobra.Command, args []string) {
		token, _ := cmd.Flags().GetString("token")
		amount, _ := cmd.Flags().GetString("amount")
		mustBaseUnits(amount)

		svc, sess := openActions(cmd)
		defer sess.Close()

		resp, err := svc.Deposit(context.Background(), action.DepositRequest{Token: token, Amount: amount})
		if err != nil {
			fmt.Printf("充值失败: %v\n", err)
			os.Exit(1)
		}
		printJSON(resp)
	},
}

var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "查询账户 nonce",
	Run: func(cmd *cobra.Command, args []string) {
		tier, _ := cmd.Flags().GetString("tier")
		if tier != string(zksync.NonceCommitted) && tier != string(zksync.NonceVerified) {
			fmt.Println("tier 必须是 committed 或 verified")
			os.Exit(1)
		}

		svc, sess := openActions(cmd)
		defer sess.Close()

		nonce, err := svc.Nonce(context.Background(), zksync.NonceTier(tier))
		if err != nil {
			fmt.Printf("查询失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s nonce (%s): %d\n", svc.Address().Hex(), tier, nonce)
	},
}

func mustAddress(s string) {
	if !common.IsHexAddress(s) {
		fmt.Printf("%s 不是合法的以太坊地址\n", s)
		os.Exit(1)
	}
}

func mustBaseUnits(values ...string) {
	for _, v := range values {
		if !validator.IsBaseUnits(v) {
			fmt.Printf("%s 必须是非负整数 (最小单位)\n", v)
			os.Exit(1)
		}
	}
}

func init() {
	rootCmd.AddCommand(transferCmd, withdrawCmd, depositCmd, nonceCmd)

	for _, c := range []*cobra.Command{transferCmd, withdrawCmd} {
		c.Flags().String("to", "", "接收方地址")
		c.Flags().String("token", "ETH", "代币符号或合约地址")
		c.Flags().String("fee-token", "", "手续费代币 (默认与 token 相同)")
		c.Flags().String("amount", "", "金额 (最小单位)")
		c.Flags().String("fee", "0", "手续费 (最小单位)")
		c.MarkFlagRequired("to")
		c.MarkFlagRequired("amount")
	}
	withdrawCmd.Flags().Bool("fast", false, "请求快速处理 (手续费更高)")

	depositCmd.Flags().String("token", "ETH", "代币符号或合约地址")
	depositCmd.Flags().String("amount", "", "金额 (最小单位)")
	depositCmd.MarkFlagRequired("amount")

	nonceCmd.Flags().String("tier", "committed", "committed | verified")
}
