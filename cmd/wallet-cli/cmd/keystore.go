package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"zksync-wallet/internal/session"
	"zksync-wallet/pkg/bip39"
	"zksync-wallet/pkg/keystore"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var keystoreCmd = &cobra.Command{
	Use:   "keystore",
	Short: "Keystore 管理",
}

var keystoreNewCmd = &cobra.Command{
	Use:   "new",
	Short: "初始化一个新的钱包 (生成助记词并加密保存)",
	Long:  `生成新的 BIP-39 助记词，并使用用户输入的密码进行加密，保存为 Keystore 文件。`,
	Run: func(cmd *cobra.Command, args []string) {
		outputFile, _ := cmd.Flags().GetString("output")
		path, _ := cmd.Flags().GetString("path")
		if _, err := os.Stat(outputFile); err == nil {
			fmt.Printf("错误: 文件 %s 已存在。请先删除或指定其他文件名。\n", outputFile)
			os.Exit(1)
		}

		fmt.Println("请设置一个强密码来保护您的助记词。")
		password := readPassword("输入密码: ")
		if password != readPassword("确认密码: ") {
			fmt.Println("两次输入的密码不一致！")
			os.Exit(1)
		}
		if len(password) < 6 {
			fmt.Println("密码长度至少需要 6 位。")
			os.Exit(1)
		}

		mnemonic, err := bip39.NewMnemonicService().GenerateMnemonic(12)
		if err != nil {
			fmt.Printf("生成助记词失败: %v\n", err)
			os.Exit(1)
		}

		key, err := session.DeriveKey(mnemonic, path)
		if err != nil {
			fmt.Printf("派生私钥失败: %v\n", err)
			os.Exit(1)
		}

		encryptedKey, err := keystore.EncryptMnemonic(mnemonic, password)
		if err != nil {
			fmt.Printf("加密失败: %v\n", err)
			os.Exit(1)
		}
		if err := encryptedKey.SaveToFile(outputFile); err != nil {
			fmt.Printf("保存文件失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n✅ 钱包已初始化！\n")
		fmt.Printf("文件位置: %s\n", outputFile)
		fmt.Printf("地址 (%s): %s\n", path, crypto.PubkeyToAddress(key.PublicKey).Hex())
		fmt.Println("\n⚠️  警告: 请务必记住您的密码！如果丢失密码，您将无法恢复钱包。")

		fmt.Print("\n是否需要现在显示助记词以便备份? (y/N): ")
		input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))
		if input == "y" || input == "yes" {
			fmt.Println("\n---------------------------------------------------")
			fmt.Println(mnemonic)
			fmt.Println("---------------------------------------------------")
		}
	},
}

func init() {
	rootCmd.AddCommand(keystoreCmd)
	keystoreCmd.AddCommand(keystoreNewCmd)
	keystoreNewCmd.Flags().StringP("output", "o", "wallet.json", "输出的 Keystore 文件名")
	keystoreNewCmd.Flags().String("path", "m/44'/60'/0'/0/0", "私钥派生路径")
}
