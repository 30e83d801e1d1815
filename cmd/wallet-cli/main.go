package main

import "zksync-wallet/cmd/wallet-cli/cmd"

func main() {
	cmd.Execute()
}
