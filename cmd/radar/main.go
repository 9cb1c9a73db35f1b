// Package main is the radar entry point.
package main

import "solana-wallet-radar/internal/cli"

func main() {
	cli.Execute()
}
