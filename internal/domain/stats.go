package domain

// Defaults substituted when a wallet has no stats row.
const (
	DefaultPNL     = "25%"
	DefaultWinRate = "30%"
)

// WalletStats is the offline-computed performance of a tracked wallet.
// Percentages keep their source formatting ("±NN.NN%", "NN.NN%").
type WalletStats struct {
	WalletAddress string
	PNL           string
	WinRate       string
}
