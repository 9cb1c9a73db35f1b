package domain

// MinHoldingValueSOL is the floor below which a holding is not worth
// tracking. Rows falling under it are dropped on the next inventory pass.
const MinHoldingValueSOL = 0.01

// TokenHolding is one wallet's position in one token, priced in the
// reference asset. Keyed by (WalletAddress, TokenAddress) and rewritten
// on every inventory pass.
type TokenHolding struct {
	WalletAddress string
	TokenAddress  string
	TokenName     string
	TokenAmount   float64
	ValueInSOL    float64
}
