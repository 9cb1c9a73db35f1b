// Package lookup answers interactive queries about tracked wallets,
// influencers and token holders.
package lookup

import (
	"context"
	"strings"

	"solana-wallet-radar/internal/addr"
	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/gateway"
)

// WalletEntry is one wallet with its stats row, if any.
type WalletEntry struct {
	Address  string
	PNL      string
	WinRate  string
	HasStats bool
}

// Owner is the resolved owner of a queried wallet.
type Owner struct {
	Handle  string
	Link    string
	Wallets []WalletEntry
}

// Holder is one tracked wallet holding a queried token.
type Holder struct {
	Wallet     string
	ValueInSOL float64
	Handle     string
	Link       string
	Known      bool
}

// TokenHolders is the holders answer for one token.
type TokenHolders struct {
	TokenName string
	Holders   []Holder
}

// Service runs lookups against the persistence gateway.
type Service struct {
	gw *gateway.Gateway

	// operatorHandle is hidden from the public influencer roster.
	operatorHandle string
}

// NewService creates a lookup Service.
func NewService(gw *gateway.Gateway, operatorHandle string) *Service {
	return &Service{gw: gw, operatorHandle: operatorHandle}
}

// OwnerOfWallet resolves the influencer behind a wallet address. The
// bool is false when the wallet is not tracked or the input is not a
// plausible address.
func (s *Service) OwnerOfWallet(ctx context.Context, address string) (*Owner, bool) {
	if !addr.MatchesShape(address) {
		return nil, false
	}
	w, ok := s.gw.WalletByAddress(ctx, address)
	if !ok {
		return nil, false
	}

	owner := &Owner{Handle: w.Influencer, Link: w.ProfileLink}
	for _, sibling := range s.gw.WalletsOfInfluencer(ctx, w.Influencer) {
		owner.Wallets = append(owner.Wallets, s.entry(ctx, sibling.Address))
	}
	return owner, true
}

// WalletsOfInfluencer lists the wallets of an influencer handle with
// their stats. The smart-money pool is not attributable to a person
// and is never answered. Handles are matched case-insensitively.
func (s *Service) WalletsOfInfluencer(ctx context.Context, handle string) ([]WalletEntry, bool) {
	handle = strings.ToLower(handle)
	if handle == domain.SmartDegenHandle {
		return nil, false
	}

	wallets := s.gw.WalletsOfInfluencer(ctx, handle)
	if len(wallets) == 0 {
		return nil, false
	}

	entries := make([]WalletEntry, 0, len(wallets))
	for _, w := range wallets {
		entries = append(entries, s.entry(ctx, w.Address))
	}
	return entries, true
}

// HoldersOfToken lists the tracked wallets currently holding a token,
// each attributed to its influencer when known.
func (s *Service) HoldersOfToken(ctx context.Context, token string) (*TokenHolders, bool) {
	if !addr.MatchesShape(token) {
		return nil, false
	}

	holdings := s.gw.HoldersOfToken(ctx, token)
	if len(holdings) == 0 {
		return nil, false
	}

	result := &TokenHolders{TokenName: s.gw.TokenNameFor(ctx, token)}
	for _, h := range holdings {
		holder := Holder{Wallet: h.WalletAddress, ValueInSOL: h.ValueInSOL}
		if w, ok := s.gw.WalletByAddress(ctx, h.WalletAddress); ok {
			holder.Handle = w.Influencer
			holder.Link = w.ProfileLink
			holder.Known = true
		}
		result.Holders = append(result.Holders, holder)
	}
	return result, true
}

// KnownInfluencers returns the public influencer roster. The smart
// money pool and the operator's own handle stay off the list.
func (s *Service) KnownInfluencers(ctx context.Context) []string {
	var out []string
	for _, handle := range s.gw.Influencers(ctx) {
		if handle == domain.SmartDegenHandle || handle == s.operatorHandle {
			continue
		}
		out = append(out, handle)
	}
	return out
}

func (s *Service) entry(ctx context.Context, wallet string) WalletEntry {
	e := WalletEntry{Address: wallet}
	if stats := s.gw.StatsFor(ctx, wallet); stats != nil {
		e.PNL = stats.PNL
		e.WinRate = stats.WinRate
		e.HasStats = true
	}
	return e
}
