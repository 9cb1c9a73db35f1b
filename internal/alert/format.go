package alert

import (
	"fmt"
	"strconv"
	"strings"

	"solana-wallet-radar/internal/domain"
)

// formatMarketCap turns a raw digit string into the short K/M/B form
// shown in alerts. Thousands keep three digits cut off, millions and
// billions keep two fractional digits.
func formatMarketCap(digits string) string {
	switch {
	case len(digits) < 7:
		if len(digits) <= 3 {
			return "0K"
		}
		return digits[:len(digits)-3] + "K"
	case len(digits) < 10:
		return digits[:len(digits)-6] + "." + digits[len(digits)-6:len(digits)-4] + "M"
	default:
		return digits[:len(digits)-9] + "." + digits[len(digits)-9:len(digits)-7] + "B"
	}
}

// alertHeader is the first block of every alert message.
func alertHeader(symbol, mint, marketCap string) string {
	return fmt.Sprintf("🔔 <b>$%s</b> <code>%s</code> is being actively bought!"+
		"\nMC: <i>%s</i> 💲"+
		"\nHere's the list:\n\n", symbol, mint, marketCap)
}

// walletLine renders one buyer entry: stats traffic lights, the
// influencer link and the raw address.
func walletLine(stats *domain.WalletStats, handle, link, wallet string) string {
	pnl, wr := domain.DefaultPNL, domain.DefaultWinRate
	if stats != nil {
		pnl, wr = stats.PNL, stats.WinRate
	}
	return fmt.Sprintf("%s PNL: %s, %s WR(7d): %s, <b><a href='%s'>%s</a></b>\n<code>%s</code>\n\n",
		trafficLight(pnl, 0), pnl, trafficLight(wr, 50), wr, link, handle, wallet)
}

// trafficLight returns the green circle when the percentage exceeds
// the threshold and the red one otherwise.
func trafficLight(percent string, threshold float64) string {
	v, err := strconv.ParseFloat(strings.TrimSuffix(percent, "%"), 64)
	if err == nil && v > threshold {
		return "🟢"
	}
	return "🔴"
}
