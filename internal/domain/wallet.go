package domain

// Cohort partitions tracked wallets for alert thresholding and routing.
type Cohort string

const (
	CohortInfluencer Cohort = "INFLUENCER"
	CohortSmartDegen Cohort = "SMART_DEGEN"
)

// SmartDegenHandle is the influencer handle whose wallets form the
// SMART_DEGEN cohort. Every other handle maps to INFLUENCER.
const SmartDegenHandle = "smart_degen"

// Wallet is a tracked wallet attributed to an influencer.
// Keyed by Address; one influencer may own many wallets.
type Wallet struct {
	Address     string // base58 wallet address, unique
	Influencer  string // display handle, stored lowercased
	ProfileLink string
	Cohort      Cohort
}

// CohortFor maps an influencer handle to its cohort.
func CohortFor(influencer string) Cohort {
	if influencer == SmartDegenHandle {
		return CohortSmartDegen
	}
	return CohortInfluencer
}
