package account

import (
	"strings"

	"github.com/noah-isme/backend-pledge/internal/pricing"
)

// pledgedStatusDropped is the free-text status the original platform sets
// when a backer's Kickstarter payment failed. Compared case-insensitively.
const pledgedStatusDropped = "dropped"

// Account is the slice of a user row the pricing and payment core needs.
type Account struct {
	ID           int64
	Email        string
	Name         string
	BackerNumber *string
	PledgeAmount *pricing.Money
	RewardTitle  *string
	// PledgedStatus is free text from the crowdfunding platform export.
	PledgedStatus string
	LatePledge    bool
	Country       string
}

// IsBacker reports whether the account has any recorded Kickstarter pledge:
// a backer number, a pledge amount, or a reward title.
func (a Account) IsBacker() bool {
	if a.BackerNumber != nil && strings.TrimSpace(*a.BackerNumber) != "" {
		return true
	}
	if a.PledgeAmount != nil {
		return true
	}
	if a.RewardTitle != nil && strings.TrimSpace(*a.RewardTitle) != "" {
		return true
	}
	return false
}

// IsDropped reports whether the backer's original pledge payment failed.
func (a Account) IsDropped() bool {
	return strings.EqualFold(strings.TrimSpace(a.PledgedStatus), pledgedStatusDropped)
}

// IsEligible reports whether the account is a backer whose pledge did not
// fall through.
func (a Account) IsEligible() bool {
	return a.IsBacker() && !a.IsDropped()
}

// BackerTier reports whether the account qualifies for backer pricing.
// Late pledges joined after the campaign window and pay retail even though
// they otherwise look like backers.
func (a Account) BackerTier() bool {
	return a.IsEligible() && !a.LatePledge
}
