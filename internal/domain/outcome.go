package domain

// DealerStandTotal is the forced-stand threshold: the dealer hits below 17
// and stands at 17 or more, soft or hard.
const DealerStandTotal = 17

// CompleteDealer draws for the dealer until the forced-stand threshold.
func CompleteDealer(dealer *Hand, shoe *Shoe) {
	for dealer.Total < DealerStandTotal {
		dealer.AddCard(shoe.Deal())
	}
}

// ResolveOutcome scores a finished player hand against the dealer at the
// given stake. A busted player loses the stake regardless of the dealer, a
// busted dealer pays it, otherwise the higher total wins and equal totals
// push for zero.
func ResolveOutcome(player, dealer *Hand, stake int64) int64 {
	switch {
	case player.IsBusted():
		return -stake
	case dealer.IsBusted():
		return stake
	case player.Total > dealer.Total:
		return stake
	case player.Total < dealer.Total:
		return -stake
	default:
		return 0
	}
}
