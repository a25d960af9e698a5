package domain

import "testing"

func TestResolveOutcome(t *testing.T) {
	tests := []struct {
		name   string
		player []string
		dealer []string
		want   int64
	}{
		{"player busts", []string{"10", "6", "9"}, []string{"10", "7"}, -10},
		{"both bust still loses", []string{"10", "6", "9"}, []string{"10", "6", "9"}, -10},
		{"dealer busts", []string{"10", "8"}, []string{"10", "6", "9"}, 10},
		{"player higher", []string{"10", "9"}, []string{"10", "8"}, 10},
		{"dealer higher", []string{"10", "7"}, []string{"10", "8"}, -10},
		{"push", []string{"10", "8"}, []string{"9", "9"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := NewHand()
			for _, r := range tt.player {
				player.AddCard(card(r))
			}
			dealer := NewHand()
			for _, r := range tt.dealer {
				dealer.AddCard(card(r))
			}
			if got := ResolveOutcome(player, dealer, 10); got != tt.want {
				t.Errorf("ResolveOutcome = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompleteDealerStandsAtSeventeen(t *testing.T) {
	tests := []struct {
		name  string
		start []string
	}{
		{"hard sixteen draws", []string{"10", "6"}},
		{"soft seventeen stands", []string{"A", "6"}},
		{"twelve draws", []string{"10", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dealer := NewHand()
			for _, r := range tt.start {
				dealer.AddCard(card(r))
			}
			before := len(dealer.Cards)
			CompleteDealer(dealer, NewShoe(testRng()))
			if dealer.Total < DealerStandTotal {
				t.Errorf("dealer stopped at %d", dealer.Total)
			}
			if tt.name == "soft seventeen stands" && len(dealer.Cards) != before {
				t.Errorf("soft 17 drew %d extra cards", len(dealer.Cards)-before)
			}
		})
	}
}
