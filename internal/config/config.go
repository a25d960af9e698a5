package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	StartingChips int64   `json:"starting_chips"`
	DefaultBet    int64   `json:"default_bet"`
	BetPresets    []int64 `json:"bet_presets"`
	DefaultTrials int     `json:"default_trials"`
	TrialPresets  []int   `json:"trial_presets"`
	// MaxAutoPlayHands caps a single auto-play session so an RPC cannot run unbounded.
	MaxAutoPlayHands int   `json:"max_auto_play_hands"`
	WelcomeBonus     int64 `json:"welcome_bonus"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetDefaultBet returns the configured table bet, or a safe default when no
// config was loaded.
func GetDefaultBet() int64 {
	if cfg == nil || cfg.DefaultBet <= 0 {
		return 100
	}
	return cfg.DefaultBet
}

// GetDefaultTrials returns the configured trial count for EV estimates.
func GetDefaultTrials() int {
	if cfg == nil || cfg.DefaultTrials <= 0 {
		return 10000
	}
	return cfg.DefaultTrials
}

// GetMaxAutoPlayHands returns the auto-play session cap.
func GetMaxAutoPlayHands() int {
	if cfg == nil || cfg.MaxAutoPlayHands <= 0 {
		return 100000
	}
	return cfg.MaxAutoPlayHands
}

// GetStartingChips returns the virtual bankroll used by auto-play sessions.
func GetStartingChips() int64 {
	if cfg == nil || cfg.StartingChips <= 0 {
		return 10000
	}
	return cfg.StartingChips
}
