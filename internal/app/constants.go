package app

// MinBet defines the smallest stake a round may be opened with.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
const MinBet = 1
