package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Budget moving inside a trade is modeled as a distinguished cash asset so
// that reversal comparison can treat it like any other asset, while the
// ledger routes its amount into the budget sub-ledger instead of the player
// maps.

// CashAssetName formats the distinguished cash asset for a budget transfer.
// The two parties disambiguate equal amounts moving between different pairs
// in one trade, and are ordered so that a transfer and its exact reverse
// produce the same asset name.
func CashAssetName(amount int, a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("$%d FAAB (%s / %s)", amount, a, b)
}

// ParseCashAsset recognizes a cash asset name and extracts its amount.
func ParseCashAsset(name string) (int, bool) {
	if !strings.HasPrefix(name, "$") {
		return 0, false
	}
	amountStr, rest, found := strings.Cut(strings.TrimPrefix(name, "$"), " ")
	if !found || (rest != "FAAB" && !strings.HasPrefix(rest, "FAAB (")) {
		return 0, false
	}
	amount, err := strconv.Atoi(amountStr)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// PickAssetName formats a future draft pick as an asset name. The original
// owner disambiguates two picks of the same season and round moving in one
// trade.
func PickAssetName(season string, round int, originalOwner string) string {
	return fmt.Sprintf("%s Round %d Pick (%s)", season, round, originalOwner)
}
