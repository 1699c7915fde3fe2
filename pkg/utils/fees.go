package utils

// Fee accounting for collected revenue. The gateway keeps 1% and the
// platform keeps 2%, so guild admins collect 97% of gross.
//
// Canonical rounding policy: the forward direction truncates
// (fee = gross*300/10000, integer division) and the backward direction
// rounds half-up (gross = round(net*10000/9700)). Both directions agree
// on round amounts (1000 -> net 970 -> gross 1000); for awkward amounts
// the backward derivation is only used for display and payout bookkeeping,
// never fed back into the available-balance computation.
const (
	FeeBasisPoints = 300 // 1% QPay + 2% platform
	feeDenominator = 10000

	// MinPayoutMNT is the smallest balance a guild may collect.
	MinPayoutMNT int64 = 100_000

	// BankTransferFeeMNT is the flat cost the operator pays per completed
	// payout, reported in owner analytics only.
	BankTransferFeeMNT int64 = 200
)

// FeeOnGross returns the total fee kept from a gross amount.
func FeeOnGross(gross int64) int64 {
	return gross * FeeBasisPoints / feeDenominator
}

// NetFromGross returns what a guild keeps from a gross amount.
func NetFromGross(gross int64) int64 {
	return gross - FeeOnGross(gross)
}

// GrossFromNet back-derives the gross amount a net figure came from,
// rounding half-up.
func GrossFromNet(net int64) int64 {
	if net <= 0 {
		return 0
	}
	num := net * feeDenominator
	den := int64(feeDenominator - FeeBasisPoints)
	return (num + den/2) / den
}

// AvailableBalance applies the fee and completed payouts to gross revenue.
// Never negative.
func AvailableBalance(grossRevenue, paidOut int64) int64 {
	avail := grossRevenue - FeeOnGross(grossRevenue) - paidOut
	if avail < 0 {
		return 0
	}
	return avail
}
