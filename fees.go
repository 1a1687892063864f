package cryptobook

import "github.com/shopspring/decimal"

// NormalizeFee returns the fee paid in a transaction, in USD.
//
//   - fiat purchases: the spread hidden in the rate, input/rate - output, in
//     stable units taken as USD. Zero when the rate is not positive.
//   - transfers: input - output, valued at the asset price (1 when unlisted).
//   - sales and swaps: the declared fee plus the slippage, the value given
//     minus the value received, when positive. The slippage is zero when the
//     given asset has no price.
//   - crypto purchases: the declared fee.
func NormalizeFee(tx Transaction, prices Prices) decimal.Decimal {
	in, out := tx.Input(), tx.Output()
	switch tx := tx.(type) {
	case FiatPurchase:
		if !tx.Rate.IsPositive() {
			return decimal.Zero
		}
		return in.Amount.Decimal().Div(tx.Rate).Sub(out.Amount.Decimal())
	case Transfer:
		lost := in.Amount.Sub(out.Amount).Decimal()
		return lost.Mul(prices.PriceOr(in.Currency, one))
	case Sale, Swap:
		return tx.Fee().Add(slippage(in, out, prices))
	default:
		return tx.Fee()
	}
}

// slippage is the USD value lost between the given and the received legs,
// never negative.
func slippage(in, out Leg, prices Prices) decimal.Decimal {
	inPrice, ok := prices.PriceOf(in.Currency)
	if !ok {
		return decimal.Zero
	}
	given := in.Amount.Decimal().Mul(inPrice)
	received := out.Amount.Decimal().Mul(prices.PriceOr(out.Currency, one))
	return decimal.Max(decimal.Zero, given.Sub(received))
}
