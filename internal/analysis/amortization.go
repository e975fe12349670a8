package analysis

import "math"

// MonthlyPayment returns the level payment that amortizes principal over
// totalPayments periods at monthlyRate. A zero rate pays the principal down in
// equal instalments, as does a rate too small to move (1+r)^n off 1. When
// (1+r)^n overflows the payment is the interest alone.
func MonthlyPayment(principal, monthlyRate float64, totalPayments int) float64 {
	if totalPayments <= 0 || principal == 0 {
		return 0
	}
	n := float64(totalPayments)
	if monthlyRate == 0 {
		return principal / n
	}
	factor := math.Pow(1+monthlyRate, n)
	if factor-1 == 0 {
		return principal / n
	}
	return principal * monthlyRate / (1 - 1/factor)
}

// RemainingBalance returns the balance still owed on a fixed-payment loan after
// paymentsMade of totalPayments instalments.
//
//	payment   = P × r(1+r)^n / ((1+r)^n − 1)
//	remaining = payment × ((1+r)^k − 1) / (r(1+r)^k),  k = n − paymentsMade
//
// paymentsMade is clamped into [0, totalPayments].
func RemainingBalance(principal, monthlyRate float64, totalPayments, paymentsMade int) float64 {
	if totalPayments <= 0 {
		return principal
	}
	if paymentsMade < 0 {
		paymentsMade = 0
	}
	if paymentsMade >= totalPayments {
		return 0
	}
	if monthlyRate == 0 || math.Pow(1+monthlyRate, float64(totalPayments))-1 == 0 {
		return principal * (1 - float64(paymentsMade)/float64(totalPayments))
	}

	payment := MonthlyPayment(principal, monthlyRate, totalPayments)
	remaining := float64(totalPayments - paymentsMade)
	factor := math.Pow(1+monthlyRate, remaining)
	if factor-1 == 0 {
		return payment * remaining
	}
	return payment * (1 - 1/factor) / monthlyRate
}
