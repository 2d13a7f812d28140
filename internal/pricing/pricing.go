// Package pricing computes booking money breakdowns. Everything here is
// pure: amounts are whole currency units (int64), rounding is half-up.
package pricing

import (
	"math"

	"flightbooking/internal/domain"
)

const (
	// TaxRate is applied to the class base price, not the per-seat price.
	TaxRate = 0.10
	// BookingFee is a flat charge per booking.
	BookingFee int64 = 25
	// RefundRate is the share of the total refunded on cancellation; the
	// remaining 20% is the cancellation penalty.
	RefundRate = 0.80
)

type Quote struct {
	BasePrice     int64
	Taxes         int64
	Fees          int64
	ServicesTotal int64
	TotalAmount   int64
}

func (q Quote) Breakdown() domain.PricingBreakdown {
	return domain.PricingBreakdown{
		BasePrice:   q.BasePrice,
		Taxes:       q.Taxes,
		Fees:        q.Fees,
		TotalAmount: q.TotalAmount,
	}
}

// SeatPrice is the effective price a seat contributes to the total: the
// seat's own price when set, else the listed class fare. Base price always
// uses the class fare, so the two sums may diverge for premium individual
// seats. That divergence is intentional and kept for compatibility.
func SeatPrice(seat *domain.Seat, pricing domain.Pricing) int64 {
	if seat.Price > 0 {
		return seat.Price
	}
	return pricing.PriceFor(seat.Class)
}

// Calculate builds the quote for a set of assigned seats plus special
// services against a flight's pricing table.
func Calculate(seats []*domain.Seat, services []domain.SpecialService, pricing domain.Pricing) Quote {
	var q Quote
	for _, seat := range seats {
		q.BasePrice += pricing.PriceFor(seat.Class)
		q.TotalAmount += SeatPrice(seat, pricing)
	}
	for _, svc := range services {
		q.ServicesTotal += svc.Price
	}
	q.Taxes = roundHalfUp(float64(q.BasePrice) * TaxRate)
	q.Fees = BookingFee
	q.TotalAmount += q.ServicesTotal + q.Taxes + q.Fees
	return q
}

// Refund is the amount returned on cancellation: 80% of the total, rounded
// half-up to a whole currency unit.
func Refund(totalAmount int64) int64 {
	return roundHalfUp(float64(totalAmount) * RefundRate)
}

func roundHalfUp(v float64) int64 {
	return int64(math.Round(v))
}
