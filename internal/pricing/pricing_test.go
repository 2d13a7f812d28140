package pricing

import (
	"testing"

	"flightbooking/internal/domain"

	"github.com/stretchr/testify/assert"
)

var testPricing = domain.Pricing{
	Economy:    domain.ClassPricing{Price: 299},
	Business:   domain.ClassPricing{Price: 799},
	FirstClass: domain.ClassPricing{Price: 1299},
}

func TestCalculate_SingleEconomySeat(t *testing.T) {
	seats := []*domain.Seat{
		{SeatNumber: "12A", Class: domain.ClassEconomy, Price: 299},
	}

	q := Calculate(seats, nil, testPricing)

	assert.Equal(t, int64(299), q.BasePrice)
	assert.Equal(t, int64(30), q.Taxes) // round(299 * 0.10)
	assert.Equal(t, int64(25), q.Fees)
	assert.Zero(t, q.ServicesTotal)
	assert.Equal(t, int64(354), q.TotalAmount)
}

func TestCalculate_SeatPriceOverridesClassFare(t *testing.T) {
	// Premium seat priced above the class fare: taxes follow the class fare,
	// the total follows the seat price.
	seats := []*domain.Seat{
		{SeatNumber: "9A", Class: domain.ClassEconomy, Price: 350},
	}

	q := Calculate(seats, nil, testPricing)

	assert.Equal(t, int64(299), q.BasePrice)
	assert.Equal(t, int64(30), q.Taxes)
	assert.Equal(t, int64(350+30+25), q.TotalAmount)
}

func TestCalculate_UnsetSeatPriceFallsBackToClassFare(t *testing.T) {
	seats := []*domain.Seat{
		{SeatNumber: "2C", Class: domain.ClassFirst},
	}

	q := Calculate(seats, nil, testPricing)

	assert.Equal(t, int64(1299), q.BasePrice)
	assert.Equal(t, int64(130), q.Taxes) // round(129.9)
	assert.Equal(t, int64(1299+130+25), q.TotalAmount)
}

func TestCalculate_MixedCabinWithServices(t *testing.T) {
	seats := []*domain.Seat{
		{SeatNumber: "5B", Class: domain.ClassBusiness, Price: 799},
		{SeatNumber: "12C", Class: domain.ClassEconomy, Price: 299},
	}
	services := []domain.SpecialService{
		{Name: "extra-baggage", Price: 50},
		{Name: "priority-boarding", Price: 15},
	}

	q := Calculate(seats, services, testPricing)

	assert.Equal(t, int64(1098), q.BasePrice)
	assert.Equal(t, int64(110), q.Taxes) // round(109.8)
	assert.Equal(t, int64(25), q.Fees)
	assert.Equal(t, int64(65), q.ServicesTotal)
	assert.Equal(t, int64(1098+110+25+65), q.TotalAmount)
}

func TestCalculate_UnknownClassFallsBackToEconomy(t *testing.T) {
	seats := []*domain.Seat{
		{SeatNumber: "30F", Class: domain.SeatClass("premium")},
	}

	q := Calculate(seats, nil, testPricing)

	assert.Equal(t, int64(299), q.BasePrice)
	assert.Equal(t, int64(354), q.TotalAmount)
}

func TestRefund(t *testing.T) {
	testCases := []struct {
		total int64
		want  int64
	}{
		{total: 354, want: 283}, // round(283.2)
		{total: 100, want: 80},
		{total: 101, want: 81}, // round(80.8)
		{total: 0, want: 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Refund(tc.total), "total %d", tc.total)
	}
}

func TestBreakdown(t *testing.T) {
	q := Quote{BasePrice: 299, Taxes: 30, Fees: 25, ServicesTotal: 10, TotalAmount: 364}

	b := q.Breakdown()

	assert.Equal(t, domain.PricingBreakdown{BasePrice: 299, Taxes: 30, Fees: 25, TotalAmount: 364}, b)
}
