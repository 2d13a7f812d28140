package boardingpass

import (
	"strings"
	"testing"
	"time"

	"flightbooking/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		BookingID: "BK17487720001234",
		PNR:       "ABC123",
		Passengers: []domain.Passenger{
			{FirstName: "Ada", LastName: "Lovelace", SeatNumber: "9A", SeatClass: domain.ClassEconomy},
		},
	}
}

func TestPayloadAndVerify(t *testing.T) {
	g := NewGenerator("gate-key")
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	payload := g.Payload(testBooking(), "SW101", now)

	assert.True(t, strings.HasPrefix(payload, "ABC123|BK17487720001234|SW101|1748772000|"))
	assert.True(t, g.Verify(payload))
}

func TestVerify_Tampered(t *testing.T) {
	g := NewGenerator("gate-key")
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	payload := g.Payload(testBooking(), "SW101", now)
	tampered := strings.Replace(payload, "SW101", "SW999", 1)

	assert.False(t, g.Verify(tampered))
	assert.False(t, g.Verify("no signature here"))
	assert.False(t, g.Verify(""))
}

func TestVerify_DifferentKey(t *testing.T) {
	issuer := NewGenerator("key-a")
	scanner := NewGenerator("key-b")
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	payload := issuer.Payload(testBooking(), "SW101", now)
	assert.False(t, scanner.Verify(payload))
}

func TestRenderPDF_RequiresCheckIn(t *testing.T) {
	g := NewGenerator("gate-key")
	flight := &domain.Flight{FlightNumber: "SW101"}

	pdf, err := g.RenderPDF(testBooking(), flight)
	assert.Nil(t, pdf)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestRenderPDF_CheckedIn(t *testing.T) {
	g := NewGenerator("gate-key")
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	b := testBooking()
	b.CheckIn.IsCheckedIn = true
	b.CheckIn.BoardingPass = domain.BoardingPass{
		IsGenerated: true,
		QRCode:      g.Payload(b, "SW101", now),
	}
	flight := &domain.Flight{
		FlightNumber: "SW101",
		Airline:      domain.Airline{Name: "SkyWings"},
		Route: domain.Route{
			Departure: domain.RouteStop{Airport: domain.Airport{Code: "JFK"}, Time: now.Add(6 * time.Hour)},
			Arrival:   domain.RouteStop{Airport: domain.Airport{Code: "LAX"}},
		},
	}

	pdf, err := g.RenderPDF(b, flight)
	assert.NoError(t, err)
	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
