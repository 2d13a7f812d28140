package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
)

// MinCancelLead is the single authoritative cancellation floor: a booking
// may not be cancelled once departure is closer than this. Both the
// read-side eligibility check and the cancel operation consult it.
const MinCancelLead = 2 * time.Hour

// CheckInWindow is how far before departure check-in opens.
const CheckInWindow = 24 * time.Hour

type Passenger struct {
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	Gender         string    `json:"gender"`
	SeatNumber     string    `json:"seatNumber"`
	SeatClass      SeatClass `json:"seatClass"`
	MealPreference string    `json:"mealPreference,omitempty"`
}

func (p Passenger) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

type ContactDetails struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type PricingBreakdown struct {
	BasePrice   int64 `json:"basePrice"`
	Taxes       int64 `json:"taxes"`
	Fees        int64 `json:"fees"`
	TotalAmount int64 `json:"totalAmount"`
}

type PaymentDetails struct {
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transactionId"`
	PaymentDate   time.Time `json:"paymentDate"`
}

type SpecialService struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type BoardingPass struct {
	IsGenerated bool   `json:"isGenerated"`
	QRCode      string `json:"qrCode,omitempty"`
}

type CheckInStatus struct {
	IsCheckedIn  bool         `json:"isCheckedIn"`
	CheckInTime  *time.Time   `json:"checkInTime,omitempty"`
	BoardingPass BoardingPass `json:"boardingPass"`
}

// Cancellation is the audit record added when a booking is cancelled. The
// booking itself is never deleted.
type Cancellation struct {
	CancelledAt  time.Time    `json:"cancelledAt"`
	CancelledBy  string       `json:"cancelledBy"`
	Reason       string       `json:"reason"`
	RefundAmount int64        `json:"refundAmount"`
	RefundStatus RefundStatus `json:"refundStatus"`
}

type Notifications struct {
	EmailSent bool `json:"emailSent"`
}

type Booking struct {
	ID              string
	BookingID       string // external reference, BK-prefixed
	PNR             string // 6-character public reference
	UserID          string
	FlightID        string
	Passengers      []Passenger
	ContactDetails  ContactDetails
	Pricing         PricingBreakdown
	Payment         PaymentDetails
	SpecialServices []SpecialService
	Status          BookingStatus
	CheckIn         CheckInStatus
	Cancellation    *Cancellation
	Notifications   Notifications
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanBeCancelled reports whether the booking is still cancellable relative
// to the flight's departure time: not already cancelled and departure at
// least MinCancelLead away.
func (b *Booking) CanBeCancelled(departure, now time.Time) bool {
	if b.Status == BookingStatusCancelled {
		return false
	}
	return departure.Sub(now) >= MinCancelLead
}

const pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewPNR generates a 6-character public booking reference. Uniqueness is
// backed by the database index; a collision surfaces as an insert failure.
func NewPNR() string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pnrAlphabet))))
		if err != nil {
			panic(err) // crypto/rand never fails on supported platforms
		}
		sb.WriteByte(pnrAlphabet[n.Int64()])
	}
	return sb.String()
}

// NewBookingID generates the external booking reference shown to customers.
func NewBookingID(now time.Time) string {
	return fmt.Sprintf("BK%d%s", now.Unix(), NewPNR()[:4])
}
