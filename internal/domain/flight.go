package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusArrived   FlightStatus = "arrived"
	FlightStatusCancelled FlightStatus = "cancelled"
)

type SeatClass string

const (
	ClassEconomy  SeatClass = "economy"
	ClassBusiness SeatClass = "business"
	ClassFirst    SeatClass = "first"
)

type Airline struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Logo string `json:"logo,omitempty"`
}

type Aircraft struct {
	Model      string `json:"model"`
	TotalSeats int    `json:"totalSeats"`
}

type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type RouteStop struct {
	Airport  Airport   `json:"airport"`
	Time     time.Time `json:"time"`
	Terminal string    `json:"terminal,omitempty"`
}

type Route struct {
	Departure RouteStop `json:"departure"`
	Arrival   RouteStop `json:"arrival"`
}

// ClassPricing is one row of the per-class pricing table: the listed fare
// and how many seats of that class remain unsold.
type ClassPricing struct {
	Price          int64 `json:"price"`
	AvailableSeats int   `json:"availableSeats"`
}

type Pricing struct {
	Economy    ClassPricing `json:"economy"`
	Business   ClassPricing `json:"business"`
	FirstClass ClassPricing `json:"firstClass"`
}

// PriceFor returns the listed fare for a seat class. Classes without a
// pricing entry fall back to economy, matching the booking flow.
func (p Pricing) PriceFor(class SeatClass) int64 {
	switch class {
	case ClassBusiness:
		if p.Business.Price > 0 {
			return p.Business.Price
		}
	case ClassFirst:
		if p.FirstClass.Price > 0 {
			return p.FirstClass.Price
		}
	}
	return p.Economy.Price
}

// AdjustAvailable moves the available-seat counter for a class by delta.
func (p *Pricing) AdjustAvailable(class SeatClass, delta int) {
	switch class {
	case ClassBusiness:
		p.Business.AvailableSeats += delta
	case ClassFirst:
		p.FirstClass.AvailableSeats += delta
	default:
		p.Economy.AvailableSeats += delta
	}
}

type BookingDetails struct {
	TotalBookings int   `json:"totalBookings"`
	Revenue       int64 `json:"revenue"`
}

type Flight struct {
	ID             string
	FlightNumber   string
	Airline        Airline
	Aircraft       Aircraft
	Route          Route
	DurationMin    int
	Pricing        Pricing
	SeatMap        SeatMap
	Status         FlightStatus
	IsActive       bool
	BookingDetails BookingDetails
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Bookable reports whether new bookings may be taken on the flight.
func (f *Flight) Bookable() bool {
	return f.IsActive && f.Status == FlightStatusScheduled
}
