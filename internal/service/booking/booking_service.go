package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"flightbooking/internal/boardingpass"
	"flightbooking/internal/domain"
	"flightbooking/internal/kafka"
	"flightbooking/internal/pricing"
	"flightbooking/internal/repository"

	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, userID, ref, reason string) (int64, error)
	CheckIn(ctx context.Context, userID, ref string) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID string, role domain.Role, ref string) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, userID string, filter repository.BookingListFilter) (*BookingPage, error)
	SearchByPNR(ctx context.Context, pnr string) (*PublicBooking, error)
	BoardingPassPDF(ctx context.Context, userID, ref string) ([]byte, error)
}

type Cache interface {
	AcquireSeatHold(ctx context.Context, flightID, seatNumber string, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, flightID, seatNumber string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PassengerInput struct {
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	Gender         string    `json:"gender"`
	SeatNumber     string    `json:"seatNumber"`
	MealPreference string    `json:"mealPreference"`
}

type CreateBookingInput struct {
	FlightID        string                  `json:"flightId"`
	Passengers      []PassengerInput        `json:"passengers"`
	ContactDetails  domain.ContactDetails   `json:"contactDetails"`
	SelectedSeats   []string                `json:"selectedSeats"`
	SpecialServices []domain.SpecialService `json:"specialServices"`
}

type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalBookings int  `json:"totalBookings"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
}

type BookingPage struct {
	Bookings   []domain.Booking `json:"bookings"`
	Pagination Pagination       `json:"pagination"`
}

// PublicBooking is the deliberately reduced PNR-search projection: no
// internal ids, no contact PII. The field set is a security boundary.
type PublicBooking struct {
	BookingID  string               `json:"bookingId"`
	PNR        string               `json:"pnr"`
	Status     domain.BookingStatus `json:"status"`
	Flight     PublicFlight         `json:"flight"`
	Passengers []PublicPassenger    `json:"passengers"`
	CheckIn    domain.CheckInStatus `json:"checkInStatus"`
}

type PublicFlight struct {
	FlightNumber string              `json:"flightNumber"`
	Airline      string              `json:"airline"`
	Route        domain.Route        `json:"route"`
	Status       domain.FlightStatus `json:"status"`
}

type PublicPassenger struct {
	Name       string           `json:"name"`
	SeatNumber string           `json:"seatNumber"`
	SeatClass  domain.SeatClass `json:"seatClass"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	boarding           *boardingpass.Generator
	notificationsTopic string
	seatHoldTTL        time.Duration
	now                func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	boarding *boardingpass.Generator,
	notificationsTopic string,
	seatHoldTTL time.Duration,
) *BookingService {
	return &BookingService{
		bookings:           bookings,
		flights:            flights,
		cache:              cache,
		producer:           producer,
		boarding:           boarding,
		notificationsTopic: notificationsTopic,
		seatHoldTTL:        seatHoldTTL,
		now:                time.Now,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error) {
	if input.FlightID == "" || len(input.Passengers) == 0 || input.ContactDetails.Email == "" {
		return nil, domain.E(domain.KindValidation, "Missing required booking information")
	}

	seatNumbers := input.SelectedSeats
	if len(seatNumbers) == 0 {
		for _, p := range input.Passengers {
			seatNumbers = append(seatNumbers, p.SeatNumber)
		}
	}
	if len(seatNumbers) != len(input.Passengers) {
		return nil, domain.E(domain.KindValidation, "Seat selection does not match passenger count")
	}
	for i, seat := range seatNumbers {
		if seat == "" {
			return nil, domain.Ef(domain.KindValidation, "Passenger %d has no seat assigned", i+1)
		}
	}

	// Fast pre-check outside any lock so obviously bad requests never
	// touch Redis or the flight row.
	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if !flight.Bookable() {
		return nil, domain.E(domain.KindConflict, "Flight is not available for booking")
	}
	for _, seatNumber := range seatNumbers {
		seat, err := flight.SeatMap.Find(seatNumber)
		if err != nil {
			return nil, err
		}
		if !seat.Bookable() {
			return nil, domain.Ef(domain.KindConflict, "Seat %s is not available", seatNumber)
		}
	}

	held, err := s.holdSeats(ctx, input.FlightID, seatNumbers)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking := &domain.Booking{
		ID:              uuid.NewString(),
		BookingID:       domain.NewBookingID(now),
		PNR:             domain.NewPNR(),
		UserID:          userID,
		FlightID:        input.FlightID,
		ContactDetails:  input.ContactDetails,
		SpecialServices: input.SpecialServices,
		Status:          domain.BookingStatusConfirmed,
		Payment: domain.PaymentDetails{
			Method:        "mock",
			Status:        "completed",
			TransactionID: newTransactionID(now),
			PaymentDate:   now,
		},
	}

	err = s.bookings.Create(ctx, booking, func(locked *domain.Flight) error {
		if !locked.Bookable() {
			return domain.E(domain.KindConflict, "Flight is not available for booking")
		}

		// Re-validate every seat under the row lock, then mutate. Any
		// failure aborts the transaction with nothing written.
		seats := make([]*domain.Seat, 0, len(seatNumbers))
		booking.Passengers = booking.Passengers[:0]
		for i, seatNumber := range seatNumbers {
			seat, err := locked.SeatMap.Reserve(seatNumber)
			if err != nil {
				return err
			}
			locked.Pricing.AdjustAvailable(seat.Class, -1)
			seats = append(seats, seat)

			p := input.Passengers[i]
			booking.Passengers = append(booking.Passengers, domain.Passenger{
				FirstName:      p.FirstName,
				LastName:       p.LastName,
				DateOfBirth:    p.DateOfBirth,
				Gender:         p.Gender,
				SeatNumber:     seatNumber,
				SeatClass:      seat.Class,
				MealPreference: p.MealPreference,
			})
		}

		quote := pricing.Calculate(seats, input.SpecialServices, locked.Pricing)
		booking.Pricing = quote.Breakdown()

		locked.BookingDetails.TotalBookings++
		locked.BookingDetails.Revenue += quote.TotalAmount
		return nil
	})
	if err != nil {
		s.releaseSeats(ctx, input.FlightID, held)
		if repository.IsUniqueViolation(err) {
			return nil, domain.Wrap(domain.KindInternal, "Error creating booking", err)
		}
		return nil, err
	}

	s.notify(ctx, booking, flight, kafka.EventBookingConfirmed, 0)
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, userID, ref, reason string) (int64, error) {
	if reason == "" {
		reason = "Cancelled by user"
	}

	now := s.now()
	var cancelled *domain.Booking
	var flightCopy *domain.Flight

	_, err := s.bookings.UpdateWithFlight(ctx, ref, func(b *domain.Booking, f *domain.Flight) error {
		if b.UserID != userID {
			return domain.E(domain.KindForbidden, "Access denied")
		}
		if b.Status == domain.BookingStatusCancelled {
			return domain.E(domain.KindConflict, "Booking is already cancelled")
		}
		if !b.CanBeCancelled(f.Route.Departure.Time, now) {
			return domain.E(domain.KindConflict, "Booking cannot be cancelled. Flight is too close to departure time.")
		}

		refund := pricing.Refund(b.Pricing.TotalAmount)
		b.Status = domain.BookingStatusCancelled
		b.Cancellation = &domain.Cancellation{
			CancelledAt:  now,
			CancelledBy:  userID,
			Reason:       reason,
			RefundAmount: refund,
			RefundStatus: domain.RefundStatusPending,
		}

		for _, p := range b.Passengers {
			if _, err := f.SeatMap.Release(p.SeatNumber); err != nil {
				continue // seat map may have been regenerated; nothing to release
			}
			f.Pricing.AdjustAvailable(p.SeatClass, 1)
		}

		f.BookingDetails.TotalBookings = max(0, f.BookingDetails.TotalBookings-1)
		f.BookingDetails.Revenue = max(0, f.BookingDetails.Revenue-b.Pricing.TotalAmount)

		cancelled = b
		flightCopy = f
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.notify(ctx, cancelled, flightCopy, kafka.EventBookingCancelled, cancelled.Cancellation.RefundAmount)
	return cancelled.Cancellation.RefundAmount, nil
}

func (s *BookingService) CheckIn(ctx context.Context, userID, ref string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.E(domain.KindForbidden, "Access denied")
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, domain.E(domain.KindConflict, "Cannot check-in for this booking")
	}
	if booking.CheckIn.IsCheckedIn {
		return nil, domain.E(domain.KindConflict, "Already checked in")
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	untilDeparture := flight.Route.Departure.Time.Sub(now)
	if untilDeparture > domain.CheckInWindow {
		return nil, domain.E(domain.KindConflict, "Check-in opens 24 hours before departure")
	}
	if untilDeparture < 0 {
		return nil, domain.E(domain.KindConflict, "Flight has already departed")
	}

	booking.CheckIn.IsCheckedIn = true
	booking.CheckIn.CheckInTime = &now
	booking.CheckIn.BoardingPass = domain.BoardingPass{
		IsGenerated: true,
		QRCode:      s.boarding.Payload(booking, flight.FlightNumber, now),
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID string, role domain.Role, ref string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID && role != domain.RoleAdmin {
		return nil, domain.E(domain.KindForbidden, "Access denied")
	}
	return booking, nil
}

func (s *BookingService) ListMyBookings(ctx context.Context, userID string, filter repository.BookingListFilter) (*BookingPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	bookings, total, err := s.bookings.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &BookingPage{
		Bookings: bookings,
		Pagination: Pagination{
			CurrentPage:   filter.Page,
			TotalPages:    totalPages,
			TotalBookings: total,
			HasNext:       (filter.Page-1)*filter.Limit+len(bookings) < total,
			HasPrev:       filter.Page > 1,
		},
	}, nil
}

func (s *BookingService) SearchByPNR(ctx context.Context, pnr string) (*PublicBooking, error) {
	pnr = strings.TrimSpace(pnr)
	if len(pnr) != 6 {
		return nil, domain.E(domain.KindValidation, "Invalid PNR format")
	}

	booking, err := s.bookings.GetByPNR(ctx, strings.ToUpper(pnr))
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}

	public := &PublicBooking{
		BookingID: booking.BookingID,
		PNR:       booking.PNR,
		Status:    booking.Status,
		Flight: PublicFlight{
			FlightNumber: flight.FlightNumber,
			Airline:      flight.Airline.Name,
			Route:        flight.Route,
			Status:       flight.Status,
		},
		CheckIn: booking.CheckIn,
	}
	for _, p := range booking.Passengers {
		public.Passengers = append(public.Passengers, PublicPassenger{
			Name:       p.DisplayName(),
			SeatNumber: p.SeatNumber,
			SeatClass:  p.SeatClass,
		})
	}
	return public, nil
}

func (s *BookingService) BoardingPassPDF(ctx context.Context, userID, ref string) ([]byte, error) {
	booking, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.E(domain.KindForbidden, "Access denied")
	}
	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}
	return s.boarding.RenderPDF(booking, flight)
}

// holdSeats takes a short-lived Redis hold on every requested seat, fencing
// concurrent attempts on the same seats before the transaction starts. On
// any failure every acquired hold is released and the whole request fails.
func (s *BookingService) holdSeats(ctx context.Context, flightID string, seatNumbers []string) ([]string, error) {
	if s.cache == nil {
		return nil, nil
	}

	held := make([]string, 0, len(seatNumbers))
	for _, seatNumber := range seatNumbers {
		ok, err := s.cache.AcquireSeatHold(ctx, flightID, seatNumber, s.seatHoldTTL)
		if err != nil {
			s.releaseSeats(ctx, flightID, held)
			return nil, fmt.Errorf("acquire seat hold: %w", err)
		}
		if !ok {
			s.releaseSeats(ctx, flightID, held)
			return nil, domain.Ef(domain.KindConflict, "Seat %s is not available", seatNumber)
		}
		held = append(held, seatNumber)
	}
	return held, nil
}

func (s *BookingService) releaseSeats(ctx context.Context, flightID string, seatNumbers []string) {
	if s.cache == nil {
		return
	}
	for _, seatNumber := range seatNumbers {
		_ = s.cache.ReleaseSeatHold(ctx, flightID, seatNumber)
	}
}

// notify publishes the booking event best-effort. A failed publish is
// logged and stored on the booking, never surfaced to the caller.
func (s *BookingService) notify(ctx context.Context, b *domain.Booking, f *domain.Flight, eventType string, refund int64) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}

	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    b.BookingID,
		PNR:          b.PNR,
		Email:        b.ContactDetails.Email,
		FlightNumber: f.FlightNumber,
		From:         f.Route.Departure.Airport.Code,
		To:           f.Route.Arrival.Airport.Code,
		Departure:    f.Route.Departure.Time,
		Passengers:   len(b.Passengers),
		TotalAmount:  b.Pricing.TotalAmount,
		RefundAmount: refund,
	}

	if err := s.producer.Publish(ctx, s.notificationsTopic, b.BookingID, event); err != nil {
		log.Printf("failed to publish %s event for booking %s: %v", eventType, b.BookingID, err)
		b.Notifications.EmailSent = false
		return
	}

	b.Notifications.EmailSent = true
	if err := s.bookings.Update(ctx, b); err != nil {
		log.Printf("failed to record notification flag for booking %s: %v", b.BookingID, err)
	}
}

func newTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN%d%s", now.UnixMilli(), domain.NewPNR())
}

var _ BookingUseCase = (*BookingService)(nil)
