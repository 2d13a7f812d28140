// Package boardingpass renders boarding passes for checked-in bookings:
// an HMAC-signed QR payload, its PNG encoding, and a downloadable PDF.
package boardingpass

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"flightbooking/internal/domain"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

type Generator struct {
	key []byte
}

func NewGenerator(key string) *Generator {
	return &Generator{key: []byte(key)}
}

// Payload builds the signed QR payload string:
// pnr|bookingID|flightNumber|timestamp|signature. Gate scanners verify the
// signature with the shared key.
func (g *Generator) Payload(b *domain.Booking, flightNumber string, now time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%d", b.PNR, b.BookingID, flightNumber, now.Unix())
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return data + "|" + sig
}

// Verify checks a scanned payload's signature.
func (g *Generator) Verify(payload string) bool {
	idx := strings.LastIndexByte(payload, '|')
	if idx < 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

// RenderPDF produces the printable boarding pass with the QR embedded.
func (g *Generator) RenderPDF(b *domain.Booking, flight *domain.Flight) ([]byte, error) {
	if !b.CheckIn.IsCheckedIn || b.CheckIn.BoardingPass.QRCode == "" {
		return nil, domain.E(domain.KindConflict, "booking is not checked in")
	}

	qrPNG, err := qrcode.Encode(b.CheckIn.BoardingPass.QRCode, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Boarding Pass")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Flight: %s (%s)", flight.FlightNumber, flight.Airline.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Route: %s - %s", flight.Route.Departure.Airport.Code, flight.Route.Arrival.Airport.Code))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Departure: %s", flight.Route.Departure.Time.Format("02 Jan 2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("PNR: %s", b.PNR))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, p := range b.Passengers {
		pdf.Cell(0, 8, fmt.Sprintf("%s  seat %s (%s)", p.DisplayName(), p.SeatNumber, p.SeatClass))
		pdf.Ln(6)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
