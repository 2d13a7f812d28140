package domain

import "fmt"

type SeatPosition struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
}

type Seat struct {
	SeatNumber  string       `json:"seatNumber"`
	Class       SeatClass    `json:"class"`
	Price       int64        `json:"price"`
	IsAvailable bool         `json:"isAvailable"`
	IsBlocked   bool         `json:"isBlocked"`
	Position    SeatPosition `json:"position"`
	Features    []string     `json:"features,omitempty"`
}

// Bookable reports whether the seat can be sold right now.
func (s *Seat) Bookable() bool {
	return s.IsAvailable && !s.IsBlocked
}

type SeatMap struct {
	Layout string `json:"layout"`
	Rows   int    `json:"rows"`
	Seats  []Seat `json:"seats"`
}

// Find returns the seat with the given number.
func (m *SeatMap) Find(seatNumber string) (*Seat, error) {
	for i := range m.Seats {
		if m.Seats[i].SeatNumber == seatNumber {
			return &m.Seats[i], nil
		}
	}
	return nil, Ef(KindNotFound, "seat %s does not exist", seatNumber)
}

// Reserve marks a seat unavailable. It fails if the seat is missing, blocked
// or already taken. The caller adjusts the per-class availability counter.
func (m *SeatMap) Reserve(seatNumber string) (*Seat, error) {
	seat, err := m.Find(seatNumber)
	if err != nil {
		return nil, err
	}
	if !seat.Bookable() {
		return nil, Ef(KindConflict, "seat %s is not available", seatNumber)
	}
	seat.IsAvailable = false
	return seat, nil
}

// Release marks a seat available again. Releasing an already-available seat
// is a no-op flag flip; the caller restores the per-class counter.
func (m *SeatMap) Release(seatNumber string) (*Seat, error) {
	seat, err := m.Find(seatNumber)
	if err != nil {
		return nil, err
	}
	seat.IsAvailable = true
	return seat, nil
}

func seatColumns(layout string) []string {
	switch layout {
	case "3-3":
		return []string{"A", "B", "C", "D", "E", "F"}
	case "3-4-3":
		return []string{"A", "B", "C", "D", "E", "F", "G", "H", "J", "K"}
	case "2-4-2":
		return []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	default: // 2-3-2
		return []string{"A", "B", "C", "D", "E", "F", "G"}
	}
}

// GenerateSeatMap builds the fixed seat inventory for a cabin layout. Rows
// 1-3 are first class and rows 4-8 business, each only when the pricing
// table carries a fare for that class; everything else is economy. Window,
// aisle and extra-legroom feature tags are derived from position.
func GenerateSeatMap(layout string, rows int, pricing Pricing) SeatMap {
	columns := seatColumns(layout)
	seats := make([]Seat, 0, rows*len(columns))

	for row := 1; row <= rows; row++ {
		for idx, col := range columns {
			class := ClassEconomy
			price := pricing.Economy.Price
			var features []string

			if row <= 3 && pricing.FirstClass.Price > 0 {
				class = ClassFirst
				price = pricing.FirstClass.Price
				features = append(features, "first-class")
			} else if row <= 8 && pricing.Business.Price > 0 {
				class = ClassBusiness
				price = pricing.Business.Price
				features = append(features, "business-class")
			}

			if idx == 0 || idx == len(columns)-1 {
				features = append(features, "window")
			}
			if layout == "3-3" && (idx == 2 || idx == 3) {
				features = append(features, "aisle")
			}
			if row <= 3 {
				features = append(features, "extra-legroom")
			}

			seats = append(seats, Seat{
				SeatNumber:  fmt.Sprintf("%d%s", row, col),
				Class:       class,
				Price:       price,
				IsAvailable: true,
				Position:    SeatPosition{Row: row, Column: col},
				Features:    features,
			})
		}
	}

	return SeatMap{Layout: layout, Rows: rows, Seats: seats}
}
