// Seeds the database with an admin account, a sample customer and a set of
// sample flights. Safe to re-run: existing records are left alone.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"flightbooking/config"
	"flightbooking/internal/auth"
	"flightbooking/internal/domain"
	"flightbooking/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	flights := repository.NewFlightRepository(pool)

	seedUser(ctx, users, "admin", "admin@flights.com", "admin-change-me", domain.RoleAdmin)
	seedUser(ctx, users, "testuser", "user@example.com", "password123", domain.RoleUser)

	existing, err := flights.List(ctx)
	if err != nil {
		log.Fatalf("list flights: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("flights already seeded (%d found)", len(existing))
		return
	}

	for _, f := range sampleFlights(time.Now()) {
		if err := flights.Create(ctx, f); err != nil {
			log.Fatalf("create flight %s: %v", f.FlightNumber, err)
		}
		log.Printf("created flight %s", f.FlightNumber)
	}

	log.Println("database initialization complete")
}

func seedUser(ctx context.Context, users repository.UserRepository, username, emailAddr, password string, role domain.Role) {
	if _, err := users.GetByEmail(ctx, emailAddr); err == nil {
		return
	} else {
		var de *domain.Error
		if !errors.As(err, &de) || de.Kind != domain.KindNotFound {
			log.Fatalf("lookup user %s: %v", emailAddr, err)
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        emailAddr,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("create user %s: %v", emailAddr, err)
	}
	log.Printf("created %s user %s", role, emailAddr)
}

func sampleFlights(now time.Time) []*domain.Flight {
	day := 24 * time.Hour

	build := func(number string, airline domain.Airline, aircraft domain.Aircraft,
		from, to domain.Airport, fromTerminal, toTerminal string,
		departs time.Time, durationMin int, pricing domain.Pricing, layout string, rows int) *domain.Flight {
		return &domain.Flight{
			ID:           uuid.NewString(),
			FlightNumber: number,
			Airline:      airline,
			Aircraft:     aircraft,
			Route: domain.Route{
				Departure: domain.RouteStop{Airport: from, Time: departs, Terminal: fromTerminal},
				Arrival:   domain.RouteStop{Airport: to, Time: departs.Add(time.Duration(durationMin) * time.Minute), Terminal: toTerminal},
			},
			DurationMin: durationMin,
			Pricing:     pricing,
			SeatMap:     domain.GenerateSeatMap(layout, rows, pricing),
			Status:      domain.FlightStatusScheduled,
			IsActive:    true,
		}
	}

	return []*domain.Flight{
		build("SW101",
			domain.Airline{Name: "SkyWings", Code: "SW"},
			domain.Aircraft{Model: "Boeing 737-800", TotalSeats: 180},
			domain.Airport{Code: "JFK", Name: "John F. Kennedy International", City: "New York", Country: "USA"},
			domain.Airport{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "USA"},
			"Terminal 4", "Terminal 3",
			now.Add(day), 360,
			domain.Pricing{
				Economy:    domain.ClassPricing{Price: 299, AvailableSeats: 120},
				Business:   domain.ClassPricing{Price: 799, AvailableSeats: 20},
				FirstClass: domain.ClassPricing{Price: 1299, AvailableSeats: 8},
			},
			"3-3", 25),
		build("AF205",
			domain.Airline{Name: "AeroFly", Code: "AF"},
			domain.Aircraft{Model: "Airbus A320-200", TotalSeats: 164},
			domain.Airport{Code: "ORD", Name: "Chicago O'Hare International", City: "Chicago", Country: "USA"},
			domain.Airport{Code: "MIA", Name: "Miami International Airport", City: "Miami", Country: "USA"},
			"Terminal 1", "Terminal 2",
			now.Add(2*day), 180,
			domain.Pricing{
				Economy:  domain.ClassPricing{Price: 189, AvailableSeats: 100},
				Business: domain.ClassPricing{Price: 599, AvailableSeats: 15},
			},
			"3-3", 20),
		build("CJ301",
			domain.Airline{Name: "CloudJet", Code: "CJ"},
			domain.Aircraft{Model: "Boeing 787-9", TotalSeats: 292},
			domain.Airport{Code: "SFO", Name: "San Francisco International", City: "San Francisco", Country: "USA"},
			domain.Airport{Code: "SEA", Name: "Seattle-Tacoma International", City: "Seattle", Country: "USA"},
			"Terminal 3", "Main Terminal",
			now.Add(3*day), 120,
			domain.Pricing{
				Economy:    domain.ClassPricing{Price: 149, AvailableSeats: 200},
				Business:   domain.ClassPricing{Price: 449, AvailableSeats: 30},
				FirstClass: domain.ClassPricing{Price: 899, AvailableSeats: 10},
			},
			"3-4-3", 30),
		build("BA456",
			domain.Airline{Name: "BlueAir", Code: "BA"},
			domain.Aircraft{Model: "Airbus A330-300", TotalSeats: 250},
			domain.Airport{Code: "BOS", Name: "Boston Logan International", City: "Boston", Country: "USA"},
			domain.Airport{Code: "DEN", Name: "Denver International Airport", City: "Denver", Country: "USA"},
			"Terminal A", "Terminal B",
			now.Add(4*day), 240,
			domain.Pricing{
				Economy:    domain.ClassPricing{Price: 249, AvailableSeats: 150},
				Business:   domain.ClassPricing{Price: 649, AvailableSeats: 25},
				FirstClass: domain.ClassPricing{Price: 1199, AvailableSeats: 12},
			},
			"2-4-2", 28),
	}
}
