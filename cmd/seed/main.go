package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"travelbook/internal/database"
	"travelbook/internal/domain"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "travelbook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Message{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		ID:           uuid.NewString(),
		Email:        "admin@travelbook.io",
		PasswordHash: string(adminHash),
		FullName:     "Platform Admin",
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@travelbook.io / admin123")

	salesHash, _ := bcrypt.GenerateFromPassword([]byte("sales123"), bcrypt.DefaultCost)
	sales := domain.User{
		ID:           uuid.NewString(),
		Email:        "sales@travelbook.io",
		PasswordHash: string(salesHash),
		FullName:     "Property Sales",
		Role:         domain.RolePropertySales,
	}
	db.Create(&sales)
	log.Println("Sales created: sales@travelbook.io / sales123")

	travelers := []domain.User{}
	travelerEmails := []string{"asel@mail.kz", "bekzat@gmail.com", "dina@yandex.kz"}
	for i, email := range travelerEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("travel123"), bcrypt.DefaultCost)
		traveler := domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: string(hash),
			FullName:     fmt.Sprintf("Traveler %d", i+1),
			Role:         domain.RoleTraveler,
			Phone:        fmt.Sprintf("+7 777 123 45%02d", i+67),
		}
		db.Create(&traveler)
		travelers = append(travelers, traveler)
	}
	log.Printf("Created %d travelers (password: travel123)", len(travelers))

	// ================== PROPERTIES ==================
	log.Println("Creating properties...")

	properties := []struct {
		name     string
		location string
		rooms    []domain.Room
	}{
		{
			name:     "Almaty Grand Hotel",
			location: "Dostyk Ave 52, Almaty",
			rooms: []domain.Room{
				{Name: "Standard Twin", MaxOccupancy: 2, BaseRate: 25000},
				{Name: "Deluxe King", MaxOccupancy: 3, BaseRate: 42000},
				{Name: "Family Suite", MaxOccupancy: 5, BaseRate: 68000},
			},
		},
		{
			name:     "Astana Riverside Apartments",
			location: "Turan Ave 18, Astana",
			rooms: []domain.Room{
				{Name: "Studio", MaxOccupancy: 2, BaseRate: 18000},
				{Name: "Two Bedroom", MaxOccupancy: 4, BaseRate: 34000},
			},
		},
		{
			name:     "Shymbulak Mountain Lodge",
			location: "Shymbulak Resort, Almaty",
			rooms: []domain.Room{
				{Name: "Alpine Double", MaxOccupancy: 2, BaseRate: 30000},
				{Name: "Panorama Suite", MaxOccupancy: 4, BaseRate: 55000},
			},
		},
	}

	for _, p := range properties {
		property := domain.Property{
			ID:          uuid.NewString(),
			Name:        p.name,
			Location:    p.location,
			Description: fmt.Sprintf("%s at %s", p.name, p.location),
		}
		db.Create(&property)

		for _, r := range p.rooms {
			room := r
			room.ID = uuid.NewString()
			room.PropertyID = property.ID
			db.Create(&room)
		}
		log.Printf("Property created: %s (%d rooms)", p.name, len(p.rooms))
	}

	// ================== SAMPLE BOOKING ==================
	log.Println("Creating a sample booking...")

	var room domain.Room
	db.First(&room)

	checkIn := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	booking := domain.Booking{
		ID:            uuid.NewString(),
		UserID:        travelers[0].ID,
		PropertyID:    room.PropertyID,
		RoomID:        room.ID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 3),
		Guests:        2,
		TotalAmount:   3 * room.BaseRate,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	}
	db.Create(&booking)

	log.Println("Seed finished.")
}
