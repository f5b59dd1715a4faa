package domain

import (
	"math"
	"time"
)

// BookingStatus enumerates order lifecycle states.
type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

// Booking is a buyer's request to order a quantity of a product.
type Booking struct {
	ID              string        `json:"id"`
	ProductID       int64         `json:"product_id"`
	ProductName     string        `json:"product_name"`
	UserID          string        `json:"user_id"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	Quantity        int           `json:"quantity"`
	UnitPrice       float64       `json:"unit_price"`
	TotalPrice      float64       `json:"total_price"`
	ContactNumber   string        `json:"contact_number"`
	DeliveryAddress string        `json:"delivery_address"`
	Notes           string        `json:"notes,omitempty"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TotalPrice returns unit price times quantity rounded to cents. Negative
// quantities count as zero.
func TotalPrice(unitPrice float64, quantity int) float64 {
	if quantity <= 0 {
		return 0
	}
	return math.Round(unitPrice*float64(quantity)*100) / 100
}
