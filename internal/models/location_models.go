package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// QRCodePrefix is the fixed prefix of every location QR token.
// A location's token is QRCodePrefix followed by its numeric id.
const QRCodePrefix = "location:"

// ErrMalformedQRCode is returned when a scanned token does not carry the
// expected prefix or a parsable location id.
var ErrMalformedQRCode = errors.New("malformed QR code token")

// Location represents a work site employees clock in at.
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Radius    float64   `json:"radius" db:"radius"` // meters
	QRCode    string    `json:"qr_code" db:"qr_code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// QRCodeForLocation derives the opaque QR token for a location id.
func QRCodeForLocation(id int64) string {
	return QRCodePrefix + strconv.FormatInt(id, 10)
}

// ParseLocationQRCode extracts the location id from a scanned QR token.
func ParseLocationQRCode(token string) (int64, error) {
	if !strings.HasPrefix(token, QRCodePrefix) {
		return 0, ErrMalformedQRCode
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(token, QRCodePrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformedQRCode
	}
	return id, nil
}
