package utils

import (
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// NewTicketCode returns a unique opaque ticket identifier. The
// value is what gets encoded into the ticket QR and looked up at
// check-in; it carries no embedded meaning.
func NewTicketCode() string {
	return uuid.NewString()
}

// TicketQR renders a ticket code as a PNG QR image of the given
// pixel size.
func TicketQR(code string, size int) ([]byte, error) {
	return qrcode.Encode(code, qrcode.Medium, size)
}
