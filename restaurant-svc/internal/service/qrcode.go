package service

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes the customer's order tracking page.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) TrackingURL(orderID string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/orders/" + orderID
}

func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	return qrcode.Encode(g.TrackingURL(orderID), qrcode.Medium, 256)
}
