package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// ReceiptQR encodes a link to the receipt page so the customer can keep a copy.
type ReceiptQR struct {
	BaseURL string
}

func (g ReceiptQR) Link(receiptID string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(g.BaseURL, "/"), url.PathEscape(receiptID))
}

func (g ReceiptQR) Generate(receiptID string) ([]byte, error) {
	return qrcode.Encode(g.Link(receiptID), qrcode.Medium, 256)
}
