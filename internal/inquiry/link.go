package inquiry

import (
	"net/url"
	"strings"
)

const waBaseURL = "https://wa.me/"

// NormalizePhone keeps the digits of a WhatsApp number and rewrites a local
// leading 0 to the Indonesian country code.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") {
		digits = "62" + digits[1:]
	}
	return digits
}

// Message is the prefilled chat text for a product question.
func Message(productName, sku string) string {
	name := strings.TrimSpace(productName)
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return "Halo Optima, saya mau tanya stok " + name + "."
	}
	return "Halo Optima, saya mau tanya stok " + name + " (SKU: " + sku + ")."
}

// BuildLink returns the wa.me deep link that opens a chat with the store.
func BuildLink(phone, productName, sku string) string {
	return waBaseURL + NormalizePhone(phone) + "?text=" + escapeText(Message(productName, sku))
}

// escapeText percent-encodes a query value with spaces as %20.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
