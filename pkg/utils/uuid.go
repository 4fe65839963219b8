package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	// Convert to lowercase
	s = strings.ToLower(s)

	// Replace spaces with hyphens
	s = strings.ReplaceAll(s, " ", "-")

	// Remove non-alphanumeric characters except hyphens
	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	// Remove multiple consecutive hyphens
	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	// Trim hyphens from start and end
	s = strings.Trim(s, "-")

	return s
}

// GenerateReceiptNo generates a unique receipt number
func GenerateReceiptNo() string {
	return "RCT-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateOrderNo generates a unique supply order number
func GenerateOrderNo() string {
	return "SUP-" + strings.ToUpper(uuid.New().String()[:8])
}

// GeneratePaymentNo generates a unique supplier payment number
func GeneratePaymentNo() string {
	return "PAY-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateBookCode generates a unique book code
func GenerateBookCode() string {
	return "BK-" + strings.ToUpper(uuid.New().String()[:8])
}
