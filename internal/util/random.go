package util

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gosimple/slug"
	"github.com/lithammer/shortuuid/v4"
)

func GenerateRandomSlug(name string) string {
	baseSlug := slug.Make(name)
	shortID := shortuuid.New()[:8]

	return fmt.Sprintf("%s-%s", baseSlug, shortID)
}

// GeneratePaymentReference builds a gateway transaction reference
// in the yymmdd_orderID format the gateway expects.
func GeneratePaymentReference() string {
	now := time.Now()

	datePrefix := now.Format("060102")

	orderID := fmt.Sprintf("%d%s", now.UnixNano()%100000,
		randomString(5))

	return fmt.Sprintf("%s_%s", datePrefix, orderID)
}

func randomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
