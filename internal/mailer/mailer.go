package mailer

import (
	"context"
	"time"
)

const (
	senderEmailName    = "GoGoMarket"
	senderEmailAddress = "gogomarket.noreply@gmail.com"
)

type EmailHeader struct {
	Subject string
	To      []string
}

type EmailSender interface {
	SendOTP(header EmailHeader) (code string, createdAt time.Time, expiresAt time.Time, err error)
	VerifyOTP(ctx context.Context, email string, code string) (bool, error)
}
