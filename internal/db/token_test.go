package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOrderTokenConsume(t *testing.T) {
	now := time.Now()

	tok := OrderToken{
		ID:       1,
		OrderID:  uuid.New(),
		Kind:     OrderTokenKindDelivery,
		Code:     "482913",
		IssuedAt: now.Add(-time.Hour),
	}

	err := tok.Consume("482913", now)
	require.NoError(t, err)
	require.NotNil(t, tok.ConsumedAt)
	require.Equal(t, now, *tok.ConsumedAt)
}

func TestOrderTokenConsumeWrongCode(t *testing.T) {
	tok := OrderToken{
		Kind: OrderTokenKindPickup,
		Code: "PU-ABCDEF234567",
	}

	err := tok.Consume("PU-WRONGCODE23", time.Now())
	require.ErrorIs(t, err, ErrTokenMismatch)
	require.Nil(t, tok.ConsumedAt)
}

func TestOrderTokenConsumeTwice(t *testing.T) {
	tok := OrderToken{
		Kind: OrderTokenKindDelivery,
		Code: "482913",
	}

	require.NoError(t, tok.Consume("482913", time.Now()))

	err := tok.Consume("482913", time.Now())
	require.ErrorIs(t, err, ErrTokenAlreadyConsumed)
}

func TestOrderTokenWrongCodeAfterConsume(t *testing.T) {
	// The mismatch error wins over the already-consumed error, so a scan
	// with a stale code never reveals whether the token was used.
	tok := OrderToken{
		Kind: OrderTokenKindDelivery,
		Code: "482913",
	}

	require.NoError(t, tok.Consume("482913", time.Now()))
	require.ErrorIs(t, tok.Consume("000000", time.Now()), ErrTokenMismatch)
}
