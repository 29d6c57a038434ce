package util

import (
	"fmt"

	"github.com/lithammer/shortuuid/v4"
)

const (
	alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// GenerateOrderNumber generates a unique order number in the format "GGM-XXXXXXXXXX".
func GenerateOrderNumber() string {
	uuid := shortuuid.NewWithAlphabet(alphabet)

	return fmt.Sprintf("GGM-%s", uuid[:10])
}
