package ordertoken

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/lithammer/shortuuid/v4"
)

// Alphabet without easily confused characters (0/O, 1/I/L), so codes
// survive being read out loud over the phone.
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const pickupTokenLength = 12

// NewPickupToken generates the QR payload the seller hands to the courier.
func NewPickupToken() string {
	uuid := shortuuid.NewWithAlphabet(alphabet)

	return fmt.Sprintf("PU-%s", uuid[:pickupTokenLength])
}

// NewDeliveryCode generates the 6-digit code the buyer reads to the courier
// at the door. A QR scan carries the same code.
func NewDeliveryCode() (string, error) {
	maxInt := big.NewInt(999999)
	minInt := big.NewInt(100000)
	// rand.Int draws from [0, diff), so add one to keep 999999 reachable.
	diff := new(big.Int).Sub(maxInt, minInt)
	diff.Add(diff, big.NewInt(1))

	n, err := rand.Int(rand.Reader, diff)
	if err != nil {
		return "", err
	}

	n.Add(n, minInt)
	return n.String(), nil
}
