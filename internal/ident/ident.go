// Package ident generates the customer-facing order identifiers: the
// 6-digit delivery OTP and the human-readable order code.
package ident

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// OTP returns a 6-digit one-time code used to confirm delivery.
func OTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken;
		// nothing sensible to fall back to.
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// OrderCode builds the ORD-<id>-<RAND6> identifier shown to customers
// and delivery staff, where RAND6 is 6 uppercase alphanumerics.
func OrderCode(orderID int64) string {
	buf := make([]byte, 6)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%d-%s", orderID, buf)
}
