package ident

import (
	"regexp"
	"testing"
)

func TestOTP_SixDigits(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 100; i++ {
		otp := OTP()
		if !re.MatchString(otp) {
			t.Fatalf("OTP() = %q, want 6 digits", otp)
		}
	}
}

func TestOrderCode_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-42-[A-Z0-9]{6}$`)
	for i := 0; i < 100; i++ {
		code := OrderCode(42)
		if !re.MatchString(code) {
			t.Fatalf("OrderCode(42) = %q, want ORD-42-<6 uppercase alphanumerics>", code)
		}
	}
}
