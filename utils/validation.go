package utils

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,14}$`)
	otpPattern   = regexp.MustCompile(`^[0-9]{6}$`)
)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

func ValidOTP(otp string) bool {
	return otpPattern.MatchString(strings.TrimSpace(otp))
}
