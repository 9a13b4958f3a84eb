package utils

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// ErrDelivery wraps every mail transport failure so callers can decide
// whether a failed send is fatal to the surrounding flow.
var ErrDelivery = errors.New("mailer: delivery failed")

const otpEmailBody = `<p style="font-size: 18px;">Your password reset code is:</p>
	<p style="font-size: 24px; font-weight: bold;">%s</p>
	<p style="font-size: 18px;">The code is valid for <span style="font-weight: bold;">10 minutes</span>. If you did not request a reset, ignore this email.</p>`

// SendOTPEmail renders the reset template around the code and dispatches it
// over SMTP. It persists nothing; storing the OTP record is the caller's job.
func SendOTPEmail(to, otp string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")

	auth := smtp.PlainAuth("", user, password, host)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: RoomLink <%s>\r\n", user))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString("Subject: Your RoomLink password reset code\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf(otpEmailBody, otp))

	err := smtp.SendMail(host+":"+port, auth, user, []string{to}, []byte(msg.String()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}
