package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>OTP Verification</title></head>
<body style="margin:0;padding:0;background-color:#f5f7fa;font-family:'Segoe UI',Tahoma,sans-serif;color:#333;">
  <table align="center" cellpadding="0" cellspacing="0" width="100%" style="max-width:600px;margin:0 auto;padding:20px;">
    <tr><td>
      <table width="100%" cellpadding="0" cellspacing="0" style="background-color:#fff;border-radius:16px;padding:40px;">
        <tr><td align="center" style="padding-bottom:30px;">
          <h1 style="margin:0;font-size:26px;color:#3182ce;">OTP Verification</h1>
        </td></tr>
        <tr><td style="font-size:16px;padding-bottom:20px;">
          Hello <strong style="color:#3182ce;">{{.FirstName}}</strong>,
        </td></tr>
        <tr><td style="font-size:16px;">
          Use the following one-time password to verify your identity:
        </td></tr>
        <tr><td align="center" style="padding:30px 0;">
          <div style="font-size:36px;font-weight:bold;letter-spacing:8px;font-family:'Courier New',monospace;color:#3182ce;background-color:#f0f4f8;padding:20px 30px;border-radius:10px;border:1px dashed #cbd5e0;">{{.Code}}</div>
        </td></tr>
        <tr><td style="background-color:#fffaf0;border-left:4px solid #dd6b20;padding:16px;border-radius:8px;font-size:14px;">
          <strong>Note:</strong> This code is valid for <strong style="color:#3182ce;">{{.Validity}}</strong>. Do not share it with anyone.
        </td></tr>
        <tr><td style="font-size:14px;padding-top:20px;">
          If you did not request this code, you can safely ignore this email.
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

// OTPEmail renders the verification email body. An empty firstName falls back
// to a neutral greeting.
func OTPEmail(firstName, code string, validity time.Duration) string {
	if firstName == "" {
		firstName = "User"
	}

	minutes := int(validity.Round(time.Minute) / time.Minute)
	validityText := fmt.Sprintf("%d minutes", minutes)
	if minutes <= 1 {
		validityText = "1 minute"
	}

	var b strings.Builder
	err := otpTemplate.Execute(&b, struct {
		FirstName string
		Code      string
		Validity  string
	}{FirstName: firstName, Code: code, Validity: validityText})
	if err != nil {
		// Template and data are static; an execute failure is a programming
		// error. Fall back to a minimal plain body rather than panic.
		return fmt.Sprintf("Hello %s, your verification code is %s (valid %s).", firstName, code, validityText)
	}
	return b.String()
}
