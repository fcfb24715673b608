// Package mailer implements the notification collaborator consumed by the
// authcore engine: an SMTP sender plus the OTP email body template.
//
// Sending is fire-and-forget from the engine's point of view (a failed
// delivery is logged upstream and never invalidates the stored code), so
// implementations here only need to report the error, not retry.
//
// # What this package must NOT do
//
//   - Import authcore (the Mailer interface is satisfied structurally).
//   - Log message bodies; they contain live verification codes.
package mailer
