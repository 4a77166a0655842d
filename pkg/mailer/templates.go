package mailer

import (
	"fmt"
	"time"
)

// OTPEmail renders the verification code email.
func OTPEmail(code string, expiry time.Duration) (subject, html string) {
	subject = "Your verification code"
	html = fmt.Sprintf(`<p>Your verification code is:</p>
<h2 style="letter-spacing: 4px;">%s</h2>
<p>The code expires in %d minutes. If you did not request it, ignore this email.</p>`,
		code, int(expiry.Minutes()))
	return subject, html
}

// ReminderEmail renders the one-hour-before event reminder.
func ReminderEmail(eventTitle, location string, startsAt time.Time) (subject, html string) {
	subject = fmt.Sprintf("Reminder: %s starts soon", eventTitle)
	html = fmt.Sprintf(`<p>Your event <strong>%s</strong> starts at %s.</p>
<p>Location: %s</p>
<p>See you there!</p>`,
		eventTitle, startsAt.Format("15:04 MST, Jan 2"), location)
	return subject, html
}

// FollowupEmail renders the thank-you note sent an hour after enrollment.
func FollowupEmail(eventTitle string) (subject, html string) {
	subject = fmt.Sprintf("Thanks for joining %s", eventTitle)
	html = fmt.Sprintf(`<p>Thanks for enrolling in <strong>%s</strong>!</p>
<p>We are glad to have you. You can manage your enrollments any time from your account.</p>`,
		eventTitle)
	return subject, html
}
