package utils

import (
	"fmt"
	"html"
)

func emailTemplate(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: 'Noto Sans Bengali', Arial, sans-serif; background-color: #F4F1EA; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden;">
		<div style="background-color: #1F4D3A; padding: 24px; text-align: center;">
			<h1 style="color: #FFFFFF; margin: 0; font-size: 22px;">Madrasa</h1>
		</div>
		<div style="padding: 32px 28px; color: #1F2A24; line-height: 1.6;">
			<h2 style="margin-top: 0;">%s</h2>
			%s
		</div>
	</div>
</body>
</html>`, html.EscapeString(title), body)
}

// deliver sends in the caller's goroutine; callers run it with go. Failures are reported, never returned.
func deliver(to, name, subject, body string) {
	if err := Mail.Send(to, name, subject, emailTemplate(subject, body)); err != nil {
		ReportError(err, map[string]interface{}{"to": to, "subject": subject})
	}
}

// SendRetakeReviewedEmail tells a student how their retake request was decided
func SendRetakeReviewedEmail(email, name, examTitle string, approved bool) {
	verdict := "rejected"
	if approved {
		verdict = "approved. You may now attempt the exam again"
	}
	body := fmt.Sprintf("<p>Dear %s,</p><p>Your retake request for <b>%s</b> was %s.</p>",
		html.EscapeString(name), html.EscapeString(examTitle), verdict)
	deliver(email, name, "Exam retake request reviewed", body)
}

// SendGenderChangeReviewedEmail tells a student how their gender change request was decided
func SendGenderChangeReviewedEmail(email, name string, approved bool) {
	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	body := fmt.Sprintf("<p>Dear %s,</p><p>Your profile change request was %s.</p>", html.EscapeString(name), verdict)
	deliver(email, name, "Profile change request reviewed", body)
}

// SendCertificateEmail sends certificate notification email
func SendCertificateEmail(email, name, courseTitle, certificateNumber, url string) {
	link := ""
	if url != "" {
		link = fmt.Sprintf(`<p><a href="%s">Download your certificate</a></p>`, html.EscapeString(url))
	}
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Congratulations on completing <b>%s</b>.</p><p>Certificate number: <b>%s</b></p>%s",
		html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(certificateNumber), link,
	)
	deliver(email, name, "Certificate of Completion", body)
}
