package services

import (
	"bytes"
	"fmt"
	"html/template"
)

// All customer emails share one branded frame; only the title and body
// content differ per message.
var emailFrame = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f4f4;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:24px;">
      <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;">
        <tr><td style="padding:24px;background:#1a1a2e;border-radius:8px 8px 0 0;">
          <h1 style="margin:0;color:#ffffff;font-size:20px;">Ario</h1>
        </td></tr>
        <tr><td style="padding:32px 24px;">
          <h2 style="margin:0 0 16px;color:#1a1a2e;font-size:18px;">{{.Title}}</h2>
          <div style="color:#444444;font-size:14px;line-height:1.6;">{{.Content}}</div>
        </td></tr>
        <tr><td style="padding:16px 24px;color:#999999;font-size:12px;border-top:1px solid #eeeeee;">
          Ario — custom tailoring, made for you.
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

func renderEmail(title string, content template.HTML) (string, error) {
	var buf bytes.Buffer
	err := emailFrame.Execute(&buf, struct {
		Title   string
		Content template.HTML
	}{Title: title, Content: content})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ComposeOTPEmail builds the signup verification-code message.
func ComposeOTPEmail(to, firstName, code string) (Email, error) {
	content := template.HTML(fmt.Sprintf(
		"Hi %s,<br><br>Welcome to Ario.<br>Your OTP code is: <strong>%s</strong>.<br>This code expires in 2 hours.",
		template.HTMLEscapeString(firstName), template.HTMLEscapeString(code)))

	html, err := renderEmail("Your OTP Code", content)
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Your OTP Code", HTML: html}, nil
}

// ComposeWelcomeEmail builds the one-time welcome message sent after a
// successful OTP verification.
func ComposeWelcomeEmail(to, firstName string) (Email, error) {
	content := template.HTML(fmt.Sprintf(
		"Thank you %s for joining Ario!<br><br>"+
			"Design exactly what you want instead of settling for mass-produced clothes. "+
			"Whether it is a unique Ankara piece, sleek native wear, or something bold for an event, "+
			"our tailors have you covered.<br><br>Let's create something amazing together.",
		template.HTMLEscapeString(firstName)))

	html, err := renderEmail("Welcome", content)
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Welcome", HTML: html}, nil
}

// ComposePasswordResetEmail builds the password-reset link message.
func ComposePasswordResetEmail(to, firstName, resetLink string) (Email, error) {
	content := template.HTML(fmt.Sprintf(
		"Hi %s,<br><br>You requested a password reset.<br>"+
			"Click the following link to reset your password: <a href=%q>Reset Password</a>.<br>"+
			"This link expires in 2 hours.",
		template.HTMLEscapeString(firstName), resetLink))

	html, err := renderEmail("Password Reset", content)
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Password Reset", HTML: html}, nil
}

// ComposeEmailVerificationEmail builds the email-change verification-link
// message, sent to the new address.
func ComposeEmailVerificationEmail(to, firstName, verificationLink string) (Email, error) {
	content := template.HTML(fmt.Sprintf(
		"Hi %s,<br><br>Please verify your new email by clicking the following link: "+
			"<a href=%q>Verify Email</a>.<br>This link expires in 2 hours.",
		template.HTMLEscapeString(firstName), verificationLink))

	html, err := renderEmail("Email Verification", content)
	if err != nil {
		return Email{}, err
	}
	return Email{To: to, Subject: "Email Verification", HTML: html}, nil
}
