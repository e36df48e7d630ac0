package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// IEmailService sends entitlement notifications. Every send is
// fire-and-forget from the mutation path: a failed send never rolls back a
// state transition.
type IEmailService interface {
	SendCancellationProcessed(toEmail, planName, status string, effectiveDate time.Time) error
	SendTenantReactivated(toEmail, tenantName string) error
	SendTrialEndingReminder(toEmail string, daysRemaining int) error
	SendGraceExpired(toEmail string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderEmail, clientURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		clientURL:   clientURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, toEmail, err)
	}
	return nil
}

func (s *emailService) SendCancellationProcessed(toEmail, planName, status string, effectiveDate time.Time) error {
	subject := "Your cancellation request was " + status
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Cancellation Request %s</h2>
			<p>Your cancellation request for the <b>%s</b> plan has been %s.</p>
			<p>Effective date: %s</p>
			<p>You can review your subscription at <a href="%s/dashboard">your dashboard</a>.</p>
		</div>
	`, status, planName, status, effectiveDate.Format("2 January 2006"), s.clientURL)
	return s.send(toEmail, subject, body)
}

func (s *emailService) SendTenantReactivated(toEmail, tenantName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Workspace Reactivated</h2>
			<p>Your workspace <b>%s</b> is active again. All members regain access immediately.</p>
		</div>
	`, tenantName)
	return s.send(toEmail, "Your workspace is active again", body)
}

func (s *emailService) SendTrialEndingReminder(toEmail string, daysRemaining int) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your trial is ending soon</h2>
			<p>You have <b>%d day(s)</b> left in your trial.</p>
			<p><a href="%s/pricing" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Choose a plan</a></p>
		</div>
	`, daysRemaining, s.clientURL)
	return s.send(toEmail, "Your TapCard trial is ending soon", body)
}

func (s *emailService) SendGraceExpired(toEmail string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your grace period has ended</h2>
			<p>Your trial and grace period have expired. Pick a plan to restore full access to your cards.</p>
			<p><a href="%s/pricing">See plans</a></p>
		</div>
	`, s.clientURL)
	return s.send(toEmail, "Action needed: your TapCard access has lapsed", body)
}
