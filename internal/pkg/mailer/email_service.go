package mailer

import (
	"fmt"
	"strings"

	"klutr-be/internal/dto"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendBatchReport(toEmail string, report *dto.BatchReport) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendBatchReport(toEmail string, report *dto.BatchReport) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Batch report: %s (%d/%d users ok)",
		report.JobKind, report.UsersProcessed, report.UsersTotal))

	var failures strings.Builder
	if len(report.Errors) > 0 {
		failures.WriteString("<h3>Failures</h3><ul>")
		for _, e := range report.Errors {
			failures.WriteString(fmt.Sprintf("<li><b>%s</b>: %s</li>", e.Email, e.Reason))
		}
		failures.WriteString("</ul>")
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Batch run: %s</h2>
			<p>Started: %s<br>Finished: %s</p>
			<table style="border-collapse: collapse;">
				<tr><td style="padding: 4px 12px;">Users total</td><td>%d</td></tr>
				<tr><td style="padding: 4px 12px;">Users processed</td><td>%d</td></tr>
				<tr><td style="padding: 4px 12px;">Users failed</td><td>%d</td></tr>
				<tr><td style="padding: 4px 12px;">Items produced</td><td>%d</td></tr>
			</table>
			%s
		</div>
	`,
		report.JobKind,
		report.StartedAt.Format("2006-01-02 15:04:05 MST"),
		report.FinishedAt.Format("2006-01-02 15:04:05 MST"),
		report.UsersTotal,
		report.UsersProcessed,
		report.UsersFailed,
		report.ItemsProduced,
		failures.String(),
	)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mailer: failed to send batch report to %s: %w", toEmail, err)
	}

	return nil
}
