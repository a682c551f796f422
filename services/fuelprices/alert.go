package fuelprices

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

// Alerter mails operators when a run dies before persisting. The
// pipeline runs unattended under cron, so a fatal failure otherwise
// goes unnoticed until consumers complain about stale data.
type Alerter struct {
	cfg SmtpConfig
}

func NewAlerter(cfg SmtpConfig) Alerter {
	return Alerter{cfg: cfg}
}

func (a Alerter) NotifyFailure(runID string, cause error) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("OpenFuel <%s>", a.cfg.EmailAddress)
	mail.To = a.cfg.Recipients
	mail.Subject = "Fuel price pipeline run failed"

	body := fmt.Sprintf(`Run %s failed before persisting a snapshot.

%s

The previously published snapshot file is untouched.`, runID, cause)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", a.cfg.Server, a.cfg.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", a.cfg.EmailAddress, a.cfg.Password, a.cfg.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		return mail.Send(addr, nil)
	}
	return err
}
