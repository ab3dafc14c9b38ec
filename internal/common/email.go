package common

// EmailSender delivers the buyer notifications and the operator batch
// report. The notify package renders; implementations only transport.
type EmailSender interface {
	Send(to, subject, html string) error
}

// Email is one captured message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// InMemoryEmail collects messages for assertions in tests.
type InMemoryEmail struct {
	Outbox []Email
}

func (m *InMemoryEmail) Send(to, subject, html string) error {
	if m == nil {
		return nil
	}
	m.Outbox = append(m.Outbox, Email{To: to, Subject: subject, HTML: html})
	return nil
}

// NopEmailSender drops messages. Used until a real provider is configured.
type NopEmailSender struct{}

func (NopEmailSender) Send(string, string, string) error { return nil }
