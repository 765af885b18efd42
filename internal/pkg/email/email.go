package email

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/qs3c/alloc_server/config"
)

// ExpiryNotice 订阅过期通知内容
type ExpiryNotice struct {
	PIName         string
	ProjectTitle   string
	SubscriptionID int64
	Resources      string
	EndDate        string
}

type Service struct {
	cfg  *config.EmailConfig
	send func(*gomail.Message) error
}

func NewService(cfg *config.EmailConfig) *Service {
	s := &Service{cfg: cfg}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return s
}

// SendSubscriptionExpired 通知项目 PI 订阅已过期
func (s *Service) SendSubscriptionExpired(to string, notice ExpiryNotice) error {
	subject := fmt.Sprintf("Subscription expired: %s", notice.Resources)
	return s.sendHTML(to, subject, s.expiredBody(notice))
}

func (s *Service) expiredBody(n ExpiryNotice) string {
	link := ""
	if s.cfg.PortalURL != "" {
		url := fmt.Sprintf("%s/subscriptions/%d", strings.TrimRight(s.cfg.PortalURL, "/"), n.SubscriptionID)
		link = fmt.Sprintf(`<p><a href="%s">%s</a></p>`, html.EscapeString(url), html.EscapeString(url))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <p>Dear %s,</p>
        <p>The subscription to <strong>%s</strong> for project <strong>%s</strong> expired on %s.</p>
        <p>Users of this subscription no longer have access to the resource. You can request a renewal from the portal.</p>
        %s
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This message was sent automatically.</p>
    </div>
</body>
</html>
`, html.EscapeString(n.PIName), html.EscapeString(n.Resources), html.EscapeString(n.ProjectTitle), n.EndDate, link)
}

func (s *Service) sendHTML(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.send(m)
}
