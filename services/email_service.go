package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"inkwell/config"
	"inkwell/models"
)

// mailSender is the part of gomail.Dialer the service uses.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService sends the "new comment on your post" notification. It is
// best-effort: callers log failures and never fail the request over them.
type EmailService struct {
	cfg    *config.Config
	dialer mailSender
}

// NewEmailService returns nil when no SMTP host is configured; callers treat
// a nil service as notifications-off.
func NewEmailService(cfg *config.Config) *EmailService {
	if cfg.SMTP.Host == "" {
		return nil
	}
	return &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
	}
}

// SendCommentNotification mails the post author about a new comment.
func (es *EmailService) SendCommentNotification(author, commenter models.User, post models.Post) error {
	m := gomail.NewMessage()
	m.SetHeader("From", es.cfg.SMTP.From)
	m.SetHeader("To", author.Email)
	m.SetHeader("Subject", fmt.Sprintf("%s commented on your post", commenter.Username))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\n%s left a comment on your post:\n\n%s\n\nOpen it at /posts/%d/\n",
		author.Username, commenter.Username, truncate(post.Text, 120), post.ID,
	))
	return es.dialer.DialAndSend(m)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
