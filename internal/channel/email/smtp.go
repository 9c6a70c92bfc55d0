package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/careops/internal/channel"
)

// SMTPProvider sends email through an SMTP relay with PLAIN auth
type SMTPProvider struct {
	host     string
	port     int
	username string
	password string

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewSMTPProvider creates an SMTP provider
func NewSMTPProvider(host string, port int, username, password string) *SMTPProvider {
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	return &SMTPProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		dial:     dialer.DialContext,
	}
}

func (p *SMTPProvider) Name() string {
	return "smtp"
}

func (p *SMTPProvider) IsConfigured() bool {
	return p.host != "" && p.port != 0
}

// Send delivers msg. The whole session is bound to ctx.
func (p *SMTPProvider) Send(ctx context.Context, msg channel.EmailMessage) error {
	if !p.IsConfigured() {
		return fmt.Errorf("smtp: %w", channel.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.send(ctx, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("failed to send email to %s: %w", msg.To, ctxErr)
		}
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

func (p *SMTPProvider) send(ctx context.Context, msg channel.EmailMessage) error {
	addr := net.JoinHostPort(p.host, strconv.Itoa(p.port))
	conn, err := p.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	// Expire the connection once ctx is done, deadline or cancel alike, so a
	// silent relay cannot hold the session open.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	c, err := smtp.NewClient(conn, p.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read greeting: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: p.host}); err != nil {
			return fmt.Errorf("failed to start tls: %w", err)
		}
	}
	if p.username != "" {
		if err := c.Auth(smtp.PlainAuth("", p.username, p.password, p.host)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := c.Mail(msg.From); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("RCPT TO rejected: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", err)
	}

	return c.Quit()
}

func buildMessage(msg channel.EmailMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Rendered subjects carry user data; keep them on one header line.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func validateRecipient(to string) error {
	if !strings.Contains(to, "@") || strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("%w: email %q", channel.ErrInvalidRecipient, to)
	}
	return nil
}
