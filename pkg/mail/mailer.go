package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/noah-isme/student-agreement-api/pkg/config"
)

// Notification describes a signed-agreement delivery: both the student and
// the admin receive a copy with the rendered PDF attached.
type Notification struct {
	StudentEmail string
	StudentName  string
	AdminEmail   string
	AdminName    string
	Notes        string
	Course       string
	PDF          []byte
}

// Mailer delivers signed-agreement notifications over SMTP. Missing
// credentials turn Send into a logged no-op.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewMailer constructs a mailer.
func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers the agreement to the student and the admin. The two
// deliveries are independent; failures are joined into one error.
func (m *Mailer) Send(ctx context.Context, n Notification) error {
	if m.cfg.User == "" || m.cfg.Password == "" {
		m.logger.Warn("smtp credentials missing, skipping agreement email",
			zap.String("student", n.StudentEmail))
		return nil
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	sender, err := dialer.Dial()
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer sender.Close()

	body := m.buildBody(n)
	filename := attachmentName(n.StudentName)

	var studentErr, adminErr error
	if err := ctx.Err(); err != nil {
		return err
	}
	studentMsg := m.buildMessage(n.StudentEmail, fmt.Sprintf("Your Signed Agreement - %s", n.StudentName), body, filename, n.PDF)
	if err := gomail.Send(sender, studentMsg); err != nil {
		studentErr = fmt.Errorf("send to student %s: %w", n.StudentEmail, err)
	}

	if err := ctx.Err(); err != nil {
		return errors.Join(studentErr, err)
	}
	adminMsg := m.buildMessage(n.AdminEmail, fmt.Sprintf("[New Submission] Agreement Signed by %s", n.StudentName), body, filename, n.PDF)
	if err := gomail.Send(sender, adminMsg); err != nil {
		adminErr = fmt.Errorf("send to admin %s: %w", n.AdminEmail, err)
	}

	return errors.Join(studentErr, adminErr)
}

func (m *Mailer) buildMessage(to, subject, body, filename string, pdf []byte) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	msg.Attach(filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return msg
}

func (m *Mailer) buildBody(n Notification) string {
	course := n.Course
	if course == "" {
		course = "N/A"
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<h1 style="color: #5838a3;">Student Agreement Signed</h1>`)
	b.WriteString(`<p>Hello,</p>`)
	b.WriteString(`<p>A student agreement has been digitally signed and approved. The details are below:</p>`)
	b.WriteString(`<table style="width: 100%; border-collapse: collapse;">`)
	fmt.Fprintf(&b, `<tr><td style="padding: 8px 12px; font-weight: bold;">Name</td><td style="padding: 8px 12px;">%s</td></tr>`, n.StudentName)
	fmt.Fprintf(&b, `<tr><td style="padding: 8px 12px; font-weight: bold;">Email</td><td style="padding: 8px 12px;">%s</td></tr>`, n.StudentEmail)
	fmt.Fprintf(&b, `<tr><td style="padding: 8px 12px; font-weight: bold;">Course</td><td style="padding: 8px 12px;">%s</td></tr>`, course)
	if n.AdminName != "" {
		fmt.Fprintf(&b, `<tr><td style="padding: 8px 12px; font-weight: bold;">Approved by</td><td style="padding: 8px 12px;">%s</td></tr>`, n.AdminName)
	}
	if n.Notes != "" {
		fmt.Fprintf(&b, `<tr><td style="padding: 8px 12px; font-weight: bold;">Notes</td><td style="padding: 8px 12px;">%s</td></tr>`, n.Notes)
	}
	b.WriteString(`</table>`)
	b.WriteString(`<p>The signed agreement PDF is attached to this email for your records.</p>`)
	b.WriteString(`<hr style="border: none; border-top: 1px solid #e5e5f0;" />`)
	b.WriteString(`<p style="color: #999; font-size: 12px; text-align: center;">This is an automated email from the Student Agreement Form system.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

func attachmentName(studentName string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(studentName), "-"))
	if slug == "" {
		slug = "student"
	}
	return fmt.Sprintf("agreement-%s.pdf", slug)
}
