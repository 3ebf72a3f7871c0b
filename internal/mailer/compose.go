package mailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var ErrUnsupportedType = errors.New("unsupported mail type")

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeWelcome:       {file: "welcome.html", subject: "Crew Data - Welcome"},
	domain.MailTypePasswordReset: {file: "password_reset.html", subject: "Crew Data - Password Updated"},
}

// Composer 把队列中的消息渲染成可以直接发送的邮件，模板在启动时一次性解析
type Composer struct {
	from      string
	templates map[string]*template.Template
}

func NewComposer(from, templateDir string) (*Composer, error) {
	templates := make(map[string]*template.Template, len(mailTemplates))
	for mailType, mt := range mailTemplates {
		tmpl, err := template.ParseFiles(filepath.Join(templateDir, mt.file))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", mt.file, err)
		}
		templates[mailType] = tmpl
	}

	return &Composer{from: from, templates: templates}, nil
}

// Compose 解析消息体并生成邮件。返回的错误都不可重试，调用方应直接丢弃该消息
func (c *Composer) Compose(body []byte) (*mail.Msg, error) {
	mailMessage := domain.MailMessage{}
	if err := json.Unmarshal(body, &mailMessage); err != nil {
		return nil, err
	}

	tmpl, ok := c.templates[mailMessage.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, mailMessage.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return nil, err
	}
	if err := msg.To(mailMessage.To); err != nil {
		return nil, err
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
		return nil, err
	}
	msg.Subject(mailTemplates[mailMessage.Type].subject)

	return msg, nil
}
