package domain

const (
	MailTypeWelcome       = "welcome"
	MailTypePasswordReset = "password_reset"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	Identifier string `json:"identifier"`
}

type PasswordResetMailData struct {
	Identifier string `json:"identifier"`
}
