package mailer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.html"), []byte(`<p>hello {{ .identifier }}</p>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "password_reset.html"), []byte(`<p>reset {{ .identifier }}</p>`), 0o644))

	c, err := NewComposer("noreply@crew.example", dir)
	require.NoError(t, err)
	return c
}

func TestComposer_Compose(t *testing.T) {
	c := newTestComposer(t)
	body, err := json.Marshal(domain.MailMessage{
		Type: domain.MailTypePasswordReset,
		To:   "a@x.com",
		Data: domain.PasswordResetMailData{Identifier: "E123"},
	})
	require.NoError(t, err)

	msg, err := c.Compose(body)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "a@x.com")
	assert.Contains(t, buf.String(), "Crew Data - Password Updated")
	assert.Contains(t, buf.String(), "reset E123")
}

func TestComposer_Rejects(t *testing.T) {
	c := newTestComposer(t)

	_, err := c.Compose([]byte(`{"type":"newsletter","to":"a@x.com"}`))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = c.Compose([]byte(`not json`))
	assert.Error(t, err)

	_, err = c.Compose([]byte(`{"type":"welcome","to":"not an address"}`))
	assert.Error(t, err)
}

func TestNewComposer_MissingTemplate(t *testing.T) {
	_, err := NewComposer("noreply@crew.example", t.TempDir())
	assert.Error(t, err)
}
