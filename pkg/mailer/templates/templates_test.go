package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campuskart/config"
)

func TestRender_VerifyEmail(t *testing.T) {
	cfg := &config.Config{AppName: "campuskart", CompanyName: "CampusKart"}
	data := NewVerifyEmailData(cfg, "Jane", "jane@usiu.ac.ke", "http://localhost:8080/api/users/verify?token=abc", time.Hour)

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)
	assert.Equal(t, "CampusKart - Verify Your Email Address", subject)
	assert.Contains(t, text, "http://localhost:8080/api/users/verify?token=abc")
	assert.Contains(t, text, "1 hour")
	assert.Contains(t, html, "Hi Jane")
	assert.Contains(t, html, `href="http://localhost:8080/api/users/verify?token=abc"`)
}

func TestRender_EscapesHTML(t *testing.T) {
	cfg := &config.Config{CompanyName: "CampusKart"}
	data := NewVerifyEmailData(cfg, "<script>x</script>", "a@usiu.ac.ke", "http://x/verify?token=t", time.Hour)

	_, _, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>x</script>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", EmailData{})
	assert.Error(t, err)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 hour", humanDuration(time.Hour))
	assert.Equal(t, "24 hours", humanDuration(24*time.Hour))
	assert.Equal(t, "30 minutes", humanDuration(30*time.Minute))
	assert.Equal(t, "1h30m0s", humanDuration(90*time.Minute))
}
