package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campuskart/config"
	"github.com/oksasatya/campuskart/internal/infrastructure/memory"
	"github.com/oksasatya/campuskart/pkg/helpers"
)

type sentMail struct {
	To, Subject, Text, HTML string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (r *recordingNotifier) Send(_ context.Context, to, subject, text, html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMail{To: to, Subject: subject, Text: text, HTML: html})
	return nil
}

type authFixture struct {
	svc   *AuthService
	users *memory.UserRepository
	mail  *recordingNotifier
	now   time.Time
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:        "campuskart",
		CompanyName:    "CampusKart",
		BaseURL:        "http://localhost:8080",
		EmailDomain:    "usiu.ac.ke",
		VerifyTokenTTL: time.Hour,
		SessionTTL:     7 * 24 * time.Hour,
		BcryptCost:     4,
	}
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memory.NewStore()
	f := &authFixture{
		users: store.Users(),
		mail:  &recordingNotifier{},
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthService(f.users, helpers.NewJWTManager("test-secret", time.Hour), f.mail, testConfig(), logger)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *authFixture) register(t *testing.T, email string) int64 {
	t.Helper()
	id, err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Jane", LastName: "Doe", Email: email, Password: "secret123",
	})
	require.NoError(t, err)
	return id
}

func TestRegister_SendsVerificationLink(t *testing.T) {
	f := newAuthFixture(t)
	id := f.register(t, "Jane@USIU.ac.ke")

	require.Len(t, f.mail.sent, 1)
	msg := f.mail.sent[0]
	assert.Equal(t, "jane@usiu.ac.ke", msg.To)
	assert.Equal(t, "CampusKart - Verify Your Email Address", msg.Subject)

	token := f.users.Token(id)
	require.Len(t, token, 64)
	assert.Contains(t, msg.HTML, "http://localhost:8080/api/users/verify?token="+token)
	assert.Contains(t, msg.Text, "http://localhost:8080/api/users/verify?token="+token, "plain-text fallback carries the link")

	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	require.NotNil(t, u.TokenExpiresAt)
	assert.Equal(t, f.now.Add(time.Hour), *u.TokenExpiresAt)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@gmail.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidEmailDomain)

	_, err = f.svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@evilusiu.ac.ke.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidEmailDomain)

	_, err = f.svc.Register(ctx, RegisterInput{FirstName: "A", Email: "a@usiu.ac.ke", Password: "x"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@usiu.ac.ke"})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Empty(t, f.mail.sent)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jane@usiu.ac.ke")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "J", LastName: "D", Email: "JANE@usiu.ac.ke", Password: "other",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestRegister_MailFailureKeepsUser(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.err = errors.New("mailgun down")

	id, err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Jane", LastName: "Doe", Email: "jane@usiu.ac.ke", Password: "secret123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegisteredUnnotified)
	assert.Positive(t, id)

	exists, err := f.users.ExistsByEmail(context.Background(), "jane@usiu.ac.ke")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVerify_TokenIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	id := f.register(t, "jane@usiu.ac.ke")
	token := f.users.Token(id)

	require.NoError(t, f.svc.Verify(context.Background(), token))
	u, _ := f.users.GetByID(context.Background(), id)
	assert.True(t, u.IsVerified)
	assert.Empty(t, f.users.Token(id))

	err := f.svc.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiredAndUnknown(t *testing.T) {
	f := newAuthFixture(t)
	id := f.register(t, "jane@usiu.ac.ke")
	token := f.users.Token(id)

	f.now = f.now.Add(61 * time.Minute)
	assert.ErrorIs(t, f.svc.Verify(context.Background(), token), ErrInvalidToken)
	assert.ErrorIs(t, f.svc.Verify(context.Background(), strings.Repeat("a", 64)), ErrInvalidToken)
	assert.Equal(t, KindValidation, KindOf(f.svc.Verify(context.Background(), "  ")))
}

func TestResendVerification(t *testing.T) {
	f := newAuthFixture(t)
	id := f.register(t, "jane@usiu.ac.ke")
	first := f.users.Token(id)

	require.NoError(t, f.svc.ResendVerification(context.Background(), "jane@usiu.ac.ke"))
	second := f.users.Token(id)
	assert.NotEqual(t, first, second)
	assert.Len(t, f.mail.sent, 2)

	// unknown addresses are not disclosed
	require.NoError(t, f.svc.ResendVerification(context.Background(), "ghost@usiu.ac.ke"))
	assert.Len(t, f.mail.sent, 2)

	require.NoError(t, f.svc.Verify(context.Background(), second))
	require.NoError(t, f.svc.ResendVerification(context.Background(), "jane@usiu.ac.ke"))
	assert.Len(t, f.mail.sent, 2, "verified accounts get no new mail")
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := f.register(t, "jane@usiu.ac.ke")

	_, err := f.svc.Login(ctx, "jane@usiu.ac.ke", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "jane@usiu.ac.ke", "secret123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	assert.Equal(t, KindAuthorization, KindOf(err))

	require.NoError(t, f.svc.Verify(ctx, f.users.Token(id)))

	res, err := f.svc.Login(ctx, "JANE@usiu.ac.ke", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, Profile{ID: id, FirstName: "Jane", Email: "jane@usiu.ac.ke"}, res.User)

	u, err := f.svc.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Empty(t, u.PasswordHash)
}

func TestLogin_UnknownAndMissing(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), "nobody@usiu.ac.ke", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestResolveSession_Rejects(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.ResolveSession(context.Background(), "garbage")
	assert.Equal(t, KindAuthentication, KindOf(err))

	// valid signature, but the user does not exist
	tok, _, err := f.svc.JWT.GenerateSessionToken(999)
	require.NoError(t, err)
	_, err = f.svc.ResolveSession(context.Background(), tok)
	assert.Equal(t, KindAuthentication, KindOf(err))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSweepExpiredTokens(t *testing.T) {
	f := newAuthFixture(t)
	id := f.register(t, "jane@usiu.ac.ke")

	n, err := f.svc.SweepExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	f.now = f.now.Add(2 * time.Hour)
	n, err = f.svc.SweepExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Empty(t, f.users.Token(id))
}

func TestProfile(t *testing.T) {
	f := newAuthFixture(t)
	id := f.register(t, "jane@usiu.ac.ke")
	f.users.SetPhone(id, "+254700000000")

	p, err := f.svc.Profile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, "+254700000000", p.Phone)

	_, err = f.svc.Profile(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNilLoggerFallsBack(t *testing.T) {
	s := &AuthService{}
	assert.Equal(t, logrus.StandardLogger(), s.log())
}
