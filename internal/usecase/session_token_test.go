package usecase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pix-checkout/internal/domain"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tokens := &SessionTokens{Secret: "s3cret", TTL: time.Hour, Now: func() time.Time { return now }}
	sess := Session{
		ID:          "sid-1",
		ProductRef:  "curso-x",
		ProductID:   "prod-1",
		OneCheckout: true,
		Step:        StepConfirm,
		Buyer:       &domain.Buyer{Name: "Ana Souza", Email: "ana@example.com", Phone: "11987654321", TaxID: "52998224725"},
		Method:      domain.MethodCard,
		OrderID:     "o1",
	}

	tok, err := tokens.Sign(sess)
	require.NoError(t, err)

	got, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestSessionTokenRejects(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tokens := &SessionTokens{Secret: "s3cret", TTL: time.Hour, Now: func() time.Time { return now }}
	tok, err := tokens.Sign(Session{ID: "sid-1", ProductID: "prod-1", Step: StepIdentification})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := &SessionTokens{Secret: "s3cret", Now: func() time.Time { return now.Add(2 * time.Hour) }}
		_, err := later.Verify(tok)
		require.ErrorIs(t, err, domain.ErrSessionInvalid)
	})

	t.Run("other secret", func(t *testing.T) {
		other := &SessionTokens{Secret: "different", Now: func() time.Time { return now }}
		_, err := other.Verify(tok)
		require.ErrorIs(t, err, domain.ErrSessionInvalid)
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "sid-1", "pid": "prod-1"})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Verify(raw)
		require.ErrorIs(t, err, domain.ErrSessionInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Verify("not-a-token")
		require.ErrorIs(t, err, domain.ErrSessionInvalid)
	})
}

func TestSignRequiresSecret(t *testing.T) {
	_, err := (&SessionTokens{}).Sign(Session{ID: "x"})
	require.Error(t, err)
}
