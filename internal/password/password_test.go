package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Daffa964/api-edutrash/internal/password"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	for _, algo := range []string{password.Bcrypt, password.Argon2id} {
		t.Run(algo, func(t *testing.T) {
			hasher, err := password.New(algo, bcrypt.MinCost)
			require.NoError(t, err)

			hash, err := hasher.Hash("secret123")
			require.NoError(t, err)
			require.NotContains(t, hash, "secret123")

			ok, err := hasher.Verify("secret123", hash)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = hasher.Verify("secret124", hash)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestVerifyRejectsSuffixPastBcryptLimit(t *testing.T) {
	hasher, err := password.New(password.Bcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	base := strings.Repeat("p", 72)
	hash, err := hasher.Hash(base)
	require.NoError(t, err)

	ok, err := hasher.Verify(base, hash)
	require.NoError(t, err)
	require.True(t, ok)

	for _, candidate := range []string{base + "EXTRA", base + "p"} {
		ok, err = hasher.Verify(candidate, hash)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher, err := password.New(password.Bcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDefaultBcryptCost(t *testing.T) {
	hasher, err := password.New("", 0)
	require.NoError(t, err)
	require.Equal(t, password.Bcrypt, hasher.Algorithm())

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, password.DefaultBcryptCost, cost)
}

func TestVerifyAcceptsEitherAlgorithm(t *testing.T) {
	argon, err := password.New(password.Argon2id, 0)
	require.NoError(t, err)
	legacy, err := argon.Hash("secret123")
	require.NoError(t, err)

	hasher, err := password.New(password.Bcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	ok, err := hasher.Verify("secret123", legacy)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHashRejectsBadInput(t *testing.T) {
	hasher, err := password.New(password.Bcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	_, err = hasher.Hash("")
	require.ErrorIs(t, err, password.ErrEmptyPassword)

	_, err = hasher.Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, password.ErrPasswordTooLong)
}

func TestVerifyInvalidHash(t *testing.T) {
	hasher, err := password.New(password.Bcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	for _, hash := range []string{"", "plaintext", "$argon2id$v=19$m=1$x$y", "$2b$10$short"} {
		ok, err := hasher.Verify("secret123", hash)
		require.ErrorIs(t, err, password.ErrInvalidHash, hash)
		require.False(t, ok)
	}
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	_, err := password.New("md5", 0)
	require.Error(t, err)

	_, err = password.New(password.Bcrypt, bcrypt.MaxCost+1)
	require.Error(t, err)
}
