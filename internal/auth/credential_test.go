package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFingerprintNormalizesFormatting(t *testing.T) {
	assert.Equal(t, Fingerprint("01012345678"), Fingerprint("010-1234-5678"))
	assert.Equal(t, Fingerprint("01012345678"), Fingerprint(" 010 1234 5678 "))
	assert.NotEqual(t, Fingerprint("01012345678"), Fingerprint("01012345679"))
}

func TestFingerprintIsStable(t *testing.T) {
	assert.Equal(t, Fingerprint("12345678"), Fingerprint("12345678"))
	assert.Len(t, Fingerprint("12345678"), 64)
}

func TestHashAndVerifyArgon2id(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, VerifyPassword("correct horse battery", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("samepassword")
	require.NoError(t, err)
	h2, err := HashPassword("samepassword")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass-1"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword("legacy-pass-1", string(legacy)))
	assert.False(t, VerifyPassword("not-the-password", string(legacy)))
}

func TestVerifyUnknownSchemeFailsClosed(t *testing.T) {
	assert.False(t, VerifyPassword("anything", ""))
	assert.False(t, VerifyPassword("anything", "plaintext"))
	assert.False(t, VerifyPassword("anything", "$md5$deadbeef"))
	assert.False(t, VerifyPassword("anything", "$argon2id$v=19$m=65536,t=1,p=4$notbase64!$zzz"))
}
