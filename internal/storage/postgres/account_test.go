package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type sqlStateErr string

func (e sqlStateErr) Error() string    { return "pg error " + string(e) }
func (e sqlStateErr) SQLState() string { return string(e) }

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("mypassword")
	assert.NoError(t, err)
	assert.True(t, CheckPassword("mypassword", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RolePlayer))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("editor"))
}

func TestAccountIsAdmin(t *testing.T) {
	assert.True(t, Account{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Account{Role: RolePlayer}.IsAdmin())
}

func TestSQLStateClassification(t *testing.T) {
	wrapped := errors.Join(errors.New("insert"), sqlStateErr("23505"))
	assert.True(t, isDuplicateKeyError(wrapped))
	assert.False(t, isForeignKeyError(wrapped))
	assert.True(t, isForeignKeyError(sqlStateErr("23503")))
	assert.False(t, isDuplicateKeyError(errors.New("plain")))
}

// Property: HashPassword always produces a hash that CheckPassword verifies.
func TestPropertyHashAndCheck(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// bcrypt has a max input length of 72 bytes
		password := rapid.StringMatching(`[a-zA-Z0-9!@#$%^&*]{1,64}`).Draw(t, "password")
		hash, err := HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword failed: %v", err)
		}
		if !CheckPassword(password, hash) {
			t.Fatalf("CheckPassword failed for password %q", password)
		}
	})
}

// Property: ValidRole accepts exactly the defined roles.
func TestPropertyValidRole(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		role := rapid.StringMatching(`[a-z]{1,20}`).Draw(t, "role")
		got := ValidRole(role)
		want := role == RolePlayer || role == RoleAdmin
		if got != want {
			t.Fatalf("ValidRole(%q) = %v, want %v", role, got, want)
		}
	})
}
