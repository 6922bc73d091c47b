package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhaolong57/mood-diary/internal/apperr"
	"github.com/zhaolong57/mood-diary/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.MoodRecord{}))
	return db
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  bool
	}{
		{"all valid", "alice", "a@example.com", "secret1", false},
		{"username too short", "ab", "a@example.com", "secret1", true},
		{"username min length", "abc", "a@example.com", "secret1", false},
		{"username max length", strings.Repeat("a", 20), "a@example.com", "secret1", false},
		{"username too long", strings.Repeat("a", 21), "a@example.com", "secret1", true},
		{"password too short", "alice", "a@example.com", "12345", true},
		{"password min length", "alice", "a@example.com", "123456", false},
		{"missing email", "alice", "", "secret1", true},
		{"missing username", "", "a@example.com", "secret1", true},
		{"missing password", "alice", "a@example.com", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.username, tc.email, tc.password)
			if tc.wantErr {
				var ve *apperr.ValidationError
				assert.ErrorAs(t, err, &ve)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMood(t *testing.T) {
	assert.NoError(t, ValidateMood("2025-03-01", "happy"))

	var ve *apperr.ValidationError
	assert.ErrorAs(t, ValidateMood("", "happy"), &ve)
	assert.ErrorAs(t, ValidateMood("2025-03-01", ""), &ve)
	assert.ErrorAs(t, ValidateMood("03/01/2025", "happy"), &ve)
	assert.ErrorAs(t, ValidateMood("2025-03-01", "ecstatic"), &ve)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newDB(t))
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret1", u.PasswordHash, "password must be hashed")

	got, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// Email works as the login identifier too.
	got, err = svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterConflicts(t *testing.T) {
	svc := NewAuthService(newDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	var ce *apperr.ConflictError
	_, err = svc.Register(ctx, "alice", "other@example.com", "secret1")
	assert.ErrorAs(t, err, &ce, "duplicate username")
	_, err = svc.Register(ctx, "bob", "alice@example.com", "secret1")
	assert.ErrorAs(t, err, &ce, "duplicate email")
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := NewAuthService(newDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, wrongPass := svc.Login(ctx, "alice", "wrong-password")
	_, noUser := svc.Login(ctx, "nobody", "secret1")

	require.Error(t, wrongPass)
	require.Error(t, noUser)
	assert.Equal(t, wrongPass.Error(), noUser.Error(),
		"failure message must not reveal whether the account exists")
	assert.ErrorIs(t, wrongPass, apperr.ErrBadCredentials)
	assert.ErrorIs(t, noUser, apperr.ErrBadCredentials)
}

func TestUpsertIsUpdateNotInsert(t *testing.T) {
	svc := NewMoodService(newDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, "u-1", "2025-03-01", "happy", "sunny"))
	require.NoError(t, svc.Upsert(ctx, "u-1", "2025-03-01", "tired", "long day"))

	records, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, records, 1, "same (user, date) must stay one record")
	assert.Equal(t, "tired", records[0].Mood)
	assert.Equal(t, "long day", records[0].Note)
}

func TestListOrderedByDateDescending(t *testing.T) {
	svc := NewMoodService(newDB(t))
	ctx := context.Background()

	for _, d := range []string{"2025-03-02", "2025-03-10", "2025-03-01"} {
		require.NoError(t, svc.Upsert(ctx, "u-1", d, "calm", ""))
	}

	records, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-03-10", records[0].Date)
	assert.Equal(t, "2025-03-02", records[1].Date)
	assert.Equal(t, "2025-03-01", records[2].Date)
}

func TestListIsScopedToUser(t *testing.T) {
	svc := NewMoodService(newDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, "u-1", "2025-03-01", "happy", ""))
	require.NoError(t, svc.Upsert(ctx, "u-2", "2025-03-01", "sad", ""))

	records, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "happy", records[0].Mood)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := NewMoodService(newDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, "u-1", "2025-03-01", "happy", ""))
	require.NoError(t, svc.Delete(ctx, "u-1", "2025-03-01"))
	require.NoError(t, svc.Delete(ctx, "u-1", "2025-03-01"), "deleting an absent record is not an error")

	records, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpsertRejectsBadInput(t *testing.T) {
	svc := NewMoodService(newDB(t))

	var ve *apperr.ValidationError
	assert.ErrorAs(t, svc.Upsert(context.Background(), "u-1", "", "happy", ""), &ve)
	assert.ErrorAs(t, svc.Upsert(context.Background(), "u-1", "2025-03-01", "meh", ""), &ve)
}
