package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactform/internal/model"
	"contactform/pkg/db"
)

func setupSQLiteRepo(t *testing.T) *SQLiteSubmissionRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contact_form.db")
	_, err := db.InitSQLiteStore(path)
	require.NoError(t, err)

	gdb, err := db.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.CloseSQLite(gdb) })

	return NewSQLiteSubmissionRepository(gdb)
}

func newSubmission(email, phone string) *model.Submission {
	return &model.Submission{
		Name:        "Al",
		Email:       email,
		Message:     "Hi",
		Service:     "Design",
		PhoneNumber: phone,
		Timestamp:   time.Now(),
	}
}

func countByIdentity(t *testing.T, repo *SQLiteSubmissionRepository, id model.Identity) int64 {
	t.Helper()
	var count int64
	require.NoError(t, repo.db.Model(&submissionRecord{}).
		Where("email = ? AND phone_number = ?", id.Email, id.PhoneNumber).
		Count(&count).Error)
	return count
}

func TestSQLiteCreateSubmissionAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	repo := setupSQLiteRepo(t)

	first, err := repo.CreateSubmission(ctx, newSubmission("a@x.com", "555-1111"))
	require.NoError(t, err)
	second, err := repo.CreateSubmission(ctx, newSubmission("a@x.com", "555-1111"))
	require.NoError(t, err)

	assert.Greater(t, first, int64(0))
	assert.Greater(t, second, first)

	assert.Equal(t, int64(2), countByIdentity(t, repo, model.Identity{Email: "a@x.com", PhoneNumber: "555-1111"}))
}

func TestSQLiteExistsByIdentityIsExact(t *testing.T) {
	ctx := context.Background()
	repo := setupSQLiteRepo(t)
	_, err := repo.CreateSubmission(ctx, newSubmission("a@x.com", "555-1111"))
	require.NoError(t, err)

	cases := []struct {
		name  string
		id    model.Identity
		found bool
	}{
		{"exact pair", model.Identity{Email: "a@x.com", PhoneNumber: "555-1111"}, true},
		{"email case differs", model.Identity{Email: "A@x.com", PhoneNumber: "555-1111"}, false},
		{"other phone", model.Identity{Email: "a@x.com", PhoneNumber: "555-2222"}, false},
		{"prefix of email", model.Identity{Email: "a@x", PhoneNumber: "555-1111"}, false},
		{"trailing space", model.Identity{Email: "a@x.com ", PhoneNumber: "555-1111"}, false},
		{"empty phone", model.Identity{Email: "a@x.com", PhoneNumber: ""}, false},
		{"both empty", model.Identity{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := repo.ExistsByIdentity(ctx, tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.found, found)
		})
	}
}

func TestSQLiteEmptyStoreHasNoIdentities(t *testing.T) {
	repo := setupSQLiteRepo(t)

	found, err := repo.ExistsByIdentity(context.Background(), model.Identity{Email: "a@x.com", PhoneNumber: "555-1111"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestSQLiteExistsByIdentityFailsWithoutTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	gdb, err := db.OpenSQLite(path)
	require.NoError(t, err)
	defer db.CloseSQLite(gdb)

	repo := NewSQLiteSubmissionRepository(gdb)
	_, err = repo.ExistsByIdentity(context.Background(), model.Identity{Email: "a@x.com"})
	assert.Error(t, err)
}
