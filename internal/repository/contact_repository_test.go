package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_directory/internal/store"
)

func TestContactRepositoryCreateForAndListFor(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(store.NewMemoryStore())

	email, err := repo.CreateFor(ctx, "emp-1", "email", "ada@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, email.ID)
	assert.Equal(t, "emp-1", email.EmployeeID)
	assert.Equal(t, "email", email.Type)
	assert.Equal(t, "ada@x.com", email.Value)

	phone, err := repo.CreateFor(ctx, "emp-1", "phone", "+1-555-0100")
	require.NoError(t, err)

	_, err = repo.CreateFor(ctx, "emp-2", "email", "grace@x.com")
	require.NoError(t, err)

	contacts, err := repo.ListFor(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, email.ID, contacts[0].ID)
	assert.Equal(t, phone.ID, contacts[1].ID)
	for _, c := range contacts {
		assert.Equal(t, "emp-1", c.EmployeeID)
	}
}

func TestContactRepositoryListForEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(store.NewMemoryStore())

	contacts, err := repo.ListFor(ctx, "emp-without-contacts")
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestContactRepositoryDeleteAllFor(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(store.NewMemoryStore())

	for i := 0; i < 3; i++ {
		_, err := repo.CreateFor(ctx, "emp-1", "email", "a@x.com")
		require.NoError(t, err)
	}
	other, err := repo.CreateFor(ctx, "emp-2", "email", "b@x.com")
	require.NoError(t, err)

	count, err := repo.DeleteAllFor(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	contacts, err := repo.ListFor(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, contacts)

	// The other employee's contacts are untouched.
	contacts, err = repo.ListFor(ctx, "emp-2")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, other.ID, contacts[0].ID)

	// Idempotent on an owner with no contacts.
	count, err = repo.DeleteAllFor(ctx, "emp-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
