package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_directory/internal/domain"
	"github.com/locvowork/employee_directory/internal/store"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestEmployeeRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(store.NewMemoryStore())

	created, err := repo.Create(ctx, domain.EmployeeFields{
		Name: strPtr("Ada"),
		Age:  intPtr(30),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, 30, created.Age)
	assert.Empty(t, created.Address)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEmployeeRepositoryCreateAllFieldsOptional(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(store.NewMemoryStore())

	created, err := repo.Create(ctx, domain.EmployeeFields{})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Name)
	assert.Zero(t, got.Age)
}

func TestEmployeeRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(store.NewMemoryStore())

	var ids []string
	for i := 0; i < 7; i++ {
		e, err := repo.Create(ctx, domain.EmployeeFields{Name: strPtr("emp")})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	t.Run("pages are disjoint and ordered", func(t *testing.T) {
		page1, total, err := repo.List(ctx, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		require.Len(t, page1, 3)

		page2, _, err := repo.List(ctx, 2, 3)
		require.NoError(t, err)
		require.Len(t, page2, 3)

		union := append(append([]domain.Employee{}, page1...), page2...)
		for i, e := range union {
			assert.Equal(t, ids[i], e.ID)
		}
	})

	t.Run("out-of-range page is empty, not an error", func(t *testing.T) {
		items, total, err := repo.List(ctx, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Empty(t, items)
	})
}

func TestEmployeeRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(store.NewMemoryStore())

	created, err := repo.Create(ctx, domain.EmployeeFields{
		Name:    strPtr("Ada"),
		Age:     intPtr(30),
		Address: strPtr("London"),
	})
	require.NoError(t, err)

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		updated, err := repo.Update(ctx, created.ID, domain.EmployeeFields{Age: intPtr(31)})
		require.NoError(t, err)
		assert.Equal(t, 31, updated.Age)
		assert.Equal(t, "Ada", updated.Name)
		assert.Equal(t, "London", updated.Address)
	})

	t.Run("missing id is NotFound", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", domain.EmployeeFields{Name: strPtr("x")})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestEmployeeRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(store.NewMemoryStore())

	created, err := repo.Create(ctx, domain.EmployeeFields{Name: strPtr("Ada")})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
