package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_directory/internal/domain"
	"github.com/locvowork/employee_directory/internal/repository"
	"github.com/locvowork/employee_directory/internal/store"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newFixture() (*DirectoryService, domain.ContactRepository) {
	s := store.NewMemoryStore()
	contacts := repository.NewContactRepository(s)
	svc := NewDirectoryService(repository.NewEmployeeRepository(s), contacts, 4)
	return svc, contacts
}

// flakyContactRepo fails contact creation after a set number of calls,
// and can be told to fail deletes too.
type flakyContactRepo struct {
	domain.ContactRepository
	failAfter   int
	creates     int
	failDeletes bool
}

var errStoreDown = errors.New("store unavailable")

func (f *flakyContactRepo) CreateFor(ctx context.Context, employeeID, contactType, value string) (*domain.Contact, error) {
	f.creates++
	if f.creates > f.failAfter {
		return nil, errStoreDown
	}
	return f.ContactRepository.CreateFor(ctx, employeeID, contactType, value)
}

func (f *flakyContactRepo) DeleteAllFor(ctx context.Context, employeeID string) (int64, error) {
	if f.failDeletes {
		return 0, errStoreDown
	}
	return f.ContactRepository.DeleteAllFor(ctx, employeeID)
}

func TestCreateEmployeeWithContacts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture()

	created, err := svc.CreateEmployee(ctx, domain.EmployeeFields{
		Name: strPtr("Ada"),
		Age:  intPtr(30),
	}, []domain.ContactInput{
		{Type: "email", Value: "ada@x.com"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, 30, got.Age)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, "email", got.Contacts[0].Type)
	assert.Equal(t, "ada@x.com", got.Contacts[0].Value)
	assert.Equal(t, created.ID, got.Contacts[0].EmployeeID)
}

func TestCreateEmployeeWithoutContacts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture()

	created, err := svc.CreateEmployee(ctx, domain.EmployeeFields{Name: strPtr("Grace")}, nil)
	require.NoError(t, err)

	got, err := svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Contacts)
}

func TestCreateEmployeeRollsBackOnContactFailure(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	contacts := repository.NewContactRepository(s)
	flaky := &flakyContactRepo{ContactRepository: contacts, failAfter: 1}
	svc := NewDirectoryService(repository.NewEmployeeRepository(s), flaky, 4)

	_, err := svc.CreateEmployee(ctx, domain.EmployeeFields{Name: strPtr("Ada")}, []domain.ContactInput{
		{Type: "email", Value: "ada@x.com"},
		{Type: "phone", Value: "+1-555-0100"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)

	// Compensation succeeded, so the failure is not a partial one.
	var partial *PartialError
	assert.False(t, errors.As(err, &partial))

	// Neither the employee nor the first contact survived.
	page, err := svc.ListEmployees(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)

	remaining, _, err := s.FindMany(ctx, store.KindContact, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCreateEmployeeReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	contacts := repository.NewContactRepository(s)
	flaky := &flakyContactRepo{ContactRepository: contacts, failAfter: 1, failDeletes: true}
	svc := NewDirectoryService(repository.NewEmployeeRepository(s), flaky, 4)

	_, err := svc.CreateEmployee(ctx, domain.EmployeeFields{Name: strPtr("Ada")}, []domain.ContactInput{
		{Type: "email", Value: "ada@x.com"},
		{Type: "phone", Value: "+1-555-0100"},
	})
	require.Error(t, err)

	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.NotEmpty(t, partial.EmployeeID)
	require.Len(t, partial.CreatedContactIDs, 1)
}

func TestListEmployeesPagination(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture()

	var ids []string
	for i := 0; i < 6; i++ {
		e, err := svc.CreateEmployee(ctx, domain.EmployeeFields{Name: strPtr("emp")}, []domain.ContactInput{
			{Type: "email", Value: "e@x.com"},
		})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	page1, err := svc.ListEmployees(ctx, 1, 3)
	require.NoError(t, err)
	page2, err := svc.ListEmployees(ctx, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(6), page1.TotalCount)
	assert.Equal(t, 1, page1.PageIndex)
	assert.Equal(t, 3, page1.PageSize)
	require.Len(t, page1.Items, 3)
	require.Len(t, page2.Items, 3)

	// Disjoint pages whose union is the first 2N employees in order.
	union := append(append([]domain.EmployeeWithContacts{}, page1.Items...), page2.Items...)
	for i, item := range union {
		assert.Equal(t, ids[i], item.ID)
		require.Len(t, item.Contacts, 1, "join must attach contacts to every item")
	}
}

func TestListEmployeesOutOfRangePage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateEmployee(ctx, domain.EmployeeFields{Name: strPtr("emp")}, nil)
		require.NoError(t, err)
	}

	page, err := svc.ListEmployees(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 5, page.PageIndex)
	assert.Equal(t, 10, page.PageSize)
}

func TestGetEmployeeNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture()

	_, err := svc.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateEmployee(t *testing.T) {
	ctx := context.Background()
	svc, contacts := newFixture()

	created, err := svc.CreateEmployee(ctx, domain.EmployeeFields{
		Name: strPtr("Ada"),
		Age:  intPtr(30),
	}, []domain.ContactInput{{Type: "email", Value: "ada@x.com"}})
	require.NoError(t, err)

	t.Run("updates fields, never contacts", func(t *testing.T) {
		updated, err := svc.UpdateEmployee(ctx, created.ID, domain.EmployeeFields{Age: intPtr(31)})
		require.NoError(t, err)
		assert.Equal(t, 31, updated.Age)
		assert.Equal(t, "Ada", updated.Name)

		cs, err := contacts.ListFor(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, cs, 1)
	})

	t.Run("missing id is NotFound and mutates nothing", func(t *testing.T) {
		_, err := svc.UpdateEmployee(ctx, "missing", domain.EmployeeFields{Name: strPtr("X")})
		assert.ErrorIs(t, err, store.ErrNotFound)

		got, err := svc.GetEmployee(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)
	})
}

func TestDeleteEmployeeCascade(t *testing.T) {
	ctx := context.Background()
	svc, contacts := newFixture()

	created, err := svc.CreateEmployee(ctx, domain.EmployeeFields{Name: strPtr("Ada")}, []domain.ContactInput{
		{Type: "email", Value: "ada@x.com"},
		{Type: "phone", Value: "+1-555-0100"},
	})
	require.NoError(t, err)

	deleted, removed, err := svc.DeleteEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, int64(2), removed)

	// No orphans remain.
	remaining, err := contacts.ListFor(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = svc.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteEmployeeNotFoundSkipsCascade(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	contacts := repository.NewContactRepository(s)
	// A delete failure would surface if the cascade ran.
	flaky := &flakyContactRepo{ContactRepository: contacts, failDeletes: true}
	svc := NewDirectoryService(repository.NewEmployeeRepository(s), flaky, 4)

	_, _, err := svc.DeleteEmployee(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteEmployeeReportsFailedCascade(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	contacts := repository.NewContactRepository(s)
	flaky := &flakyContactRepo{ContactRepository: contacts, failAfter: 10, failDeletes: true}
	svc := NewDirectoryService(repository.NewEmployeeRepository(s), flaky, 4)

	created, err := svc.CreateEmployee(ctx, domain.EmployeeFields{Name: strPtr("Ada")}, []domain.ContactInput{
		{Type: "email", Value: "ada@x.com"},
	})
	require.NoError(t, err)

	_, _, err = svc.DeleteEmployee(ctx, created.ID)
	require.Error(t, err)

	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, created.ID, partial.EmployeeID)
}
