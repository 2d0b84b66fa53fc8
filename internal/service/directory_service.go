package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/locvowork/employee_directory/internal/domain"
	"github.com/locvowork/employee_directory/internal/logger"
)

const defaultJoinWorkers = 8

// DirectoryService orchestrates the employee and contact repositories
// and owns the consistency contract between them.
type DirectoryService struct {
	employees   domain.EmployeeRepository
	contacts    domain.ContactRepository
	joinWorkers int
}

// NewDirectoryService creates a new DirectoryService. joinWorkers
// bounds the parallelism of the per-page contact join; values below 1
// fall back to the default.
func NewDirectoryService(employees domain.EmployeeRepository, contacts domain.ContactRepository, joinWorkers int) *DirectoryService {
	if joinWorkers < 1 {
		joinWorkers = defaultJoinWorkers
	}
	return &DirectoryService{
		employees:   employees,
		contacts:    contacts,
		joinWorkers: joinWorkers,
	}
}

// CreateEmployee creates the employee first, then its contacts one by
// one. The multi-step write is not transactional; when a contact
// creation fails the service compensates by deleting whatever it
// already wrote. Only if that compensation also fails does the caller
// see a PartialError describing what survived.
func (s *DirectoryService) CreateEmployee(ctx context.Context, fields domain.EmployeeFields, contactInputs []domain.ContactInput) (*domain.EmployeeWithContacts, error) {
	employee, err := s.employees.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(contactInputs))
	for _, in := range contactInputs {
		contact, err := s.contacts.CreateFor(ctx, employee.ID, in.Type, in.Value)
		if err != nil {
			return nil, s.compensateCreate(ctx, employee.ID, contacts, err)
		}
		contacts = append(contacts, *contact)
	}

	return &domain.EmployeeWithContacts{Employee: *employee, Contacts: contacts}, nil
}

// compensateCreate undoes a half-finished CreateEmployee. A crash
// before or during compensation still leaves partial state; that
// narrowed window is accepted without a cross-record transaction.
func (s *DirectoryService) compensateCreate(ctx context.Context, employeeID string, created []domain.Contact, cause error) error {
	logger.WarnLog(ctx, "contact creation failed for employee %s, rolling back %d contacts", employeeID, len(created))

	if _, err := s.contacts.DeleteAllFor(ctx, employeeID); err != nil {
		return s.partialCreate(employeeID, created, cause, err)
	}
	if _, err := s.employees.Delete(ctx, employeeID); err != nil {
		return s.partialCreate(employeeID, nil, cause, err)
	}
	return fmt.Errorf("failed to create contacts for employee: %w", cause)
}

func (s *DirectoryService) partialCreate(employeeID string, created []domain.Contact, cause, compErr error) error {
	ids := make([]string, 0, len(created))
	for _, c := range created {
		ids = append(ids, c.ID)
	}
	return &PartialError{
		EmployeeID:        employeeID,
		CreatedContactIDs: ids,
		Err:               fmt.Errorf("contact creation failed (%v) and rollback failed: %w", cause, compErr),
	}
}

// ListEmployees returns one 1-based page of employees, each joined with
// its contacts. The per-item join is independent, so it runs on a
// bounded worker group.
func (s *DirectoryService) ListEmployees(ctx context.Context, pageIndex, pageSize int) (*domain.EmployeePage, error) {
	employees, total, err := s.employees.List(ctx, pageIndex, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]domain.EmployeeWithContacts, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.joinWorkers)
	for i, employee := range employees {
		i, employee := i, employee
		g.Go(func() error {
			contacts, err := s.contacts.ListFor(gctx, employee.ID)
			if err != nil {
				return err
			}
			items[i] = domain.EmployeeWithContacts{Employee: employee, Contacts: contacts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.EmployeePage{
		Items:      items,
		TotalCount: total,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
	}, nil
}

// GetEmployee is a point lookup joined with the employee's contacts.
// store.ErrNotFound propagates unchanged when the employee is absent.
func (s *DirectoryService) GetEmployee(ctx context.Context, id string) (*domain.EmployeeWithContacts, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ListFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.EmployeeWithContacts{Employee: *employee, Contacts: contacts}, nil
}

// UpdateEmployee applies a partial update to name/age/address only.
// Contacts are never touched.
func (s *DirectoryService) UpdateEmployee(ctx context.Context, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
	return s.employees.Update(ctx, id, fields)
}

// DeleteEmployee removes the employee and then cascades to its
// contacts. An absent employee is terminal: no cascade is attempted.
// The two deletes are not atomic; a crash between them leaves orphaned
// contacts, which are invisible to reads (all joins start from the
// employee) and removable by re-running the cascade.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, id string) (*domain.Employee, int64, error) {
	employee, err := s.employees.Delete(ctx, id)
	if err != nil {
		// Covers store.ErrNotFound: deleting a missing employee never
		// triggers the cascade.
		return nil, 0, err
	}

	removed, err := s.contacts.DeleteAllFor(ctx, id)
	if err != nil {
		return employee, 0, &PartialError{
			EmployeeID: id,
			Err:        fmt.Errorf("employee deleted but contact cascade failed: %w", err),
		}
	}

	logger.InfoLog(ctx, "deleted employee %s and %d contacts", id, removed)
	return employee, removed, nil
}
