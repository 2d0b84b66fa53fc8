package domain

import "context"

// EmployeeRepository defines the interface for employee data access.
type EmployeeRepository interface {
	Create(ctx context.Context, fields EmployeeFields) (*Employee, error)
	GetByID(ctx context.Context, id string) (*Employee, error)
	// List returns one 1-based page of employees in creation order plus
	// the total count. An out-of-range page yields empty items, not an
	// error.
	List(ctx context.Context, pageIndex, pageSize int) ([]Employee, int64, error)
	Update(ctx context.Context, id string, fields EmployeeFields) (*Employee, error)
	// Delete removes the employee and returns the removed record so the
	// caller can drive the contact cascade.
	Delete(ctx context.Context, id string) (*Employee, error)
}

// ContactRepository defines the interface for contact data access,
// always scoped by the owning employee.
type ContactRepository interface {
	// CreateFor links a new contact to employeeID. The caller is
	// responsible for having verified the employee exists.
	CreateFor(ctx context.Context, employeeID, contactType, value string) (*Contact, error)
	ListFor(ctx context.Context, employeeID string) ([]Contact, error)
	// DeleteAllFor is idempotent; zero contacts is a successful delete
	// of zero records.
	DeleteAllFor(ctx context.Context, employeeID string) (int64, error)
}
