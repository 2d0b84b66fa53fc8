package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/locvowork/employee_directory/internal/domain"
	"github.com/locvowork/employee_directory/internal/store"
)

// employeeDoc mirrors domain.Employee for record store storage. The id
// lives on the record, not inside the document.
type employeeDoc struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Address string `json:"address"`
}

type employeeRepository struct {
	store store.Store
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(s store.Store) domain.EmployeeRepository {
	return &employeeRepository{store: s}
}

func (r *employeeRepository) Create(ctx context.Context, fields domain.EmployeeFields) (*domain.Employee, error) {
	var doc employeeDoc
	applyFields(&doc, fields)

	id, err := r.store.Insert(ctx, store.KindEmployee, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return employeeFromDoc(id, doc), nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	record, err := r.store.FindByID(ctx, store.KindEmployee, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return decodeEmployee(record)
}

func (r *employeeRepository) List(ctx context.Context, pageIndex, pageSize int) ([]domain.Employee, int64, error) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	skip := (pageIndex - 1) * pageSize

	records, total, err := r.store.FindMany(ctx, store.KindEmployee, nil, skip, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]domain.Employee, 0, len(records))
	for _, record := range records {
		e, err := decodeEmployee(&record)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *e)
	}
	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, id string, fields domain.EmployeeFields) (*domain.Employee, error) {
	// Only name, age and address are mutable.
	patch := make(map[string]interface{})
	if fields.Name != nil {
		patch["name"] = *fields.Name
	}
	if fields.Age != nil {
		patch["age"] = *fields.Age
	}
	if fields.Address != nil {
		patch["address"] = *fields.Address
	}

	record, err := r.store.UpdateByID(ctx, store.KindEmployee, id, patch)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee %s: %w", id, err)
	}
	return decodeEmployee(record)
}

func (r *employeeRepository) Delete(ctx context.Context, id string) (*domain.Employee, error) {
	record, err := r.store.DeleteByID(ctx, store.KindEmployee, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	return decodeEmployee(record)
}

func applyFields(doc *employeeDoc, fields domain.EmployeeFields) {
	if fields.Name != nil {
		doc.Name = *fields.Name
	}
	if fields.Age != nil {
		doc.Age = *fields.Age
	}
	if fields.Address != nil {
		doc.Address = *fields.Address
	}
}

func employeeFromDoc(id string, doc employeeDoc) *domain.Employee {
	return &domain.Employee{
		ID:      id,
		Name:    doc.Name,
		Age:     doc.Age,
		Address: doc.Address,
	}
}

func decodeEmployee(record *store.Record) (*domain.Employee, error) {
	var doc employeeDoc
	if err := json.Unmarshal(record.Source, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode employee %s: %w", record.ID, err)
	}
	return employeeFromDoc(record.ID, doc), nil
}
