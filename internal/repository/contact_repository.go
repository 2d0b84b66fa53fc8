package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/locvowork/employee_directory/internal/domain"
	"github.com/locvowork/employee_directory/internal/store"
)

// contactDoc mirrors domain.Contact for record store storage. The
// employee_id back-reference is the sole source of the ownership
// relation.
type contactDoc struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	EmployeeID string `json:"employee_id"`
}

type contactRepository struct {
	store store.Store
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(s store.Store) domain.ContactRepository {
	return &contactRepository{store: s}
}

func (r *contactRepository) CreateFor(ctx context.Context, employeeID, contactType, value string) (*domain.Contact, error) {
	doc := contactDoc{
		Type:       contactType,
		Value:      value,
		EmployeeID: employeeID,
	}

	id, err := r.store.Insert(ctx, store.KindContact, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact for employee %s: %w", employeeID, err)
	}
	return contactFromDoc(id, doc), nil
}

func (r *contactRepository) ListFor(ctx context.Context, employeeID string) ([]domain.Contact, error) {
	records, _, err := r.store.FindMany(ctx, store.KindContact, store.Filter{"employee_id": employeeID}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts for employee %s: %w", employeeID, err)
	}

	contacts := make([]domain.Contact, 0, len(records))
	for _, record := range records {
		var doc contactDoc
		if err := json.Unmarshal(record.Source, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode contact %s: %w", record.ID, err)
		}
		contacts = append(contacts, *contactFromDoc(record.ID, doc))
	}
	return contacts, nil
}

func (r *contactRepository) DeleteAllFor(ctx context.Context, employeeID string) (int64, error) {
	count, err := r.store.DeleteMany(ctx, store.KindContact, store.Filter{"employee_id": employeeID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts for employee %s: %w", employeeID, err)
	}
	return count, nil
}

func contactFromDoc(id string, doc contactDoc) *domain.Contact {
	return &domain.Contact{
		ID:         id,
		Type:       doc.Type,
		Value:      doc.Value,
		EmployeeID: doc.EmployeeID,
	}
}
