package handler

import "github.com/locvowork/employee_directory/internal/domain"

// ContactRequest is one contact method in a create request.
type ContactRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CreateEmployeeRequest is the body of POST /employees. All employee
// fields are optional; pointer fields distinguish absent from zero.
type CreateEmployeeRequest struct {
	Name     *string          `json:"name"`
	Age      *int             `json:"age"`
	Address  *string          `json:"address"`
	Contacts []ContactRequest `json:"contacts"`
}

// UpdateEmployeeRequest is the body of PUT /employees/:id. Only the
// fields present in the body are updated.
type UpdateEmployeeRequest struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Address *string `json:"address"`
}

func (r *CreateEmployeeRequest) fields() domain.EmployeeFields {
	return domain.EmployeeFields{Name: r.Name, Age: r.Age, Address: r.Address}
}

func (r *CreateEmployeeRequest) contactInputs() []domain.ContactInput {
	inputs := make([]domain.ContactInput, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		inputs = append(inputs, domain.ContactInput{Type: c.Type, Value: c.Value})
	}
	return inputs
}

func (r *UpdateEmployeeRequest) fields() domain.EmployeeFields {
	return domain.EmployeeFields{Name: r.Name, Age: r.Age, Address: r.Address}
}
