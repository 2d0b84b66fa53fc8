package domain

// Employee represents a directory employee. The ID is assigned by the
// record store and never changes after creation. The contact list is
// not stored on the employee; it is joined at read time from the
// Contact back-reference.
type Employee struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Age     int    `json:"age,omitempty"`
	Address string `json:"address,omitempty"`
}

// Contact represents a single contact method owned by exactly one
// employee. EmployeeID is the ground truth of the relationship and is
// never reassigned.
type Contact struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Value      string `json:"value"`
	EmployeeID string `json:"employee_id"`
}

// EmployeeFields carries the mutable employee attributes for create
// and partial update. Nil means "not provided".
type EmployeeFields struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Address *string `json:"address"`
}

// ContactInput is the caller-supplied part of a contact.
type ContactInput struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// EmployeeWithContacts is the read-time join view of an employee and
// its contacts.
type EmployeeWithContacts struct {
	Employee
	Contacts []Contact `json:"contacts"`
}

// EmployeePage is one page of the directory listing.
type EmployeePage struct {
	Items      []EmployeeWithContacts `json:"items"`
	TotalCount int64                  `json:"total_count"`
	PageIndex  int                    `json:"page_index"`
	PageSize   int                    `json:"page_size"`
}
