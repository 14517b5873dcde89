package people

type CreatePersonPayload struct {
	Name        string   `json:"name" validate:"required,min=1,max=300"`
	Password    string   `json:"password" validate:"required,min=8,max=128"`
	ContactInfo string   `json:"contact_info" validate:"omitempty,max=500"`
	Role        string   `json:"role" validate:"required,oneof=MEMBER STAFF LIBRARIAN ADMIN"`
	Salary      *float64 `json:"salary,omitempty" validate:"omitempty,min=0"`
}

type ListPeopleQuery struct {
	Role *string `query:"role" json:"role,omitempty" validate:"omitempty,oneof=MEMBER STAFF LIBRARIAN ADMIN"`
}

type UpdatePersonPayload struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=300"`
	ContactInfo   *string  `json:"contact_info,omitempty" validate:"omitempty,max=500"`
	AccountStatus *string  `json:"account_status,omitempty" validate:"omitempty,oneof=ACTIVE SUSPENDED CLOSED"`
	MaxBookLimit  *int     `json:"max_book_limit,omitempty" validate:"omitempty,min=0,max=100"`
	Salary        *float64 `json:"salary,omitempty" validate:"omitempty,min=0"`
	Password      *string  `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}
