package loans

type IssuePayload struct {
	Barcode    string `json:"barcode" validate:"required,min=1,max=50"`
	BorrowerID int    `json:"borrower_id" validate:"required,min=1"`
}

type ReturnPayload struct {
	Barcode string `json:"barcode" validate:"required,min=1,max=50"`
}

type ListLoansQuery struct {
	BorrowerID *int `query:"borrower_id" json:"borrower_id,omitempty" validate:"omitempty,min=1"`
	Active     bool `query:"active" json:"active,omitempty"`
}
