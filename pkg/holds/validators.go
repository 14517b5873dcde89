package holds

type PlaceHoldPayload struct {
	BorrowerID  int `json:"borrower_id" validate:"omitempty,min=1"`
	BookTitleID int `json:"book_title_id" validate:"required,min=1"`
}

type ListHoldsQuery struct {
	BorrowerID  *int    `query:"borrower_id" json:"borrower_id,omitempty" validate:"omitempty,min=1"`
	BookTitleID *int    `query:"book_title_id" json:"book_title_id,omitempty" validate:"omitempty,min=1"`
	Status      *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=PENDING CANCELED FULFILLED"`
}
