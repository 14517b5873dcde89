package inventory

type CreateItemPayload struct {
	Barcode      string  `json:"barcode" validate:"required,min=1,max=50"`
	BookTitleID  int     `json:"book_title_id" validate:"required,min=1"`
	PurchaseDate *string `json:"purchase_date,omitempty" validate:"omitempty,date,ne="`
	RackLocation *string `json:"rack_location,omitempty" validate:"omitempty,max=50"`
}

type ListItemsQuery struct {
	BookTitleID *int    `query:"book_title_id" json:"book_title_id,omitempty" validate:"omitempty,min=1"`
	Status      *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE LOANED"`
}

type UpdateItemPayload struct {
	RackLocation *string `json:"rack_location,omitempty" validate:"omitempty,max=50"`
}
