package catalog

type CreateTitlePayload struct {
	ISBN      string `json:"isbn" validate:"required,min=1,max=20"`
	Title     string `json:"title" validate:"required,min=1,max=500"`
	Genre     string `json:"genre" validate:"omitempty,max=100"`
	Publisher string `json:"publisher" validate:"omitempty,max=300"`
	AuthorIDs []int  `json:"author_ids" validate:"omitempty,max=20,dive,min=1"`
}

type ListTitlesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// LookupTitleQuery is a single-result lookup: exact ISBN match or first
// case-insensitive keyword match, exactly one of the two.
type LookupTitleQuery struct {
	ISBN    *string `query:"isbn" json:"isbn,omitempty" validate:"omitempty,min=1,max=20"`
	Keyword *string `query:"keyword" json:"keyword,omitempty" validate:"omitempty,min=1,max=100"`
}

type UpdateTitlePayload struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Genre     *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	Publisher *string `json:"publisher,omitempty" validate:"omitempty,max=300"`
}

type CreateAuthorPayload struct {
	Name string `json:"name" validate:"required,min=1,max=300"`
}

type UpdateAuthorPayload struct {
	Name string `json:"name" validate:"required,min=1,max=300"`
}
