package dto

// SearchPayeesParams defines the autocomplete query.
type SearchPayeesParams struct {
	Query string `form:"q"`
}
