package dto

// FavoritesQuery holds the sorting parameters of GET /api/favorites.
// The same alias pairs and fallback rule as card listing apply.
type FavoritesQuery struct {
	SortBy        string `form:"sortBy"`
	SortOrder     string `form:"sortOrder"`
	SortField     string `form:"sortField"`
	SortDirection string `form:"sortDirection"`
}

func (q FavoritesQuery) EffectiveSort() (string, string) {
	sortBy := q.SortBy
	if q.SortField != "" {
		sortBy = q.SortField
	}
	sortOrder := q.SortOrder
	if q.SortDirection != "" {
		sortOrder = q.SortDirection
	}
	return sortBy, sortOrder
}

// FavoriteListResponse is the favorites listing envelope. The whole favorite
// set is returned at once, so no pagination fields.
type FavoriteListResponse struct {
	Results []CardResponse `json:"results"`
	Total   int            `json:"total"`
}

// ToggleFavoriteResponse reports the membership state after a toggle.
type ToggleFavoriteResponse struct {
	CardID     string `json:"cardId"`
	IsFavorite bool   `json:"isFavorite"`
	Message    string `json:"message"`
}

// CheckFavoriteResponse reports membership for the caller.
type CheckFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}
