package payload

import "github.com/inkpress/database"

// CategoryRequest renames a category and, when Parent is set, moves it under
// the category with that nicename.
type CategoryRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=255"`
	Parent      string `json:"parent" validate:"omitempty,nicename"`
}

type CategoryResponse struct {
	UUID        string  `json:"uuid"`
	Subsite     string  `json:"subsite"`
	Nicename    string  `json:"nicename"`
	DisplayName string  `json:"display_name"`
	Parent      *string `json:"parent,omitempty"`
}

func GetCategoryResponse(category database.Category) CategoryResponse {
	response := CategoryResponse{
		UUID:        category.UUID,
		Subsite:     category.Subsite,
		Nicename:    category.Nicename,
		DisplayName: category.DisplayName,
	}

	if category.Parent != nil {
		parent := category.Parent.Nicename
		response.Parent = &parent
	}

	return response
}

func GetCategoriesResponse(categories []database.Category) []CategoryResponse {
	data := make([]CategoryResponse, 0, len(categories))

	for _, category := range categories {
		data = append(data, GetCategoryResponse(category))
	}

	return data
}
