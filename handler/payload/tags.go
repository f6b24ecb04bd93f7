package payload

import "github.com/inkpress/database"

type TagRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=255"`
}

type TagResponse struct {
	UUID        string `json:"uuid"`
	Subsite     string `json:"subsite"`
	Nicename    string `json:"nicename"`
	DisplayName string `json:"display_name"`
}

func GetTagResponse(tag database.Tag) TagResponse {
	return TagResponse{
		UUID:        tag.UUID,
		Subsite:     tag.Subsite,
		Nicename:    tag.Nicename,
		DisplayName: tag.DisplayName,
	}
}

func GetTagsResponse(tags []database.Tag) []TagResponse {
	data := make([]TagResponse, 0, len(tags))

	for _, tag := range tags {
		data = append(data, GetTagResponse(tag))
	}

	return data
}
