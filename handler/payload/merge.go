package payload

const ActionMerge = "merge"
const ActionDelete = "delete"

// MergeDeleteRequest selects tags or categories by nicename. The selection
// order decides the merged display name.
type MergeDeleteRequest struct {
	Nicenames []string `json:"nicenames" validate:"required,min=1,dive,required"`
	Action    string   `json:"action" validate:"required,oneof=merge delete"`
}

type MergeDeleteResponse struct {
	Action  string   `json:"action"`
	Deleted []string `json:"deleted,omitempty"`
	Merged  any      `json:"merged,omitempty"`
}
