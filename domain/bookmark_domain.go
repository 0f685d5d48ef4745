package domain

var (
	MessageSuccessSaveRecipe   = "recipe saved"
	MessageSuccessUnsaveRecipe = "recipe removed from saved"
	MessageSuccessGetSaved     = "success get saved recipes"

	MessageFailedToggleBookmark = "failed to toggle saved recipe"
	MessageFailedGetSaved       = "failed to get saved recipes"
)

type BookmarkState struct {
	RecipeID string `json:"recipe_id"`
	Saved    bool   `json:"saved"`
}
