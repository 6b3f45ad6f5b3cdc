package models

// NutritionPlanFile is drive metadata for one plan PDF in the user's
// folder. Shortcuts are resolved to their target file before listing.
type NutritionPlanFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	CreatedTime  string `json:"createdTime,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	SizeBytes    int64  `json:"sizeBytes,omitempty"`
}
