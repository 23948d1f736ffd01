package dto

// FileRequest names a file inside the data folder for import/export.
type FileRequest struct {
	Filename string `json:"filename" validate:"omitempty,max=128,excludesall=/\\"`
}
