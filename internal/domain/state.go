package domain

// EditorState is the complete state of an edit session, handed to
// observers and the preview to render the document and its focus.
type EditorState struct {
	Document   *ProductDescription `json:"document"`
	SelectedID string              `json:"selectedId"`
}
