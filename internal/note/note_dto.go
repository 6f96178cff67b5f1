package note

type UpsertNoteRequest struct {
	Title string `json:"title" binding:"required,max=160"`
	Body  string `json:"body"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

type NoteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Color     string `json:"color"`
	UpdatedAt string `json:"updated_at"`
}
