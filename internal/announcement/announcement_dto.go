package announcement

type CreateAnnouncementRequest struct {
	Title  string `json:"title" binding:"required,max=160"`
	Body   string `json:"body" binding:"required"`
	Pinned bool   `json:"pinned"`
}

type UpdateAnnouncementRequest struct {
	Title  string `json:"title" binding:"required,max=160"`
	Body   string `json:"body" binding:"required"`
	Pinned bool   `json:"pinned"`
}

type AnnouncementResponse struct {
	ID          string `json:"id"`
	AuthorName  string `json:"author_name,omitempty"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Pinned      bool   `json:"pinned"`
	PublishedAt string `json:"published_at"`
}
