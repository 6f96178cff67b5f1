package complaint

type CreateComplaintRequest struct {
	Subject     string `json:"subject" binding:"required,max=160"`
	Description string `json:"description" binding:"required"`
}

type PostMessageRequest struct {
	Content        string  `json:"content" binding:"required"`
	AttachmentURL  *string `json:"attachment_url" binding:"omitempty,url"`
	AttachmentName *string `json:"attachment_name" binding:"omitempty,max=255"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=BACKLOG IN_PROGRESS DONE"`
}

type DirectResponseRequest struct {
	Response string `json:"response" binding:"required"`
}

type MessageResponse struct {
	ID             string  `json:"id"`
	SenderName     string  `json:"sender_name"`
	Content        string  `json:"content"`
	IsFromHR       bool    `json:"is_from_hr"`
	AttachmentURL  *string `json:"attachment_url,omitempty"`
	AttachmentName *string `json:"attachment_name,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type ComplaintResponse struct {
	ID               string            `json:"id"`
	OwnerName        string            `json:"owner_name"`
	Subject          string            `json:"subject"`
	Description      string            `json:"description"`
	Status           string            `json:"status"`
	DirectResponse   *string           `json:"direct_response,omitempty"`
	DirectResponseAt *string           `json:"direct_response_at,omitempty"`
	Messages         []MessageResponse `json:"messages"`
	CreatedAt        string            `json:"created_at"`
}
