package reservation

type CreateReservationRequest struct {
	ResourceID  string  `json:"resource_id" binding:"required,uuid"`
	Date        string  `json:"date" binding:"required"`
	Hours       string  `json:"hours" binding:"required"`
	Title       string  `json:"title" binding:"required,max=120"`
	Description *string `json:"description"`
}

type RespondReservationRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Comment  string `json:"comment"`
}

type UpdateReservationRequest struct {
	Hours       string  `json:"hours" binding:"required"`
	Title       string  `json:"title" binding:"required,max=120"`
	Description *string `json:"description"`
}

type ReservationResponse struct {
	ID              string  `json:"id"`
	ResourceID      string  `json:"resource_id"`
	ResourceName    string  `json:"resource_name,omitempty"`
	OwnerID         string  `json:"owner_id"`
	OwnerName       string  `json:"owner_name,omitempty"`
	RequesterID     string  `json:"requester_id"`
	RequesterName   string  `json:"requester_name,omitempty"`
	Date            string  `json:"date"`
	Hours           string  `json:"hours"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	Status          string  `json:"status"`
	ResponseComment *string `json:"response_comment,omitempty"`
	RespondedAt     *string `json:"responded_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
