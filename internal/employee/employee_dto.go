package employee

type CreateProfile struct {
	FullName string
	Email    string
	Gender   string
}

type UpdateEmployeeRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Gender        string `json:"gender" binding:"omitempty,oneof=MALE FEMALE"`
	StartWorkDate string `json:"start_work_date" binding:"omitempty,datetime=2006-01-02"`
}

type SetManagersRequest struct {
	ManagerIDs []string `json:"manager_ids" binding:"required,dive,uuid"`
}

type ManagerRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type EmployeeResponse struct {
	ID             string       `json:"id"`
	EmployeeNumber string       `json:"employee_number"`
	FullName       string       `json:"full_name"`
	Email          string       `json:"email"`
	Gender         string       `json:"gender,omitempty"`
	StartWorkDate  string       `json:"start_work_date,omitempty"`
	Managers       []ManagerRef `json:"managers,omitempty"`
}
