package leaverequest

type CreateLeaveRequest struct {
	TypeCode       string  `json:"type_code" binding:"required"`
	Reason         string  `json:"reason" binding:"required"`
	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        string  `json:"end_date" binding:"required"`
	HalfDay        bool    `json:"half_day"`
	HalfDayPortion *string `json:"half_day_portion" binding:"omitempty,oneof=MORNING AFTERNOON"`
}

type DecideLeaveRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Comment  string `json:"comment"`
}

type ApprovalResponse struct {
	ID           string  `json:"id"`
	ApproverID   string  `json:"approver_id"`
	ApproverName string  `json:"approver_name,omitempty"`
	Approved     *bool   `json:"approved"`
	Comment      *string `json:"comment,omitempty"`
	RespondedAt  *string `json:"responded_at,omitempty"`
}

type LeaveRequestResponse struct {
	ID             string             `json:"id"`
	EmployeeID     string             `json:"employee_id"`
	EmployeeName   string             `json:"employee_name,omitempty"`
	LeaveTypeID    string             `json:"leave_type_id"`
	LeaveTypeCode  string             `json:"leave_type_code,omitempty"`
	Reason         string             `json:"reason"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	TotalDays      int                `json:"total_days"`
	HalfDay        bool               `json:"half_day"`
	HalfDayPortion *string            `json:"half_day_portion,omitempty"`
	Status         string             `json:"status"`
	Approvals      []ApprovalResponse `json:"approvals"`
	CreatedAt      string             `json:"created_at"`
}
