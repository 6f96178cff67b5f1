package leavebalance

type UpsertOverrideRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	Year        int    `json:"year" binding:"required,min=2000,max=2100"`
	Balance     *int   `json:"balance" binding:"omitempty,min=0"`
	CarriedOver int    `json:"carried_over" binding:"min=0"`
	Adjustment  int    `json:"adjustment"`
	Notes       string `json:"notes"`
}

type OverrideResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Balance     *int   `json:"balance,omitempty"`
	CarriedOver int    `json:"carried_over"`
	Adjustment  int    `json:"adjustment"`
	Notes       string `json:"notes,omitempty"`
}

// BalanceItem is one derived balance line. Remaining is nil for unlimited
// leave types.
type BalanceItem struct {
	LeaveTypeID   string   `json:"leave_type_id"`
	LeaveTypeCode string   `json:"leave_type_code"`
	LeaveTypeName string   `json:"leave_type_name"`
	Year          int      `json:"year"`
	IsUnlimited   bool     `json:"is_unlimited"`
	Total         float64  `json:"total"`
	Used          float64  `json:"used"`
	Remaining     *float64 `json:"remaining,omitempty"`
}
