package settings

type UpdateSettingsRequest struct {
	MaxConsecutiveLeaveDays     int    `json:"max_consecutive_leave_days" binding:"required,min=1,max=365"`
	WorkHoursPerDay             string `json:"work_hours_per_day" binding:"required"`
	CarryoverCap                int    `json:"carryover_cap" binding:"min=0"`
	ChatEnabled                 bool   `json:"chat_enabled"`
	ReservationApprovalRequired bool   `json:"reservation_approval_required"`
}

type SettingsResponse struct {
	MaxConsecutiveLeaveDays     int    `json:"max_consecutive_leave_days"`
	WorkHoursPerDay             string `json:"work_hours_per_day"`
	CarryoverCap                int    `json:"carryover_cap"`
	ChatEnabled                 bool   `json:"chat_enabled"`
	ReservationApprovalRequired bool   `json:"reservation_approval_required"`
}
