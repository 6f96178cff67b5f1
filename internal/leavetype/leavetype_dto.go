package leavetype

type CreateLeaveTypeRequest struct {
	Code             string  `json:"code" binding:"required,uppercase,max=30"`
	Name             string  `json:"name" binding:"required,max=80"`
	DefaultBalance   int     `json:"default_balance" binding:"min=0"`
	IsUnlimited      bool    `json:"is_unlimited"`
	IsPaid           bool    `json:"is_paid"`
	AllowHalfDay     bool    `json:"allow_half_day"`
	AllowCarryover   bool    `json:"allow_carryover"`
	MaxCarryoverDays int     `json:"max_carryover_days" binding:"min=0"`
	RequireApproval  bool    `json:"require_approval"`
	AllowedGender    *string `json:"allowed_gender" binding:"omitempty,oneof=MALE FEMALE"`
	RequiredWorkDays *int    `json:"required_work_days" binding:"omitempty,min=0"`
	DisplayOrder     int     `json:"display_order"`
}

type UpdateLeaveTypeRequest struct {
	Name             string  `json:"name" binding:"required,max=80"`
	DefaultBalance   int     `json:"default_balance" binding:"min=0"`
	IsUnlimited      bool    `json:"is_unlimited"`
	IsPaid           bool    `json:"is_paid"`
	AllowHalfDay     bool    `json:"allow_half_day"`
	AllowCarryover   bool    `json:"allow_carryover"`
	MaxCarryoverDays int     `json:"max_carryover_days" binding:"min=0"`
	RequireApproval  bool    `json:"require_approval"`
	AllowedGender    *string `json:"allowed_gender" binding:"omitempty,oneof=MALE FEMALE"`
	RequiredWorkDays *int    `json:"required_work_days" binding:"omitempty,min=0"`
	DisplayOrder     int     `json:"display_order"`
	IsActive         bool    `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID               string  `json:"id"`
	Code             string  `json:"code"`
	Name             string  `json:"name"`
	DefaultBalance   int     `json:"default_balance"`
	IsUnlimited      bool    `json:"is_unlimited"`
	IsPaid           bool    `json:"is_paid"`
	AllowHalfDay     bool    `json:"allow_half_day"`
	AllowCarryover   bool    `json:"allow_carryover"`
	MaxCarryoverDays int     `json:"max_carryover_days"`
	RequireApproval  bool    `json:"require_approval"`
	AllowedGender    *string `json:"allowed_gender,omitempty"`
	RequiredWorkDays *int    `json:"required_work_days,omitempty"`
	DisplayOrder     int     `json:"display_order"`
	IsActive         bool    `json:"is_active"`
}
