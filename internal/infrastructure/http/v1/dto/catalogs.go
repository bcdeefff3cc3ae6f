package dto

// --- Branch ---

// CreateBranchRequest for creating branches.
type CreateBranchRequest struct {
	Name          string  `json:"name" binding:"required"`
	Address       string  `json:"address"`
	ChatID        *string `json:"chatId"`
	NotifyEnabled bool    `json:"notifyEnabled"`
}

// UpdateBranchRequest for updating branches.
type UpdateBranchRequest struct {
	Name          *string `json:"name"`
	Address       *string `json:"address"`
	ChatID        *string `json:"chatId"`
	NotifyEnabled *bool   `json:"notifyEnabled"`
}

// --- Staff ---

// CreateStaffRequest for creating staff members.
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	BranchID string `json:"branchId" binding:"required"`
}

// UpdateStaffRequest for updating staff members.
type UpdateStaffRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	BranchID *string `json:"branchId"`
}

// --- Customer ---

// CreateCustomerRequest for creating customers.
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

// UpdateCustomerRequest for updating customers.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}
