package ledger

type PostRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID   string  `json:"leave_type_id" binding:"required,uuid"`
	Year          int     `json:"year" binding:"required"`
	Amount        string  `json:"amount" binding:"required"`
	EffectiveFrom *string `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	Remarks       string  `json:"remarks"`
}

type TransactionResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	Year          int     `json:"year"`
	Amount        string  `json:"amount"`
	EffectiveFrom *string `json:"effective_from,omitempty"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
	Remarks       string  `json:"remarks,omitempty"`
	CreatedBy     *string `json:"created_by,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

type BalanceResponse struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Balance     string `json:"balance"`
	Taken       string `json:"taken"`
}
