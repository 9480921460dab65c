package employee

type CreateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	HireDate   string `json:"hire_date" binding:"required"`
	EmployeeNo string `json:"employee_no"`
}

type UpdateEmployeeRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	HireDate string `json:"hire_date" binding:"required"`
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	EmployeeNo string `json:"employee_no"`
	FullName   string `json:"full_name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	HireDate   string `json:"hire_date,omitempty"`
	Active     bool   `json:"active"`
}
