package group

type CreateDelegationGroupRequest struct {
	Name             string `json:"name" binding:"required"`
	IsGlobalOverride bool   `json:"is_global_override"`
}

type UpdateDelegationGroupRequest struct {
	Name             string `json:"name" binding:"required"`
	IsGlobalOverride bool   `json:"is_global_override"`
}

type DelegationGroupResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	IsGlobalOverride bool     `json:"is_global_override"`
	MemberIDs        []string `json:"member_ids,omitempty"`
}

type CreateDepartmentGroupRequest struct {
	Name             string  `json:"name" binding:"required"`
	CheckerGroupID   *string `json:"checker_group_id"`
	Approver1GroupID *string `json:"approver_1_group_id"`
	Approver2GroupID *string `json:"approver_2_group_id"`
	Approver3GroupID *string `json:"approver_3_group_id"`
}

type UpdateDepartmentGroupRequest = CreateDepartmentGroupRequest

type DepartmentGroupResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	CheckerGroupID   *string  `json:"checker_group_id,omitempty"`
	Approver1GroupID *string  `json:"approver_1_group_id,omitempty"`
	Approver2GroupID *string  `json:"approver_2_group_id,omitempty"`
	Approver3GroupID *string  `json:"approver_3_group_id,omitempty"`
	MemberIDs        []string `json:"member_ids,omitempty"`
}

type ReplaceMembersRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required"`
}
