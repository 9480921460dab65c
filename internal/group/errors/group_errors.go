package grouperrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidGroupID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid group id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrDelegationGroupNotFound = apperror.New(
		apperror.CodeNotFound,
		"delegation group not found",
		http.StatusNotFound,
	)
	ErrDepartmentGroupNotFound = apperror.New(
		apperror.CodeNotFound,
		"department group not found",
		http.StatusNotFound,
	)
	ErrGroupNameTaken = apperror.New(
		apperror.CodeConflict,
		"a group with this name already exists",
		http.StatusConflict,
	)
)
