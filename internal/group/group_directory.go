package group

import (
	"context"
	"errors"

	grouperrors "go-leave/internal/group/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the read-only resolver the approval workflow uses to build
// and authorize stage chains.
//
//go:generate mockgen -source=group_directory.go -destination=mock/group_directory_mock.go -package=mock
type Directory interface {
	// DepartmentGroupsOf returns every department group containing the
	// employee, ordered by name then id so callers taking the first result
	// are deterministic.
	DepartmentGroupsOf(ctx context.Context, employeeID uuid.UUID) ([]DepartmentGroup, error)
	// ApprovalChainOf returns the bound stages of a department group in
	// fixed stage order.
	ApprovalChainOf(ctx context.Context, departmentGroupID uuid.UUID) ([]ChainStep, error)
	DelegationMembers(ctx context.Context, delegationGroupID uuid.UUID) ([]uuid.UUID, error)
	IsGlobalOverrideMember(ctx context.Context, employeeID uuid.UUID) (bool, error)
}

type directory struct {
	repo   Repository
	logger *zap.Logger
}

func NewDirectory(repo Repository, logger ...*zap.Logger) Directory {
	l := zap.L().Named("group.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("group.directory")
	}
	return &directory{repo: repo, logger: l}
}

func (d *directory) DepartmentGroupsOf(ctx context.Context, employeeID uuid.UUID) ([]DepartmentGroup, error) {
	return d.repo.DepartmentGroupsByEmployee(ctx, employeeID.String())
}

func (d *directory) ApprovalChainOf(ctx context.Context, departmentGroupID uuid.UUID) ([]ChainStep, error) {
	g, err := d.repo.FindDepartmentGroupByID(ctx, departmentGroupID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, grouperrors.ErrDepartmentGroupNotFound
		}
		return nil, err
	}

	chain := make([]ChainStep, 0, len(StageOrder))
	for _, st := range StageOrder {
		if bound := g.StageBinding(st); bound != nil {
			chain = append(chain, ChainStep{Stage: st, DelegationGroupID: *bound})
		}
	}
	return chain, nil
}

func (d *directory) DelegationMembers(ctx context.Context, delegationGroupID uuid.UUID) ([]uuid.UUID, error) {
	return d.repo.DelegationMemberIDs(ctx, delegationGroupID.String())
}

func (d *directory) IsGlobalOverrideMember(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	return d.repo.IsGlobalOverrideMember(ctx, employeeID.String())
}
