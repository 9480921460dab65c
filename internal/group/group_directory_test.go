package group_test

import (
	"context"
	"testing"

	"go-leave/internal/group"
	grouperrors "go-leave/internal/group/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeGroupRepository struct {
	group.Repository

	findDepartmentGroupByIDFn func(ctx context.Context, id string) (*group.DepartmentGroup, error)
	departmentGroupsByEmpFn   func(ctx context.Context, employeeID string) ([]group.DepartmentGroup, error)
	delegationMemberIDsFn     func(ctx context.Context, groupID string) ([]uuid.UUID, error)
	isGlobalOverrideMemberFn  func(ctx context.Context, employeeID string) (bool, error)
}

func (f *fakeGroupRepository) FindDepartmentGroupByID(ctx context.Context, id string) (*group.DepartmentGroup, error) {
	return f.findDepartmentGroupByIDFn(ctx, id)
}

func (f *fakeGroupRepository) DepartmentGroupsByEmployee(ctx context.Context, employeeID string) ([]group.DepartmentGroup, error) {
	return f.departmentGroupsByEmpFn(ctx, employeeID)
}

func (f *fakeGroupRepository) DelegationMemberIDs(ctx context.Context, groupID string) ([]uuid.UUID, error) {
	return f.delegationMemberIDsFn(ctx, groupID)
}

func (f *fakeGroupRepository) IsGlobalOverrideMember(ctx context.Context, employeeID string) (bool, error) {
	return f.isGlobalOverrideMemberFn(ctx, employeeID)
}

func TestDirectory_ApprovalChainOf(t *testing.T) {
	ctx := context.Background()

	t.Run("chain keeps fixed stage order", func(t *testing.T) {
		checker, a1, a3 := uuid.New(), uuid.New(), uuid.New()
		repo := &fakeGroupRepository{
			findDepartmentGroupByIDFn: func(ctx context.Context, id string) (*group.DepartmentGroup, error) {
				return &group.DepartmentGroup{
					ID:               uuid.New(),
					Name:             "finance",
					CheckerGroupID:   &checker,
					Approver1GroupID: &a1,
					Approver3GroupID: &a3,
				}, nil
			},
		}
		dir := group.NewDirectory(repo)

		chain, err := dir.ApprovalChainOf(ctx, uuid.New())
		assert.NoError(t, err)

		// approver_2 is unbound, so it is absent rather than auto-passed.
		assert.Equal(t, []group.ChainStep{
			{Stage: group.StageChecker, DelegationGroupID: checker},
			{Stage: group.StageApprover1, DelegationGroupID: a1},
			{Stage: group.StageApprover3, DelegationGroupID: a3},
		}, chain)
	})

	t.Run("no bindings yields empty chain", func(t *testing.T) {
		repo := &fakeGroupRepository{
			findDepartmentGroupByIDFn: func(ctx context.Context, id string) (*group.DepartmentGroup, error) {
				return &group.DepartmentGroup{ID: uuid.New(), Name: "interns"}, nil
			},
		}
		dir := group.NewDirectory(repo)

		chain, err := dir.ApprovalChainOf(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Empty(t, chain)
	})

	t.Run("missing department group", func(t *testing.T) {
		repo := &fakeGroupRepository{
			findDepartmentGroupByIDFn: func(ctx context.Context, id string) (*group.DepartmentGroup, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		dir := group.NewDirectory(repo)

		_, err := dir.ApprovalChainOf(ctx, uuid.New())
		assert.ErrorIs(t, err, grouperrors.ErrDepartmentGroupNotFound)
	})
}

func TestDirectory_Membership(t *testing.T) {
	ctx := context.Background()

	employee := uuid.New()
	member := uuid.New()

	repo := &fakeGroupRepository{
		departmentGroupsByEmpFn: func(ctx context.Context, employeeID string) ([]group.DepartmentGroup, error) {
			if employeeID == employee.String() {
				return []group.DepartmentGroup{{ID: uuid.New(), Name: "engineering"}}, nil
			}
			return nil, nil
		},
		delegationMemberIDsFn: func(ctx context.Context, groupID string) ([]uuid.UUID, error) {
			return []uuid.UUID{member}, nil
		},
		isGlobalOverrideMemberFn: func(ctx context.Context, employeeID string) (bool, error) {
			return false, nil
		},
	}
	dir := group.NewDirectory(repo)

	groups, err := dir.DepartmentGroupsOf(ctx, employee)
	assert.NoError(t, err)
	assert.Len(t, groups, 1)

	groups, err = dir.DepartmentGroupsOf(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Empty(t, groups)

	members, err := dir.DelegationMembers(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{member}, members)

	override, err := dir.IsGlobalOverrideMember(ctx, employee)
	assert.NoError(t, err)
	assert.False(t, override)
}
