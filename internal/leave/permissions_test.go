package leave_test

import (
	"context"
	"testing"

	"go-leave/internal/group"
	"go-leave/internal/leave"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPermissions_CanAct(t *testing.T) {
	ctx := context.Background()

	checkerGroup := uuid.New()
	member := uuid.New()
	assignee := uuid.New()
	overrideMember := uuid.New()
	stranger := uuid.New()

	dir := &fakeDirectory{
		membersFn: func(ctx context.Context, gid uuid.UUID) ([]uuid.UUID, error) {
			if gid == checkerGroup {
				return []uuid.UUID{member}, nil
			}
			return nil, nil
		},
		overrideFn: func(ctx context.Context, employeeID uuid.UUID) (bool, error) {
			return employeeID == overrideMember, nil
		},
	}
	perms := leave.NewPermissions(dir)

	app := &leave.Application{ID: uuid.New(), ApplicantID: uuid.New()}
	app.Checker.GroupID = &checkerGroup

	t.Run("group member may act on bound stage", func(t *testing.T) {
		ok, err := perms.CanAct(ctx, member, app, group.StageChecker)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stranger may not act", func(t *testing.T) {
		ok, err := perms.CanAct(ctx, stranger, app, group.StageChecker)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("nobody acts on an unbound stage", func(t *testing.T) {
		ok, err := perms.CanAct(ctx, member, app, group.StageApprover1)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("override member acts anywhere", func(t *testing.T) {
		ok, err := perms.CanAct(ctx, overrideMember, app, group.StageChecker)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("direct assignee shuts out the group", func(t *testing.T) {
		assigned := &leave.Application{ID: uuid.New(), ApplicantID: app.ApplicantID}
		assigned.Checker.GroupID = &checkerGroup
		assigned.Checker.ActorID = &assignee

		ok, err := perms.CanAct(ctx, assignee, assigned, group.StageChecker)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = perms.CanAct(ctx, member, assigned, group.StageChecker)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPermissions_CanView(t *testing.T) {
	ctx := context.Background()

	checkerGroup := uuid.New()
	approverGroup := uuid.New()
	checkerMember := uuid.New()
	approverMember := uuid.New()
	overrideMember := uuid.New()
	stranger := uuid.New()

	dir := &fakeDirectory{
		membersFn: func(ctx context.Context, gid uuid.UUID) ([]uuid.UUID, error) {
			switch gid {
			case checkerGroup:
				return []uuid.UUID{checkerMember}, nil
			case approverGroup:
				return []uuid.UUID{approverMember}, nil
			}
			return nil, nil
		},
		overrideFn: func(ctx context.Context, employeeID uuid.UUID) (bool, error) {
			return employeeID == overrideMember, nil
		},
	}
	perms := leave.NewPermissions(dir)

	app := &leave.Application{ID: uuid.New(), ApplicantID: uuid.New()}
	app.Checker.GroupID = &checkerGroup
	app.Approver1.GroupID = &approverGroup

	cases := []struct {
		name  string
		actor uuid.UUID
		want  bool
	}{
		{"applicant", app.ApplicantID, true},
		{"checker group member", checkerMember, true},
		{"later stage group member", approverMember, true},
		{"override member", overrideMember, true},
		{"stranger", stranger, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := perms.CanView(ctx, tc.actor, app)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}
