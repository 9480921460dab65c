package leave

import (
	"context"

	"go-leave/internal/group"

	"github.com/google/uuid"
)

// Permissions answers the two authorization questions the workflow needs:
// who may act on the current stage, and who may see an application.
// Decisions are evaluated against the application's chain snapshot plus
// live override-group membership; they are never cached.
type Permissions struct {
	directory group.Directory
}

func NewPermissions(directory group.Directory) *Permissions {
	return &Permissions{directory: directory}
}

// CanAct reports whether the actor may complete the given stage. A direct
// assignee on the slot is authoritative; group membership is only consulted
// when no assignee is set. Global override members may always act.
func (p *Permissions) CanAct(ctx context.Context, actorID uuid.UUID, a *Application, st group.Stage) (bool, error) {
	override, err := p.directory.IsGlobalOverrideMember(ctx, actorID)
	if err != nil {
		return false, err
	}
	if override {
		return true, nil
	}

	slot := a.Slot(st)
	if slot == nil || !slot.Active() {
		return false, nil
	}
	if slot.ActorID != nil {
		return *slot.ActorID == actorID, nil
	}

	return p.isMember(ctx, actorID, *slot.GroupID)
}

// CanView reports whether the actor may read the application: the
// applicant, anyone recorded or eligible on any chained stage, and global
// override members.
func (p *Permissions) CanView(ctx context.Context, actorID uuid.UUID, a *Application) (bool, error) {
	if a.ApplicantID == actorID {
		return true, nil
	}

	override, err := p.directory.IsGlobalOverrideMember(ctx, actorID)
	if err != nil {
		return false, err
	}
	if override {
		return true, nil
	}

	for _, st := range group.StageOrder {
		slot := a.Slot(st)
		if !slot.Active() {
			continue
		}
		if slot.ActorID != nil && *slot.ActorID == actorID {
			return true, nil
		}
		ok, err := p.isMember(ctx, actorID, *slot.GroupID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func (p *Permissions) isMember(ctx context.Context, actorID, groupID uuid.UUID) (bool, error) {
	members, err := p.directory.DelegationMembers(ctx, groupID)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m == actorID {
			return true, nil
		}
	}
	return false, nil
}
