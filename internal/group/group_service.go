package group

import (
	"context"
	"errors"

	grouperrors "go-leave/internal/group/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=group_service.go -destination=mock/group_service_mock.go -package=mock
type Service interface {
	CreateDelegationGroup(ctx context.Context, req CreateDelegationGroupRequest) (DelegationGroupResponse, error)
	GetDelegationGroups(ctx context.Context) ([]DelegationGroupResponse, error)
	GetDelegationGroup(ctx context.Context, id string) (DelegationGroupResponse, error)
	UpdateDelegationGroup(ctx context.Context, id string, req UpdateDelegationGroupRequest) (DelegationGroupResponse, error)
	ReplaceDelegationMembers(ctx context.Context, id string, req ReplaceMembersRequest) error

	CreateDepartmentGroup(ctx context.Context, req CreateDepartmentGroupRequest) (DepartmentGroupResponse, error)
	GetDepartmentGroups(ctx context.Context) ([]DepartmentGroupResponse, error)
	GetDepartmentGroup(ctx context.Context, id string) (DepartmentGroupResponse, error)
	UpdateDepartmentGroup(ctx context.Context, id string, req UpdateDepartmentGroupRequest) (DepartmentGroupResponse, error)
	ReplaceDepartmentMembers(ctx context.Context, id string, req ReplaceMembersRequest) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("group.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("group.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreateDelegationGroup(ctx context.Context, req CreateDelegationGroupRequest) (DelegationGroupResponse, error) {
	if existing, err := s.repo.FindDelegationGroupByName(ctx, req.Name); err == nil && existing != nil {
		return DelegationGroupResponse{}, grouperrors.ErrGroupNameTaken
	}

	g := &DelegationGroup{
		ID:               uuid.New(),
		Name:             req.Name,
		IsGlobalOverride: req.IsGlobalOverride,
	}
	if err := s.repo.CreateDelegationGroup(ctx, g); err != nil {
		s.logger.Error("create delegation group failed", zap.Error(err))
		return DelegationGroupResponse{}, err
	}

	s.logger.Info("delegation group created",
		zap.String("group_id", g.ID.String()),
		zap.Bool("is_global_override", g.IsGlobalOverride),
	)
	return mapDelegationGroup(*g, nil), nil
}

func (s *service) GetDelegationGroups(ctx context.Context) ([]DelegationGroupResponse, error) {
	groups, err := s.repo.FindAllDelegationGroups(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]DelegationGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = mapDelegationGroup(g, nil)
	}
	return resp, nil
}

func (s *service) GetDelegationGroup(ctx context.Context, id string) (DelegationGroupResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DelegationGroupResponse{}, grouperrors.ErrInvalidGroupID
	}
	g, err := s.repo.FindDelegationGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DelegationGroupResponse{}, grouperrors.ErrDelegationGroupNotFound
		}
		return DelegationGroupResponse{}, err
	}
	members, err := s.repo.DelegationMemberIDs(ctx, id)
	if err != nil {
		return DelegationGroupResponse{}, err
	}
	return mapDelegationGroup(*g, members), nil
}

func (s *service) UpdateDelegationGroup(ctx context.Context, id string, req UpdateDelegationGroupRequest) (DelegationGroupResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DelegationGroupResponse{}, grouperrors.ErrInvalidGroupID
	}
	g, err := s.repo.FindDelegationGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DelegationGroupResponse{}, grouperrors.ErrDelegationGroupNotFound
		}
		return DelegationGroupResponse{}, err
	}

	g.Name = req.Name
	g.IsGlobalOverride = req.IsGlobalOverride
	if err := s.repo.UpdateDelegationGroup(ctx, g); err != nil {
		return DelegationGroupResponse{}, err
	}
	return mapDelegationGroup(*g, nil), nil
}

func (s *service) ReplaceDelegationMembers(ctx context.Context, id string, req ReplaceMembersRequest) error {
	if _, err := uuid.Parse(id); err != nil {
		return grouperrors.ErrInvalidGroupID
	}
	ids, err := parseEmployeeIDs(req.EmployeeIDs)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindDelegationGroupByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return grouperrors.ErrDelegationGroupNotFound
		}
		return err
	}
	return s.repo.ReplaceDelegationMembers(ctx, id, ids)
}

func (s *service) CreateDepartmentGroup(ctx context.Context, req CreateDepartmentGroupRequest) (DepartmentGroupResponse, error) {
	bindings, err := parseStageBindings(req)
	if err != nil {
		return DepartmentGroupResponse{}, err
	}
	for _, bound := range bindings {
		if bound == nil {
			continue
		}
		if _, err := s.repo.FindDelegationGroupByID(ctx, bound.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return DepartmentGroupResponse{}, grouperrors.ErrDelegationGroupNotFound
			}
			return DepartmentGroupResponse{}, err
		}
	}

	g := &DepartmentGroup{
		ID:               uuid.New(),
		Name:             req.Name,
		CheckerGroupID:   bindings[0],
		Approver1GroupID: bindings[1],
		Approver2GroupID: bindings[2],
		Approver3GroupID: bindings[3],
	}
	if err := s.repo.CreateDepartmentGroup(ctx, g); err != nil {
		s.logger.Error("create department group failed", zap.Error(err))
		return DepartmentGroupResponse{}, err
	}

	s.logger.Info("department group created", zap.String("group_id", g.ID.String()))
	return mapDepartmentGroup(*g, nil), nil
}

func (s *service) GetDepartmentGroups(ctx context.Context) ([]DepartmentGroupResponse, error) {
	groups, err := s.repo.FindAllDepartmentGroups(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]DepartmentGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = mapDepartmentGroup(g, nil)
	}
	return resp, nil
}

func (s *service) GetDepartmentGroup(ctx context.Context, id string) (DepartmentGroupResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DepartmentGroupResponse{}, grouperrors.ErrInvalidGroupID
	}
	g, err := s.repo.FindDepartmentGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentGroupResponse{}, grouperrors.ErrDepartmentGroupNotFound
		}
		return DepartmentGroupResponse{}, err
	}
	members, err := s.repo.DepartmentMemberIDs(ctx, id)
	if err != nil {
		return DepartmentGroupResponse{}, err
	}
	return mapDepartmentGroup(*g, members), nil
}

func (s *service) UpdateDepartmentGroup(ctx context.Context, id string, req UpdateDepartmentGroupRequest) (DepartmentGroupResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DepartmentGroupResponse{}, grouperrors.ErrInvalidGroupID
	}
	g, err := s.repo.FindDepartmentGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentGroupResponse{}, grouperrors.ErrDepartmentGroupNotFound
		}
		return DepartmentGroupResponse{}, err
	}

	bindings, err := parseStageBindings(req)
	if err != nil {
		return DepartmentGroupResponse{}, err
	}

	g.Name = req.Name
	g.CheckerGroupID = bindings[0]
	g.Approver1GroupID = bindings[1]
	g.Approver2GroupID = bindings[2]
	g.Approver3GroupID = bindings[3]
	if err := s.repo.UpdateDepartmentGroup(ctx, g); err != nil {
		return DepartmentGroupResponse{}, err
	}
	return mapDepartmentGroup(*g, nil), nil
}

func (s *service) ReplaceDepartmentMembers(ctx context.Context, id string, req ReplaceMembersRequest) error {
	if _, err := uuid.Parse(id); err != nil {
		return grouperrors.ErrInvalidGroupID
	}
	ids, err := parseEmployeeIDs(req.EmployeeIDs)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindDepartmentGroupByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return grouperrors.ErrDepartmentGroupNotFound
		}
		return err
	}
	return s.repo.ReplaceDepartmentMembers(ctx, id, ids)
}

func parseEmployeeIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, grouperrors.ErrInvalidEmployeeID
		}
		ids[i] = id
	}
	return ids, nil
}

func parseStageBindings(req CreateDepartmentGroupRequest) ([4]*uuid.UUID, error) {
	var out [4]*uuid.UUID
	raw := [4]*string{req.CheckerGroupID, req.Approver1GroupID, req.Approver2GroupID, req.Approver3GroupID}
	for i, v := range raw {
		if v == nil || *v == "" {
			continue
		}
		id, err := uuid.Parse(*v)
		if err != nil {
			return out, grouperrors.ErrInvalidGroupID
		}
		out[i] = &id
	}
	return out, nil
}

func mapDelegationGroup(g DelegationGroup, members []uuid.UUID) DelegationGroupResponse {
	return DelegationGroupResponse{
		ID:               g.ID.String(),
		Name:             g.Name,
		IsGlobalOverride: g.IsGlobalOverride,
		MemberIDs:        uuidStrings(members),
	}
}

func mapDepartmentGroup(g DepartmentGroup, members []uuid.UUID) DepartmentGroupResponse {
	resp := DepartmentGroupResponse{
		ID:        g.ID.String(),
		Name:      g.Name,
		MemberIDs: uuidStrings(members),
	}
	if g.CheckerGroupID != nil {
		v := g.CheckerGroupID.String()
		resp.CheckerGroupID = &v
	}
	if g.Approver1GroupID != nil {
		v := g.Approver1GroupID.String()
		resp.Approver1GroupID = &v
	}
	if g.Approver2GroupID != nil {
		v := g.Approver2GroupID.String()
		resp.Approver2GroupID = &v
	}
	if g.Approver3GroupID != nil {
		v := g.Approver3GroupID.String()
		resp.Approver3GroupID = &v
	}
	return resp
}

func uuidStrings(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
