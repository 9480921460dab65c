package group

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=group_repo.go -destination=mock/group_repo_mock.go -package=mock
type Repository interface {
	CreateDelegationGroup(ctx context.Context, g *DelegationGroup) error
	FindDelegationGroupByID(ctx context.Context, id string) (*DelegationGroup, error)
	FindDelegationGroupByName(ctx context.Context, name string) (*DelegationGroup, error)
	FindAllDelegationGroups(ctx context.Context) ([]DelegationGroup, error)
	UpdateDelegationGroup(ctx context.Context, g *DelegationGroup) error
	ReplaceDelegationMembers(ctx context.Context, groupID string, employeeIDs []uuid.UUID) error
	DelegationMemberIDs(ctx context.Context, groupID string) ([]uuid.UUID, error)
	IsGlobalOverrideMember(ctx context.Context, employeeID string) (bool, error)

	CreateDepartmentGroup(ctx context.Context, g *DepartmentGroup) error
	FindDepartmentGroupByID(ctx context.Context, id string) (*DepartmentGroup, error)
	FindAllDepartmentGroups(ctx context.Context) ([]DepartmentGroup, error)
	UpdateDepartmentGroup(ctx context.Context, g *DepartmentGroup) error
	ReplaceDepartmentMembers(ctx context.Context, groupID string, employeeIDs []uuid.UUID) error
	DepartmentMemberIDs(ctx context.Context, groupID string) ([]uuid.UUID, error)
	DepartmentGroupsByEmployee(ctx context.Context, employeeID string) ([]DepartmentGroup, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateDelegationGroup(ctx context.Context, g *DelegationGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *repository) FindDelegationGroupByID(ctx context.Context, id string) (*DelegationGroup, error) {
	var g DelegationGroup
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) FindDelegationGroupByName(ctx context.Context, name string) (*DelegationGroup, error) {
	var g DelegationGroup
	err := r.db.WithContext(ctx).First(&g, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) FindAllDelegationGroups(ctx context.Context) ([]DelegationGroup, error) {
	var groups []DelegationGroup
	err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *repository) UpdateDelegationGroup(ctx context.Context, g *DelegationGroup) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *repository) ReplaceDelegationMembers(ctx context.Context, groupID string, employeeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&DelegationMember{}).Error; err != nil {
			return err
		}
		for _, eid := range employeeIDs {
			m := DelegationMember{GroupID: uuid.MustParse(groupID), EmployeeID: eid}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) DelegationMemberIDs(ctx context.Context, groupID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&DelegationMember{}).
		Where("group_id = ?", groupID).
		Order("employee_id ASC").
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *repository) IsGlobalOverrideMember(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("delegation_members").
		Joins("JOIN delegation_groups ON delegation_groups.id = delegation_members.group_id").
		Where("delegation_members.employee_id = ?", employeeID).
		Where("delegation_groups.is_global_override = TRUE").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateDepartmentGroup(ctx context.Context, g *DepartmentGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *repository) FindDepartmentGroupByID(ctx context.Context, id string) (*DepartmentGroup, error) {
	var g DepartmentGroup
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) FindAllDepartmentGroups(ctx context.Context) ([]DepartmentGroup, error) {
	var groups []DepartmentGroup
	err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *repository) UpdateDepartmentGroup(ctx context.Context, g *DepartmentGroup) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *repository) ReplaceDepartmentMembers(ctx context.Context, groupID string, employeeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&DepartmentMember{}).Error; err != nil {
			return err
		}
		for _, eid := range employeeIDs {
			m := DepartmentMember{GroupID: uuid.MustParse(groupID), EmployeeID: eid}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) DepartmentMemberIDs(ctx context.Context, groupID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&DepartmentMember{}).
		Where("group_id = ?", groupID).
		Order("employee_id ASC").
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *repository) DepartmentGroupsByEmployee(ctx context.Context, employeeID string) ([]DepartmentGroup, error) {
	var groups []DepartmentGroup
	err := r.db.WithContext(ctx).
		Joins("JOIN department_members ON department_members.group_id = department_groups.id").
		Where("department_members.employee_id = ?", employeeID).
		Order("department_groups.name ASC, department_groups.id ASC").
		Find(&groups).Error
	return groups, err
}
