package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// SettingService manages the typed site-settings table. Values are stored
// as text and validated against their declared type on every write.
type SettingService struct {
	settingRepo repository.SettingRepository
}

// NewSettingService returns a SettingService over the given repository.
func NewSettingService(settingRepo repository.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

// PublicSettings returns the key/value map served to anonymous clients.
func (s *SettingService) PublicSettings(ctx context.Context) (map[string]string, error) {
	return s.settingRepo.PublicValues(ctx)
}

func (s *SettingService) ListSettings(ctx context.Context, actor policy.Actor) ([]models.Setting, error) {
	if !policy.Allows(actor, policy.OpSettingManage, actor.ID) {
		return nil, models.NewPermissionDeniedError("settings require admin access")
	}
	return s.settingRepo.List(ctx)
}

type CreateSettingInput struct {
	Actor      policy.Actor
	Key        string
	Value      string
	Type       models.SettingType
	IsPublic   bool
	IsEditable *bool
}

func (s *SettingService) CreateSetting(ctx context.Context, in CreateSettingInput) (*models.Setting, error) {
	if !policy.Allows(in.Actor, policy.OpSettingManage, in.Actor.ID) {
		return nil, models.NewPermissionDeniedError("settings require admin access")
	}
	if err := validation.ValidateSettingKey(in.Key); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	settingType := in.Type
	if settingType == "" {
		settingType = models.SettingTypeString
	}
	if !settingType.Valid() {
		return nil, models.NewValidationError("Invalid setting type")
	}
	if err := validation.ValidateSettingValue(settingType, in.Value); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	editable := true
	if in.IsEditable != nil {
		editable = *in.IsEditable
	}
	setting := &models.Setting{
		Key:        in.Key,
		Value:      in.Value,
		Type:       settingType,
		IsPublic:   in.IsPublic,
		IsEditable: editable,
	}
	if err := s.settingRepo.Create(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

type UpdateSettingInput struct {
	Actor    policy.Actor
	Key      string
	Value    string
	IsPublic *bool
}

// UpdateSetting changes a setting's value. Locked keys (is_editable=false)
// reject updates outright.
func (s *SettingService) UpdateSetting(ctx context.Context, in UpdateSettingInput) (*models.Setting, error) {
	if !policy.Allows(in.Actor, policy.OpSettingManage, in.Actor.ID) {
		return nil, models.NewPermissionDeniedError("settings require admin access")
	}

	setting, err := s.settingRepo.GetByKey(ctx, in.Key)
	if err != nil {
		return nil, err
	}
	if !setting.IsEditable {
		return nil, models.NewConflictError("setting " + in.Key + " is not editable")
	}
	if err := validation.ValidateSettingValue(setting.Type, in.Value); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	setting.Value = in.Value
	if in.IsPublic != nil {
		setting.IsPublic = *in.IsPublic
	}
	if err := s.settingRepo.Update(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) DeleteSetting(ctx context.Context, actor policy.Actor, key string) error {
	if !policy.Allows(actor, policy.OpSettingManage, actor.ID) {
		return models.NewPermissionDeniedError("settings require admin access")
	}
	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		return err
	}
	if !setting.IsEditable {
		return models.NewConflictError("setting " + key + " is not editable")
	}
	return s.settingRepo.Delete(ctx, key)
}
