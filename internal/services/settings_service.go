package services

import (
	"context"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"
)

type SettingsService interface {
	// Get returns the stored settings, falling back to defaults when none were saved.
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, request *UpdateSettingsRequest, actor *Actor) (*models.Settings, error)
}

type SettingsDefaults struct {
	StoreName         string
	Currency          string
	CommissionRate    float64
	VolumetricDivisor float64
}

type UpdateSettingsRequest struct {
	StoreName                *string  `json:"store_name" validate:"omitempty,min=1,max=100"`
	Currency                 *string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	SupportEmail             *string  `json:"support_email" validate:"omitempty,email"`
	SupportPhone             *string  `json:"support_phone" validate:"omitempty,phone_number"`
	PlatformCommissionRate   *float64 `json:"platform_commission_rate" validate:"omitempty,min=0,max=1"`
	MaintenanceMode          *bool    `json:"maintenance_mode"`
	DefaultVolumetricDivisor *float64 `json:"default_volumetric_divisor" validate:"omitempty,gt=0"`
}

type settingsService struct {
	settingsRepo interfaces.SettingsRepository
	defaults     SettingsDefaults
	logger       *logger.Logger
}

func NewSettingsService(settingsRepo interfaces.SettingsRepository, defaults SettingsDefaults, logger *logger.Logger) SettingsService {
	if defaults.StoreName == "" {
		defaults.StoreName = utils.AppName
	}
	if defaults.Currency == "" {
		defaults.Currency = utils.DefaultCurrency
	}
	if defaults.VolumetricDivisor <= 0 {
		defaults.VolumetricDivisor = utils.DefaultVolumetricDivisor
	}

	return &settingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
		logger:       logger,
	}
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !isNotFound(err) {
			return nil, repoError(err, "settings")
		}
		return &models.Settings{
			Key:                      models.SettingsKey,
			StoreName:                s.defaults.StoreName,
			Currency:                 s.defaults.Currency,
			PlatformCommissionRate:   s.defaults.CommissionRate,
			DefaultVolumetricDivisor: s.defaults.VolumetricDivisor,
		}, nil
	}

	s.fillDefaults(settings)
	return settings, nil
}

func (s *settingsService) fillDefaults(settings *models.Settings) {
	if settings.StoreName == "" {
		settings.StoreName = s.defaults.StoreName
	}
	if settings.Currency == "" {
		settings.Currency = s.defaults.Currency
	}
	if settings.DefaultVolumetricDivisor <= 0 {
		settings.DefaultVolumetricDivisor = s.defaults.VolumetricDivisor
	}
}

func (s *settingsService) Update(ctx context.Context, request *UpdateSettingsRequest, actor *Actor) (*models.Settings, error) {
	updates := map[string]interface{}{}
	setIf(updates, "store_name", request.StoreName)
	setIf(updates, "currency", request.Currency)
	setIf(updates, "support_email", request.SupportEmail)
	setIf(updates, "support_phone", request.SupportPhone)
	setIf(updates, "platform_commission_rate", request.PlatformCommissionRate)
	setIf(updates, "maintenance_mode", request.MaintenanceMode)
	setIf(updates, "default_volumetric_divisor", request.DefaultVolumetricDivisor)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}
	if actor != nil {
		updates["updated_by"] = actor.UserID
	}

	settings, err := s.settingsRepo.Upsert(ctx, updates)
	if err != nil {
		return nil, repoError(err, "settings")
	}

	s.fillDefaults(settings)
	s.logger.WithField("fields", len(updates)).Info("Settings updated")
	return settings, nil
}
