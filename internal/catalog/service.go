package catalog

import (
	"errors"
	"log/slog"
	"strconv"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	catalogDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/catalog"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	GetActiveByID(kind catalogDatamodel.Kind, id int64) (*catalogDatamodel.Component, error)
	ListActive(kind catalogDatamodel.Kind) ([]*catalogDatamodel.Component, error)
	GetSetting(key string) (*catalogDatamodel.Setting, error)
}

// Service is the read-only catalog accessor: component price contributions
// and store-level settings. It is the only path the pricing engine uses to
// reach the catalog.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// PriceContribution resolves a selected component to the amount it adds to
// the unit price. Unknown or inactive ids are rejected, not zero-priced.
func (s *Service) PriceContribution(kind catalogDatamodel.Kind, id int64) (float64, error) {
	component, err := s.repo.GetActiveByID(kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("component lookup rejected", "kind", kind, "component_id", id)
			return 0, apperrors.NewComponentNotFoundError(string(kind), id)
		}
		s.logger.Error("component lookup failed", "kind", kind, "component_id", id, "error", err)
		return 0, apperrors.NewInternalError("failed to look up catalog component", err)
	}
	return component.PriceContribution, nil
}

// ListComponents returns the active options for one kind, or for every kind
// when kind is empty. Storefronts render the customization form from this.
func (s *Service) ListComponents(kind catalogDatamodel.Kind) ([]*catalogDatamodel.Component, error) {
	if kind != "" && !kind.Valid() {
		return nil, apperrors.NewValidationError("unknown component kind", apperrors.ErrCodeValidationFailed)
	}

	components, err := s.repo.ListActive(kind)
	if err != nil {
		s.logger.Error("component listing failed", "kind", kind, "error", err)
		return nil, apperrors.NewInternalError("failed to list catalog components", err)
	}
	return components, nil
}

// SettingFloat resolves a numeric store setting, failing closed when the
// setting is absent or unparseable.
func (s *Service) SettingFloat(key string) (float64, error) {
	setting, err := s.repo.GetSetting(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("required store setting missing", "key", key)
			return 0, apperrors.NewMissingSettingError(key)
		}
		s.logger.Error("setting lookup failed", "key", key, "error", err)
		return 0, apperrors.NewInternalError("failed to look up store setting", err)
	}

	value, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		s.logger.Error("store setting is not numeric", "key", key, "value", setting.Value)
		return 0, apperrors.NewMissingSettingError(key).WithCause(err)
	}
	return value, nil
}
