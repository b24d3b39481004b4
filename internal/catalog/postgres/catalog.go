package postgres

import (
	"github.com/cigarcraft/cigar-commerce/internal/catalog"
	catalogDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/catalog"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) catalog.RepositoryAPI {
	return &CatalogRepository{
		db: db,
	}
}

func (r *CatalogRepository) GetActiveByID(kind catalogDatamodel.Kind, id int64) (*catalogDatamodel.Component, error) {
	var component catalogDatamodel.Component
	err := r.db.Where("kind = ? AND id = ? AND is_active = ?", kind, id, true).First(&component).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *CatalogRepository) ListActive(kind catalogDatamodel.Kind) ([]*catalogDatamodel.Component, error) {
	var components []*catalogDatamodel.Component
	q := r.db.Where("is_active = ?", true)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Order("kind ASC, name ASC").Find(&components).Error
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (r *CatalogRepository) GetSetting(key string) (*catalogDatamodel.Setting, error) {
	var setting catalogDatamodel.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}
