package postgres

import (
	"time"

	orderDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/order"
	"github.com/cigarcraft/cigar-commerce/internal/order"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) order.RepositoryAPI {
	return &OrderRepository{
		db: db,
	}
}

func (r *OrderRepository) Create(o *orderDatamodel.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id int64) (*orderDatamodel.Order, error) {
	var o orderDatamodel.Order
	err := r.db.First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&orderDatamodel.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
}
