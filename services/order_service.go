package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/KKTT/catalog-shop-sub000/models"
)

// OrderFilter restricts an order listing. Zero value returns all orders.
type OrderFilter struct {
	Statuses   []models.OrderStatus // restrict to one or more statuses
	Search     string               // case-insensitive substring over order id and customer name
	CustomerID *uint                // restrict to one customer's orders
}

// StatusCounts is the per-status breakdown shown on the console's tab
// badges. Monitoring is the union count over the in-flight statuses.
type StatusCounts struct {
	ByStatus   map[models.OrderStatus]int64 `json:"by_status"`
	Monitoring int64                        `json:"monitoring"`
	Total      int64                        `json:"total"`
}

// OrderService assembles joined order views and performs status
// transitions against the order store.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service over the given database handle
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// ListOrders returns orders joined with their items, delivery address and
// customer profile, newest first. Reads are all-or-nothing: any store
// failure surfaces as StoreUnavailableError with no partial result.
func (s *OrderService) ListOrders(filter OrderFilter) ([]models.Order, error) {
	query := s.db.Model(&models.Order{}).
		Preload("Items").
		Preload("DeliveryAddress").
		Joins("Customer").
		Order("orders.created_at DESC")

	if len(filter.Statuses) > 0 {
		query = query.Where("orders.status IN ?", filter.Statuses)
	}

	if filter.CustomerID != nil {
		query = query.Where("orders.customer_id = ?", *filter.CustomerID)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(`LOWER(orders.id) LIKE ? OR LOWER("Customer"."name") LIKE ?`, pattern, pattern)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, &StoreUnavailableError{Cause: err}
	}

	attachItemImageURLs(orders)
	return orders, nil
}

// GetOrder returns one fully joined order by id
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items").
		Preload("DeliveryAddress").
		Preload("Customer").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, &StoreUnavailableError{Cause: err}
	}

	attachItemImageURLs([]models.Order{order})
	return &order, nil
}

// CountByStatus returns the number of orders in each status plus the
// monitoring bucket (pending, confirmed and shipping taken as a union,
// never re-summed, so nothing is counted twice).
func (s *OrderService) CountByStatus() (*StatusCounts, error) {
	type statusRow struct {
		Status models.OrderStatus
		Count  int64
	}

	var rows []statusRow
	err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, &StoreUnavailableError{Cause: err}
	}

	counts := &StatusCounts{ByStatus: make(map[models.OrderStatus]int64, len(models.AllStatuses))}
	for _, status := range models.AllStatuses {
		counts.ByStatus[status] = 0
	}
	for _, row := range rows {
		counts.ByStatus[row.Status] = row.Count
		counts.Total += row.Count
	}
	for _, status := range models.MonitoringStatuses {
		counts.Monitoring += counts.ByStatus[status]
	}

	return counts, nil
}

// History returns the status audit trail of an order, oldest first
func (s *OrderService) History(orderID string) ([]models.StatusChange, error) {
	var changes []models.StatusChange
	err := s.db.
		Preload("Actor").
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&changes).Error
	if err != nil {
		return nil, &StoreUnavailableError{Cause: err}
	}
	return changes, nil
}

// Transition moves an order along one edge of the status workflow. The
// requested edge is validated against the adjacency table before anything
// touches the store, and the write itself is conditional on the status the
// order was read at, so a stale console cannot commit an edge the engine
// would reject. A StatusChange row is appended in the same transaction.
func (s *OrderService) Transition(orderID string, target models.OrderStatus, actor *models.User, note string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, &StoreUnavailableError{Cause: err}
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: order.Status, To: target}
	}

	from := order.Status
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Updates(map[string]interface{}{
				"status":     target,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return &StoreUnavailableError{Cause: result.Error}
		}
		if result.RowsAffected == 0 {
			// The read above succeeded, so the status must have changed
			// between read and write. Caller re-reads and retries.
			return ErrConflict
		}

		change := models.StatusChange{
			OrderID:    orderID,
			FromStatus: from,
			ToStatus:   target,
			ActorID:    actor.ID,
			Note:       note,
		}
		if err := tx.Create(&change).Error; err != nil {
			return &StoreUnavailableError{Cause: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(orderID)
}

// attachItemImageURLs fills in presigned URLs for item image snapshots.
// A missing S3 service or a presign failure never fails the listing;
// the item is simply returned without a URL.
func attachItemImageURLs(orders []models.Order) {
	s3Service := GetS3Service()
	if s3Service == nil {
		return
	}

	for i := range orders {
		for j := range orders[i].Items {
			item := &orders[i].Items[j]
			if item.ImageS3Key == nil || *item.ImageS3Key == "" {
				continue
			}
			url, err := s3Service.GetPresignedURL(*item.ImageS3Key)
			if err != nil {
				log.Printf("warning: failed to presign image %s: %v", *item.ImageS3Key, err)
				continue
			}
			item.ImageURL = &url
		}
	}
}
