// Package notify stores per-user notifications and mirrors new ones onto
// the realtime gateway.
package notify

import (
	"errors"

	"gorm.io/gorm"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/pkg/pagination"
	"github.com/trendscope/core/internal/pkg/response"
)

const (
	TypeNewContent   = "new_content"
	TypeAnalysisDone = "analysis_done"
	TypeSystem       = "system"
)

// Broadcaster fans notification events out to realtime subscribers.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

type Service struct {
	db  *gorm.DB
	hub Broadcaster
}

func NewService(db *gorm.DB, hub Broadcaster) *Service {
	return &Service{db: db, hub: hub}
}

func (s *Service) List(userID string, q pagination.Query, unreadOnly bool) ([]models.NotificationModel, response.Pagination, error) {
	tx := s.db.Model(&models.NotificationModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if unreadOnly {
		tx = tx.Where("`read` = ?", false)
	}

	var items []models.NotificationModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.NotificationModel{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	return count, err
}

// Push stores a notification and broadcasts it to the gateway.
func (s *Service) Push(userID, notifType, title, message, refID string) (*models.NotificationModel, error) {
	n := models.NotificationModel{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		RefID:   refID,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Broadcast("notification:new", n)
	}
	return &n, nil
}

func (s *Service) MarkRead(userID, id string) (bool, error) {
	res := s.db.Model(&models.NotificationModel{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) MarkAllRead(userID string) (int64, error) {
	res := s.db.Model(&models.NotificationModel{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (s *Service) Delete(userID, id string) (bool, error) {
	res := s.db.Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.NotificationModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) Get(userID, id string) (*models.NotificationModel, error) {
	var n models.NotificationModel
	err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}
