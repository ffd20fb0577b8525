// Package saved persists the items a user bookmarked. The content payload
// is denormalized into the row because the upstream feeds rotate.
package saved

import (
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/trendscope/core/internal/models"
	"github.com/trendscope/core/internal/modules/content"
	"github.com/trendscope/core/internal/pkg/pagination"
	"github.com/trendscope/core/internal/pkg/response"
)

var ErrAlreadySaved = errors.New("item already saved")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(userID string, q pagination.Query, contentType string) ([]models.SavedItemModel, response.Pagination, error) {
	tx := s.db.Model(&models.SavedItemModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if contentType != "" {
		tx = tx.Where("content_type = ?", contentType)
	}

	var items []models.SavedItemModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) Save(userID string, item content.Item) (*models.SavedItemModel, error) {
	var existing models.SavedItemModel
	err := s.db.Where("user_id = ? AND item_id = ?", userID, item.ID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadySaved
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	saved := models.SavedItemModel{
		UserID:      userID,
		ItemID:      item.ID,
		Title:       item.Title,
		ContentType: string(item.ContentType),
		Summary:     item.Summary,
		Tags:        models.StringArray(item.Tags),
		Author:      item.Author,
		Source:      item.Source,
		URL:         item.URL,
	}
	if err := s.db.Create(&saved).Error; err != nil {
		var mysqlErr *mysqlDriver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrAlreadySaved
		}
		return nil, err
	}
	return &saved, nil
}

func (s *Service) Delete(userID, id string) (bool, error) {
	res := s.db.Where("user_id = ? AND (id = ? OR item_id = ?)", userID, id, id).
		Delete(&models.SavedItemModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SavedIDs returns the set of source item ids the user has bookmarked,
// letting list views mark items without a join.
func (s *Service) SavedIDs(userID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.SavedItemModel{}).
		Where("user_id = ?", userID).
		Pluck("item_id", &ids).Error
	return ids, err
}
