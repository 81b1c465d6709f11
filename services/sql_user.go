package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

func (ds *SqlService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *SqlService) GetUserByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *SqlService) CreateUser(user *model.User) error {
	return ds.db.Create(user).Error
}

// RotateSession overwrites the stored session token unconditionally.
// Two racing logins both succeed; the later write wins and only the
// final token stays valid, which is exactly the single-device contract.
func (ds *SqlService) RotateSession(userID, sessionToken string, now time.Time) error {
	return ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"current_session_id": sessionToken,
		"last_login":         now,
		"updated_at":         now,
	}).Error
}

func (ds *SqlService) SetSuspension(userID string, suspended bool, reason string) (*model.User, error) {
	updates := map[string]interface{}{
		"is_suspended":      suspended,
		"suspension_reason": reason,
		"updated_at":        time.Now(),
	}

	res := ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return ds.GetUser(userID)
}

func (ds *SqlService) AddSubscription(sub *model.Subscription) error {
	return ds.db.Create(sub).Error
}

func (ds *SqlService) GetSubscriptions(userID string) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := ds.db.Where("user_id = ?", userID).Order("activated_at").Find(&subs).Error
	return subs, err
}

func (ds *SqlService) GetScores(userID string) ([]model.ScoreRecord, error) {
	var scores []model.ScoreRecord
	err := ds.db.Where("user_id = ?", userID).Order("taken_at").Find(&scores).Error
	return scores, err
}

// AppendScore persists a graded attempt. The unique (user, source) index
// is the authoritative duplicate guard: a concurrent double submission
// loses here with AlreadyAttempted, leaving history untouched.
func (ds *SqlService) AppendScore(record *model.ScoreRecord) error {
	if err := ds.db.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewAlreadyAttemptedError()
		}
		return err
	}
	return nil
}

func (ds *SqlService) HasAttempt(userID, sourceID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.ScoreRecord{}).
		Where("user_id = ? AND source_id = ?", userID, sourceID).
		Count(&count).Error
	return count > 0, err
}

func (ds *SqlService) ListStudents() ([]model.User, error) {
	var students []model.User
	err := ds.db.Where("role = ?", model.RoleStudent).Order("created_at DESC").Find(&students).Error
	return students, err
}

func (ds *SqlService) CountStudents() (int64, error) {
	var count int64
	err := ds.db.Model(&model.User{}).Where("role = ?", model.RoleStudent).Count(&count).Error
	return count, err
}
