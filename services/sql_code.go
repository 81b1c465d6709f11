package services

import (
	"time"

	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

func (ds *SqlService) CreateCodes(codes []model.RedemptionCode) error {
	return ds.db.CreateInBatches(codes, 100).Error
}

// ClaimCode consumes an unused code matching the student's grade. The
// single conditional UPDATE is the whole race: of any number of
// concurrent redemptions, exactly one flips is_used and the rest see
// zero rows affected. A wrong grade, an unknown code and an already
// used code are indistinguishable to the caller on purpose.
func (ds *SqlService) ClaimCode(code, grade, userID string, now time.Time) (*model.RedemptionCode, error) {
	res := ds.db.Model(&model.RedemptionCode{}).
		Where("code = ? AND grade = ? AND is_used = ?", code, grade, false).
		Updates(map[string]interface{}{
			"is_used":    true,
			"used_by":    userID,
			"used_at":    now,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, shared.NewNotFoundError(nil, "Invalid code")
	}

	var claimed model.RedemptionCode
	if err := ds.db.Where("code = ?", code).First(&claimed).Error; err != nil {
		return nil, err
	}
	return &claimed, nil
}

func (ds *SqlService) CountCodes(used bool) (int64, error) {
	var count int64
	err := ds.db.Model(&model.RedemptionCode{}).Where("is_used = ?", used).Count(&count).Error
	return count, err
}
