package model

import "time"

// RedemptionCode is a single-use subscription code. The used flag flips
// false -> true exactly once; the claim is a conditional update keyed on
// is_used = false so two concurrent redemptions can never both win.
type RedemptionCode struct {
	ID     string `json:"id" gorm:"primaryKey"`
	Code   string `json:"code" gorm:"uniqueIndex;not null"`
	Month  string `json:"month" gorm:"not null"`
	Grade  string `json:"grade" gorm:"not null"`
	Branch string `json:"branch"`

	IsUsed bool       `json:"is_used" gorm:"default:false;index"`
	UsedBy *string    `json:"used_by"`
	UsedAt *time.Time `json:"used_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
