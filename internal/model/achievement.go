package model

import (
	"time"

	"gorm.io/gorm"
)

// 内置成就编码，成就本身由管理员在后台创建
const (
	AchievementCourseCompleted  = "COURSE_COMPLETED"
	AchievementPerfectQuizScore = "PERFECT_QUIZ_SCORE"
)

// swagger:model Achievement
type Achievement struct {
	UUIDBase
	Code        string `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	XPReward    int    `gorm:"default:0" json:"xpReward"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 成就发放记录，(user_id, achievement_id) 上的唯一索引保证同一成就只发一次
// swagger:model UserAchievement
type UserAchievement struct {
	ID            string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string      `gorm:"type:varchar(36);uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID string      `gorm:"type:varchar(36);uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	EarnedAt      time.Time   `gorm:"not null" json:"earnedAt"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) (err error) {
	if ua.ID == "" {
		ua.ID = GenerateUUID()
	}
	if ua.EarnedAt.IsZero() {
		ua.EarnedAt = time.Now()
	}
	return
}
