package repository

import (
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/internal/util"
	"mlda_backend/pkg/dbctx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByCode(dbc dbctx.Context, code string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := dbc.DB(r.DB).Where("code = ?", code).First(&achievement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAchievementNotFound
		}
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) FindAll(dbc dbctx.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := dbc.DB(r.DB).Order("code ASC").Find(&achievements).Error
	return achievements, err
}

// Create 新增成就定义，编码重复时返回 ErrAchievementCodeTaken
func (r *AchievementRepository) Create(dbc dbctx.Context, achievement *model.Achievement) error {
	res := dbc.DB(r.DB).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(achievement)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrAchievementCodeTaken
	}
	return nil
}

// Grant 插入发放记录。已经存在时不报错，返回 false
func (r *AchievementRepository) Grant(dbc dbctx.Context, userID, achievementID string) (bool, error) {
	grant := &model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
	}
	res := dbc.DB(r.DB).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByUserID 获取指定用户的所有成就，最近获得的在前
func (r *AchievementRepository) FindByUserID(dbc dbctx.Context, userID string) ([]model.UserAchievement, error) {
	var grants []model.UserAchievement
	err := dbc.DB(r.DB).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *AchievementRepository) CountGrants(dbc dbctx.Context, userID, code string) (int64, error) {
	var count int64
	err := dbc.DB(r.DB).Model(&model.UserAchievement{}).
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ? AND achievements.code = ?", userID, code).
		Count(&count).Error
	return count, err
}
