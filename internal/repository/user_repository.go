package repository

import (
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/internal/util"
	"mlda_backend/pkg/dbctx"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(dbc dbctx.Context, user *model.User) error {
	return dbc.DB(r.DB).Create(user).Error
}

func (r *UserRepository) FindByID(dbc dbctx.Context, id string) (*model.User, error) {
	var user model.User
	err := dbc.DB(r.DB).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(dbc dbctx.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := dbc.DB(r.DB).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// AddXP 在数据库端累加经验值，用户不存在时不报错
func (r *UserRepository) AddXP(dbc dbctx.Context, userID string, xp int) error {
	if xp == 0 {
		return nil
	}
	return dbc.DB(r.DB).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("xp", gorm.Expr("xp + ?", xp)).
		Error
}

// FindTopByXP 排行榜数据库回退，和缓存一样只收录有经验值的用户
func (r *UserRepository) FindTopByXP(dbc dbctx.Context, limit int) ([]model.User, error) {
	var users []model.User
	err := dbc.DB(r.DB).Where("xp > 0").Order("xp DESC").Order("id ASC").Limit(limit).Find(&users).Error
	return users, err
}

// FindAllWithXP 用于重建排行榜缓存
func (r *UserRepository) FindAllWithXP(dbc dbctx.Context) ([]model.User, error) {
	var users []model.User
	err := dbc.DB(r.DB).Select("id", "xp").Where("xp > 0").Find(&users).Error
	return users, err
}
