package service

import (
	"context"
	"errors"
	"fmt"
	"mlda_backend/internal/model"
	"mlda_backend/internal/repository"
	"mlda_backend/internal/util"
	"mlda_backend/pkg/dbctx"
	"mlda_backend/pkg/logger"
	"mlda_backend/pkg/monitoring"
	"mlda_backend/pkg/tracing"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AwardResult 发放结果
type AwardResult string

const (
	AwardGranted        AwardResult = "granted"
	AwardAlreadyGranted AwardResult = "already_granted"
	// AwardSkipped 成就编码不在成就目录中，不报错
	AwardSkipped AwardResult = "skipped"
)

// AwardOutcome 一次发放调用的结果，XPReward 只在 AwardGranted 时有值
type AwardOutcome struct {
	UserID   string      `json:"userId"`
	Code     string      `json:"code"`
	Result   AwardResult `json:"result"`
	XPReward int         `json:"xpReward"`
}

func (o AwardOutcome) Granted() bool {
	return o.Result == AwardGranted
}

type AchievementService struct {
	DB              *gorm.DB
	AchievementRepo *repository.AchievementRepository
	UserRepo        *repository.UserRepository
	Leaderboard     *LeaderboardCache
	LeaderboardSize int
}

func NewAchievementService(
	db *gorm.DB,
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	leaderboard *LeaderboardCache,
	leaderboardSize int,
) *AchievementService {
	if leaderboardSize <= 0 {
		leaderboardSize = util.DefaultLimit
	}
	return &AchievementService{
		DB:              db,
		AchievementRepo: achievementRepo,
		UserRepo:        userRepo,
		Leaderboard:     leaderboard,
		LeaderboardSize: leaderboardSize,
	}
}

type UserAchievements struct {
	TotalXP      int                     `json:"totalXp"`
	CurrentLevel int                     `json:"currentLevel"`
	NextLevelXP  int                     `json:"nextLevelXp"`
	Badges       []model.UserAchievement `json:"badges"`
	Leaderboard  []LeaderboardEntry      `json:"leaderboard"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
}

type CreateAchievementRequest struct {
	Code        string `json:"code" binding:"required,max=64"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Icon        string `json:"icon" binding:"max=255"`
	XPReward    int    `json:"xpReward" binding:"min=0"`
}

// Award 在调用方的事务中发放成就。
// 同一用户同一成就只会成功一次，重复调用返回 AwardAlreadyGranted；
// 编码不存在时返回 AwardSkipped。指标和缓存由调用方在提交后通过 Publish 更新。
func (s *AchievementService) Award(dbc dbctx.Context, userID, code string) (AwardOutcome, error) {
	outcome := AwardOutcome{UserID: userID, Code: code}

	achievement, err := s.AchievementRepo.FindByCode(dbc, code)
	if err != nil {
		if errors.Is(err, util.ErrAchievementNotFound) {
			logger.Log.Warn("Achievement code not in catalog, skipping award",
				zap.String("code", code),
				zap.String("userId", userID),
			)
			outcome.Result = AwardSkipped
			return outcome, nil
		}
		return outcome, fmt.Errorf("find achievement %s: %w", code, err)
	}

	granted, err := s.AchievementRepo.Grant(dbc, userID, achievement.ID)
	if err != nil {
		return outcome, fmt.Errorf("grant achievement %s: %w", code, err)
	}
	if !granted {
		outcome.Result = AwardAlreadyGranted
		return outcome, nil
	}

	if err := s.UserRepo.AddXP(dbc, userID, achievement.XPReward); err != nil {
		return outcome, fmt.Errorf("add xp: %w", err)
	}

	outcome.Result = AwardGranted
	outcome.XPReward = achievement.XPReward
	return outcome, nil
}

// Publish 事务提交后调用：记录指标，新发放的成就同步到排行榜缓存
func (s *AchievementService) Publish(ctx context.Context, outcome AwardOutcome) {
	monitoring.AchievementGrants.WithLabelValues(outcome.Code, string(outcome.Result)).Inc()
	if !outcome.Granted() {
		return
	}

	logger.Log.Info("Achievement granted",
		zap.String("userId", outcome.UserID),
		zap.String("code", outcome.Code),
		zap.Int("xpReward", outcome.XPReward),
	)
	if err := s.Leaderboard.AddXP(ctx, outcome.UserID, outcome.XPReward); err != nil {
		logger.Log.Warn("Failed to update leaderboard cache", zap.String("userId", outcome.UserID), zap.Error(err))
	}
}

// AwardAchievementToUser 独立事务发放成就，供后台和其他模块调用
func (s *AchievementService) AwardAchievementToUser(ctx context.Context, userID, code string) (outcome AwardOutcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "AchievementService.AwardAchievementToUser",
		attribute.String("user.id", userID),
		attribute.String("achievement.code", code),
	)
	defer func() { tracing.EndSpan(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)
		if _, err := s.UserRepo.FindByID(dbc, userID); err != nil {
			return err
		}
		var err error
		outcome, err = s.Award(dbc, userID, code)
		return err
	})
	if err != nil {
		return AwardOutcome{}, err
	}

	s.Publish(ctx, outcome)
	return outcome, nil
}

func (s *AchievementService) CreateAchievement(ctx context.Context, req CreateAchievementRequest) (*model.Achievement, error) {
	achievement := &model.Achievement{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Icon:        req.Icon,
		XPReward:    req.XPReward,
	}
	if err := s.AchievementRepo.Create(dbctx.New(ctx), achievement); err != nil {
		return nil, err
	}

	logger.Log.Info("Achievement created", zap.String("code", achievement.Code), zap.String("id", achievement.ID))
	return achievement, nil
}

func (s *AchievementService) GetUserAchievements(ctx context.Context, userID string) (*UserAchievements, error) {
	var (
		user        *model.User
		badges      []model.UserAchievement
		leaderboard []LeaderboardEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.UserRepo.FindByID(dbctx.New(gctx), userID)
		return err
	})
	g.Go(func() error {
		var err error
		badges, err = s.AchievementRepo.FindByUserID(dbctx.New(gctx), userID)
		return err
	})
	g.Go(func() error {
		var err error
		leaderboard, err = s.GetLeaderboard(gctx, s.LeaderboardSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	level, nextLevelXP := util.CalculateLevel(user.XP)
	return &UserAchievements{
		TotalXP:      user.XP,
		CurrentLevel: level,
		NextLevelXP:  nextLevelXP,
		Badges:       badges,
		Leaderboard:  leaderboard,
	}, nil
}

// GetLeaderboard 优先读 Redis 缓存，缓存不可用或为空时回退到数据库
func (s *AchievementService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.LeaderboardSize
	}

	if s.Leaderboard.Enabled() {
		entries, err := s.leaderboardFromCache(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			logger.Log.Warn("Leaderboard cache read failed, falling back to database", zap.Error(err))
		}
	}

	users, err := s.UserRepo.FindTopByXP(dbctx.New(ctx), limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		leaderboard[i] = LeaderboardEntry{
			Rank:   i + 1,
			UserID: user.ID,
			User:   user.Name,
			XP:     user.XP,
		}
	}
	return leaderboard, nil
}

func (s *AchievementService) leaderboardFromCache(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	top, err := s.Leaderboard.Top(ctx, limit)
	if err != nil || len(top) == 0 {
		return nil, err
	}

	ids := make([]string, 0, len(top))
	for _, z := range top {
		if id, ok := z.Member.(string); ok {
			ids = append(ids, id)
		}
	}
	users, err := s.UserRepo.FindByIDs(dbctx.New(ctx), ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for _, z := range top {
		id, _ := z.Member.(string)
		name, ok := names[id]
		if !ok {
			// 用户已删除
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:   len(entries) + 1,
			UserID: id,
			User:   name,
			XP:     int(z.Score),
		})
	}
	return entries, nil
}

// WarmLeaderboard 启动时用数据库重建排行榜缓存
func (s *AchievementService) WarmLeaderboard(ctx context.Context) error {
	if !s.Leaderboard.Enabled() {
		return nil
	}
	users, err := s.UserRepo.FindAllWithXP(dbctx.New(ctx))
	if err != nil {
		return err
	}
	if err := s.Leaderboard.Warm(ctx, users); err != nil {
		return err
	}
	logger.Log.Info("Leaderboard cache warmed", zap.Int("users", len(users)))
	return nil
}
