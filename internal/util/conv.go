package util

import (
	"strconv"
)

// ParseLimit 解析分页大小，非法值回退到默认值，并限制最大值
func ParseLimit(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// CalculateLevel 按经验值计算当前等级和下一等级所需经验
func CalculateLevel(xp int) (int, int) {
	level := xp / XPPerLevel
	nextLevelXP := (level + 1) * XPPerLevel
	return level, nextLevelXP
}
