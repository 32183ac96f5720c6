package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 分页默认值
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// XPPerLevel 每多少经验升一级
const XPPerLevel = 200
