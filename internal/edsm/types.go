package edsm

import (
	"maps"
	"time"

	"galaxy-lookup/internal/geom"
)

// UnknownTime 指挥官位置缺少时间戳时的占位文本
const UnknownTime = "unknown date and time"

// DateLayout 上游 date 字段格式（UTC）
const DateLayout = "2006-01-02 15:04:05"

type GalaxySystem struct {
	Name        string          `json:"name"`
	Coords      geom.Coordinate `json:"coords"`
	Information map[string]any  `json:"information,omitempty"`
}

// clone 复制 Information 顶层映射，调用方修改返回值不影响缓存中的条目
func (g GalaxySystem) clone() *GalaxySystem {
	g.Information = maps.Clone(g.Information)
	return &g
}

// Commander 指挥官最近一次上报的位置；Date 为空表示时间未知
type Commander struct {
	Name       string          `json:"name"`
	System     string          `json:"system"`
	Coords     geom.Coordinate `json:"coords"`
	Date       *time.Time      `json:"date,omitempty"`
	StatusCode int             `json:"status_code"`
}

type Location struct {
	System      string
	Coordinates geom.Coordinate
	Time        string
}

// NearbySystem 球形搜索结果中的一项；Distance 为上游给出的距离（ly）
type NearbySystem struct {
	Name     string
	Distance float64
	Coords   geom.Coordinate
}
