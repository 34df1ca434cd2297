package edsm

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"galaxy-lookup/internal/geom"
	"galaxy-lookup/internal/locerr"
	"galaxy-lookup/internal/logger"
)

// 文档注释：上游响应的严格解析边界
// 背景：上游字段偶有漂移；所有响应在此处一次性校验，缺失必填字段即返回 Return 错误，不向领域层泄漏松散结构。
// 约束：空载荷（[]、{}、null、空体）表示“无结果”，由调用方转为 nil。

// 指挥官接口状态码
const (
	msgOK        = 100
	msgAmbiguous = 201
	msgNotFound  = 203
)

type wireCoords struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

func (w *wireCoords) coordinate(op, what string) (geom.Coordinate, error) {
	if w == nil {
		return geom.Coordinate{}, locerr.Returnf(op, "%s: missing coords", what)
	}
	if w.X == nil || w.Y == nil || w.Z == nil {
		return geom.Coordinate{}, locerr.Returnf(op, "%s: incomplete coords", what)
	}
	c := geom.Coordinate{X: *w.X, Y: *w.Y, Z: *w.Z}
	for _, v := range []float64{c.X, c.Y, c.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geom.Coordinate{}, locerr.Returnf(op, "%s: non-finite coords", what)
		}
	}
	return c, nil
}

type wireSystem struct {
	Name        *string         `json:"name"`
	Coords      *wireCoords     `json:"coords"`
	Information json.RawMessage `json:"information"`
}

type wireSphereSystem struct {
	Name     *string     `json:"name"`
	Distance *float64    `json:"distance"`
	Coords   *wireCoords `json:"coords"`
}

type wireCommander struct {
	Msgnum      *int        `json:"msgnum"`
	Msg         string      `json:"msg"`
	System      *string     `json:"system"`
	Date        *string     `json:"date"`
	Coordinates *wireCoords `json:"coordinates"`
}

func isEmpty(b []byte) bool {
	t := bytes.TrimSpace(b)
	switch string(t) {
	case "", "[]", "{}", "null":
		return true
	}
	return false
}

func decodeSystem(b []byte) (*GalaxySystem, error) {
	const op = "edsm.system"
	if isEmpty(b) {
		return nil, nil
	}
	var w wireSystem
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, locerr.WrapReturn(op, err)
	}
	return w.toSystem(op)
}

func (w wireSystem) toSystem(op string) (*GalaxySystem, error) {
	if w.Name == nil || *w.Name == "" {
		return nil, locerr.Returnf(op, "missing name")
	}
	c, err := w.Coords.coordinate(op, *w.Name)
	if err != nil {
		return nil, err
	}
	return &GalaxySystem{Name: *w.Name, Coords: c, Information: information(w.Information)}, nil
}

// information 上游在无信息时返回 []，仅保留对象形态
func information(raw json.RawMessage) map[string]any {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return nil
	}
	return m
}

// decodeSystems 前缀搜索结果；没有坐标的条目无法定位，跳过
func decodeSystems(b []byte) ([]GalaxySystem, error) {
	const op = "edsm.systems"
	if isEmpty(b) {
		return nil, nil
	}
	var ws []wireSystem
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, locerr.WrapReturn(op, err)
	}
	out := make([]GalaxySystem, 0, len(ws))
	for _, w := range ws {
		if w.Name == nil || *w.Name == "" {
			return nil, locerr.Returnf(op, "missing name")
		}
		if w.Coords == nil {
			logger.L().Debug("edsm_system_without_coords", "name", *w.Name)
			continue
		}
		s, err := w.toSystem(op)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func decodeSphere(b []byte) ([]NearbySystem, error) {
	const op = "edsm.sphere"
	if isEmpty(b) {
		return nil, nil
	}
	var ws []wireSphereSystem
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, locerr.WrapReturn(op, err)
	}
	out := make([]NearbySystem, 0, len(ws))
	for _, w := range ws {
		if w.Name == nil || *w.Name == "" {
			return nil, locerr.Returnf(op, "missing name")
		}
		if w.Distance == nil {
			return nil, locerr.Returnf(op, "%s: missing distance", *w.Name)
		}
		n := NearbySystem{Name: *w.Name, Distance: *w.Distance}
		if w.Coords != nil {
			c, err := w.Coords.coordinate(op, *w.Name)
			if err != nil {
				return nil, err
			}
			n.Coords = c
		}
		out = append(out, n)
	}
	return out, nil
}

// decodeCommander 203 与私密档案（100 但无星系）返回 nil；201 为 Ambiguous
func decodeCommander(b []byte, name string) (*Commander, error) {
	const op = "edsm.commander"
	if isEmpty(b) {
		return nil, nil
	}
	var w wireCommander
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, locerr.WrapReturn(op, err)
	}
	if w.Msgnum == nil {
		return nil, locerr.Returnf(op, "missing msgnum")
	}
	switch *w.Msgnum {
	case msgNotFound:
		return nil, nil
	case msgAmbiguous:
		return nil, locerr.Ambiguousf(op, "msgnum %d: %s", *w.Msgnum, w.Msg)
	case msgOK:
	default:
		return nil, locerr.Ambiguousf(op, "unexpected msgnum %d: %s", *w.Msgnum, w.Msg)
	}
	if w.System == nil || *w.System == "" {
		return nil, nil
	}
	c, err := w.Coordinates.coordinate(op, name)
	if err != nil {
		return nil, err
	}
	cmdr := &Commander{Name: name, System: *w.System, Coords: c, StatusCode: *w.Msgnum}
	if w.Date != nil && *w.Date != "" {
		t, err := time.ParseInLocation(DateLayout, *w.Date, time.UTC)
		if err != nil {
			return nil, locerr.WrapReturn(op, err)
		}
		cmdr.Date = &t
	}
	return cmdr, nil
}
