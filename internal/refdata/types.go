package refdata

import (
	"context"
	"errors"
	"fmt"
	"math"

	"galaxy-lookup/internal/geom"
)

type Landmark struct {
	Name   string          `json:"name" yaml:"name"`
	Coords geom.Coordinate `json:"coords" yaml:"coords"`
}

// Carrier 深空支援（DSSA）舰载母舰的部署位置
type Carrier struct {
	Name   string          `json:"name" yaml:"name"`
	Coords geom.Coordinate `json:"coords" yaml:"coords"`
}

// DiversionStation 可供转向的空间站；DistanceFromStar 为站点到主星的距离（ls）
type DiversionStation struct {
	Name             string          `json:"name" yaml:"name"`
	SystemName       string          `json:"system_name" yaml:"system_name"`
	DistanceFromStar float64         `json:"distance_from_star" yaml:"distance_from_star"`
	Coords           geom.Coordinate `json:"coords" yaml:"coords"`
}

// Source 数据集来源；Store 本身也满足该接口
type Source interface {
	Landmarks(ctx context.Context) ([]Landmark, error)
	Carriers(ctx context.Context) ([]Carrier, error)
	Diversions(ctx context.Context) ([]DiversionStation, error)
}

var errEmptyName = errors.New("empty name")

func checkCoords(name string, c geom.Coordinate) error {
	for _, v := range []float64{c.X, c.Y, c.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: non-finite coords", name)
		}
	}
	return nil
}

func (l Landmark) validate() error {
	if l.Name == "" {
		return errEmptyName
	}
	return checkCoords(l.Name, l.Coords)
}

func (c Carrier) validate() error {
	if c.Name == "" {
		return errEmptyName
	}
	return checkCoords(c.Name, c.Coords)
}

func (d DiversionStation) validate() error {
	if d.Name == "" || d.SystemName == "" {
		return errEmptyName
	}
	if d.DistanceFromStar < 0 || math.IsNaN(d.DistanceFromStar) {
		return fmt.Errorf("%s: invalid distance_from_star", d.Name)
	}
	return checkCoords(d.Name, d.Coords)
}
