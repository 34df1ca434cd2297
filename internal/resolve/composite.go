package resolve

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"galaxy-lookup/internal/geom"
	"galaxy-lookup/internal/nearest"

	"golang.org/x/sync/errgroup"
)

// Target 案件中的位置：自由文本或已知坐标（Coords 非空时跳过远程解析）
type Target struct {
	Text   string
	Coords *geom.Coordinate
}

// ParseTarget 形如 "x,y,z" 的文本视为坐标，其余视为名称
func ParseTarget(s string) Target {
	parts := strings.Split(s, ",")
	if len(parts) == 3 {
		var v [3]float64
		ok := true
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				ok = false
				break
			}
			v[i] = f
		}
		if ok {
			return Target{Text: s, Coords: &geom.Coordinate{X: v[0], Y: v[1], Z: v[2]}}
		}
	}
	return Target{Text: s}
}

func (t Target) String() string {
	if t.Coords != nil && t.Text == "" {
		return fmt.Sprintf("%g,%g,%g", t.Coords.X, t.Coords.Y, t.Coords.Z)
	}
	return t.Text
}

func (r *Resolver) ResolvePoint(ctx context.Context, t Target, opts Options) (*Resolution, error) {
	if t.Coords != nil {
		return &Resolution{
			Query:  t.String(),
			Name:   t.String(),
			Coords: *t.Coords,
			Source: SourceCoordinates,
			Stages: []Stage{StageStart, StageResolved},
		}, nil
	}
	return r.Resolve(ctx, t.Text, opts)
}

// Leg 两点间的距离与方位（From → To）
type Leg struct {
	From      *Resolution
	To        *Resolution
	Distance  float64
	Direction string
}

// Distance 并发解析两端后计算距离；任一端失败即返回该错误
func (r *Resolver) Distance(ctx context.Context, a, b Target, opts Options) (Leg, error) {
	var from, to *Resolution
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		from, err = r.ResolvePoint(gctx, a, opts)
		return err
	})
	g.Go(func() error {
		var err error
		to, err = r.ResolvePoint(gctx, b, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return Leg{}, err
	}
	return Leg{
		From:      from,
		To:        to,
		Distance:  geom.Distance(from.Coords, to.Coords),
		Direction: geom.Direction(from.Coords, to.Coords),
	}, nil
}

func (r *Resolver) Landmark(ctx context.Context, t Target, opts Options) (*Resolution, nearest.Result, error) {
	p, err := r.ResolvePoint(ctx, t, opts)
	if err != nil {
		return nil, nearest.Result{}, err
	}
	lm, err := r.finder.NearestLandmark(ctx, p.Coords)
	return p, lm, err
}

func (r *Resolver) DSSA(ctx context.Context, t Target, opts Options) (*Resolution, nearest.Result, error) {
	p, err := r.ResolvePoint(ctx, t, opts)
	if err != nil {
		return nil, nearest.Result{}, err
	}
	c, err := r.finder.NearestDSSA(ctx, p.Coords)
	return p, c, err
}

func (r *Resolver) Diversions(ctx context.Context, t Target, k int, opts Options) (*Resolution, []nearest.DiversionResult, error) {
	p, err := r.ResolvePoint(ctx, t, opts)
	if err != nil {
		return nil, nil, err
	}
	ds, err := r.finder.NearestDiversions(ctx, p.Coords, k)
	return p, ds, err
}
