// 包 resolve：把自由文本（星系名、指挥官名或坐标）解析为银河坐标，并组合距离与最近邻查询
package resolve

import (
	"context"
	"strings"

	"galaxy-lookup/internal/edsm"
	"galaxy-lookup/internal/geom"
	"galaxy-lookup/internal/locerr"
	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/nearest"
	"galaxy-lookup/internal/normalize"

	"github.com/agnivade/levenshtein"
)

// FuzzyAttempts 模糊搜索的最大截断次数
const FuzzyAttempts = 5

type Stage int

const (
	StageStart Stage = iota
	StageExactSystemTried
	StageCommanderTried
	StageFuzzySearching
	StageResolved
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageExactSystemTried:
		return "exact_system_tried"
	case StageCommanderTried:
		return "commander_tried"
	case StageFuzzySearching:
		return "fuzzy_searching"
	case StageResolved:
		return "resolved"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// Source 结果来自哪一步
type Source string

const (
	SourceSystem      Source = "system"
	SourceCommander   Source = "commander"
	SourceFuzzy       Source = "fuzzy"
	SourceCoordinates Source = "coordinates"
)

type Options struct {
	Fuzzy         bool
	CacheOverride bool
}

// Resolution 解析结果；Stages 为本次调用经过的状态序列，最后一项为 StageResolved
type Resolution struct {
	Query     string
	Name      string
	Coords    geom.Coordinate
	Source    Source
	Commander string
	Time      string
	Attempts  int
	Stages    []Stage
}

type SystemLookup interface {
	GetInfo(ctx context.Context, name string, override bool) (*edsm.GalaxySystem, error)
	SearchByPrefix(ctx context.Context, prefix string) ([]edsm.GalaxySystem, error)
}

type CommanderLookup interface {
	Location(ctx context.Context, name string, override bool) (*edsm.Location, error)
}

// 文档注释：解析编排器（精确星系 → 指挥官位置 → 可选模糊搜索）
// 背景：救援案件里给出的位置可能是星系名、指挥官名或带拼写错误的星系名；按固定顺序逐级尝试。
// 约束：Connection/Return/Ambiguous 错误立即终止并原样返回；全部未命中返回 NotFound。
type Resolver struct {
	systems    SystemLookup
	commanders CommanderLookup
	finder     *nearest.Finder
}

func NewResolver(systems SystemLookup, commanders CommanderLookup, finder *nearest.Finder) *Resolver {
	return &Resolver{systems: systems, commanders: commanders, finder: finder}
}

func (r *Resolver) Resolve(ctx context.Context, text string, opts Options) (*Resolution, error) {
	res := &Resolution{Query: text, Stages: []Stage{StageStart}}

	sys, err := r.systems.GetInfo(ctx, text, opts.CacheOverride)
	res.Stages = append(res.Stages, StageExactSystemTried)
	if err != nil {
		return nil, err
	}
	if sys != nil {
		return res.resolved(sys.Name, sys.Coords, SourceSystem), nil
	}

	loc, err := r.commanders.Location(ctx, text, opts.CacheOverride)
	res.Stages = append(res.Stages, StageCommanderTried)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		res.Commander = strings.Join(strings.Fields(text), " ")
		res.Time = loc.Time
		return res.resolved(loc.System, loc.Coordinates, SourceCommander), nil
	}

	if opts.Fuzzy {
		res.Stages = append(res.Stages, StageFuzzySearching)
		match, attempts, err := r.fuzzy(ctx, text)
		res.Attempts = attempts
		if err != nil {
			return nil, err
		}
		if match != nil {
			logger.L().Debug("resolve_fuzzy_match", "query", text, "match", match.Name, "attempts", attempts)
			return res.resolved(match.Name, match.Coords, SourceFuzzy), nil
		}
	}

	res.Stages = append(res.Stages, StageFailed)
	logger.L().Debug("resolve_not_found", "query", text, "fuzzy", opts.Fuzzy, "attempts", res.Attempts)
	return nil, locerr.NotFoundf("resolve", "%q matched no system or commander", text)
}

func (res *Resolution) resolved(name string, c geom.Coordinate, src Source) *Resolution {
	res.Name = name
	res.Coords = c
	res.Source = src
	res.Stages = append(res.Stages, StageResolved)
	return res
}

// fuzzy 逐次去掉末尾一个字符（并去掉随之暴露的尾部空格）后做前缀搜索，最多 FuzzyAttempts 次。
// 约束：第一个非空结果集即为最终结果集，不再继续截断。
// 约束：结果集内不直接取上游首项，而是取与本次搜索文本编辑距离最小者，距离相同取上游顺序靠前者；
// 上游前缀搜索按字母序返回，首项常是更长的同前缀名称（如 DELKARKA 排在 DELKAR 之前）。
func (r *Resolver) fuzzy(ctx context.Context, text string) (*edsm.GalaxySystem, int, error) {
	q := normalize.SystemName(text)
	attempts := 0
	for attempts < FuzzyAttempts {
		q = truncate(q)
		if q == "" {
			break
		}
		attempts++
		list, err := r.systems.SearchByPrefix(ctx, q)
		if err != nil {
			return nil, attempts, err
		}
		if len(list) > 0 {
			best := closestName(list, q)
			return &best, attempts, nil
		}
	}
	return nil, attempts, nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	return strings.TrimRight(string(r[:len(r)-1]), " ")
}

func closestName(list []edsm.GalaxySystem, target string) edsm.GalaxySystem {
	best, bestD := 0, -1
	for i, s := range list {
		d := levenshtein.ComputeDistance(strings.ToUpper(s.Name), target)
		if bestD < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return list[best]
}
