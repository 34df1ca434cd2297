// 文档注释：查询链路的错误分类
// 背景：上游查询、解析与最近邻各层只返回这里定义的几类错误，命令行据此给出提示文案。
// 约束：分类集合封闭；调用方按 KindOf(err) 分支，或用 errors.Is 对比哨兵值。
package locerr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	// 上游不可达、超时或返回非 2xx
	KindConnection Kind = "connection"
	// 上游有应答但负载结构不合法
	KindReturn Kind = "return"
	// 解析链全部阶段均未命中
	KindNotFound Kind = "not_found"
	// 坐标已解析，但上限范围内没有地标
	KindNoNearby Kind = "no_nearby"
	// 上游返回可识别但无法使用的状态
	KindAmbiguous Kind = "ambiguous"
	// KindOf 对本包以外的错误返回该值
	KindUnknown Kind = "unknown"
)

// Kinds 调用方需要处理的全部类别
var Kinds = []Kind{KindConnection, KindReturn, KindNotFound, KindNoNearby, KindAmbiguous}

// 哨兵值，供 errors.Is 按类别匹配
var (
	ErrConnection = &Error{Kind: KindConnection}
	ErrReturn     = &Error{Kind: KindReturn}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrNoNearby   = &Error{Kind: KindNoNearby}
	ErrAmbiguous  = &Error{Kind: KindAmbiguous}
)

type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := string(e.Kind)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同类别即匹配，忽略 Op 与 Msg
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Connection(op string, err error) error {
	return &Error{Kind: KindConnection, Op: op, Err: err}
}

func Returnf(op string, format string, args ...any) error {
	return &Error{Kind: KindReturn, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func WrapReturn(op string, err error) error {
	return &Error{Kind: KindReturn, Op: op, Err: err}
}

func NotFoundf(op string, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func NoNearbyf(op string, format string, args ...any) error {
	return &Error{Kind: KindNoNearby, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Ambiguousf(op string, format string, args ...any) error {
	return &Error{Kind: KindAmbiguous, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf 错误链中第一个 *Error 的类别
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
