// 包 normalize：把自由文本整理成上游期望的星系名形态，同时作为缓存键
package normalize

import (
	"errors"
	"regexp"
	"strings"

	"galaxy-lookup/internal/logger"

	"golang.org/x/text/unicode/norm"
)

// 程序化星系名：<扇区词...> <LL-L> <N[-N]>，例如 "EOL PROU RS-T D3-94"
var (
	designatorRe = regexp.MustCompile(`^[A-Z0-9]{2}-[A-Z0-9]$`)
	massCodeRe   = regexp.MustCompile(`^[A-Z0-9][A-Z0-9]+(-[A-Z0-9]+)?$`)
)

var errLayout = errors.New("procedural name layout mismatch")

// Key：NFKC 折叠、空白合并、转大写；指挥官缓存键直接使用
func Key(s string) string {
	s = norm.NFKC.String(s)
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// SystemName：Key 之后去掉尾部独立的 SYSTEM，并修复程序化星系名中的易混字符
// 约束：不返回错误；布局不符时记录 debug 日志并返回已做空白/大小写处理的结果
// 约束：幂等，SystemName(SystemName(s)) == SystemName(s)
func SystemName(s string) string {
	tokens := strings.Fields(Key(s))
	for len(tokens) > 1 && tokens[len(tokens)-1] == "SYSTEM" {
		tokens = tokens[:len(tokens)-1]
	}
	base := strings.Join(tokens, " ")
	if !strings.Contains(base, "-") {
		return base
	}
	out, err := procedural(tokens)
	if err != nil {
		logger.L().Debug("normalize_layout_mismatch", "name", base, "err", err)
		return base
	}
	return out
}

// procedural：保留到第一个带连字符的块及其后一个块为止，之后的内容丢弃
func procedural(tokens []string) (string, error) {
	idx := -1
	for i, t := range tokens {
		if strings.Contains(t, "-") {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(tokens) {
		return "", errLayout
	}
	designator, massCode := tokens[idx], tokens[idx+1]
	if !designatorRe.MatchString(designator) || !massCodeRe.MatchString(massCode) {
		return "", errLayout
	}
	out := make([]string, 0, idx+2)
	out = append(out, tokens[:idx]...)
	out = append(out, strings.Map(toLetter, designator), fixMassCode(massCode))
	return strings.Join(out, " "), nil
}

// 首位为质量代码字母，其余位置为数字
func fixMassCode(s string) string {
	r := []rune(s)
	r[0] = toLetter(r[0])
	for i := 1; i < len(r); i++ {
		r[i] = toDigit(r[i])
	}
	return string(r)
}

func toLetter(r rune) rune {
	switch r {
	case '0':
		return 'O'
	case '1':
		return 'I'
	case '5':
		return 'S'
	case '8':
		return 'B'
	}
	return r
}

func toDigit(r rune) rune {
	switch r {
	case 'O':
		return '0'
	case 'I':
		return '1'
	case 'S':
		return '5'
	case 'B':
		return '8'
	}
	return r
}
