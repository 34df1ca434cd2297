// 文档注释：银河坐标与距离、方位计算
// 背景：坐标单位为光年，Sol 位于原点；距离用于最近地标与航程，方位用于提示前进方向。
// 约束：全部为纯函数，无状态、无 I/O。
package geom

import (
	"math"

	"github.com/golang/geo/r3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Coordinate 银河坐标（光年）
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (c Coordinate) vector() r3.Vector { return r3.Vector{X: c.X, Y: c.Y, Z: c.Z} }

// Directions 八方位标签，自北（+Z）起顺时针排列
var Directions = [8]string{"North", "NE", "East", "SE", "South", "SW", "West", "NW"}

// Distance 欧氏距离，四舍五入到两位小数
func Distance(a, b Coordinate) float64 {
	d := a.vector().Sub(b.vector()).Norm()
	return math.Round(d*100) / 100
}

var printer = message.NewPrinter(language.English)

// FormatDistance 千分位加两位小数，如 "25,899.99"
func FormatDistance(d float64) string {
	return printer.Sprintf("%.2f", d)
}

// 文档注释：from 指向 to 的八方位标签
// 约束：只看银道面（X/Z），忽略 Y；两点重合时返回 "North"。
func Direction(from, to Coordinate) string {
	return Directions[sector(Bearing(from, to))]
}

// Bearing from 指向 to 的方位角（度），取值 [0, 360)，自 +Z 向 +X 顺时针计
func Bearing(from, to Coordinate) float64 {
	theta := math.Atan2(to.X-from.X, to.Z-from.Z) * 180 / math.Pi
	if theta < 0 {
		theta += 360
	}
	if theta >= 360 {
		theta -= 360
	}
	return theta
}

func sector(theta float64) int {
	return int(math.Round(theta/45)) % 8
}
