package sheet

import (
	"fmt"
	"strings"

	"github.com/stockbook/internal/constants"
)

// 宽版分类结果常量
const (
	WidthClassRegular   = "regular"
	WidthClassWide      = "wide"
	WidthClassExtraWide = "extra_wide"
)

// Row 规范化后的一行快照数据
type Row struct {
	Index       int    // 数据区行号，0 对应表头之后的第一行
	RawStyle    string // 原始款式字段
	BaseStyle   string // 去掉宽版后缀的款式基码，未补零
	PaddedStyle string // 补零到 6 位的款式基码
	WidthTag    string // 宽版后缀：空、w、ww
	Color       string // 规范颜色，含宽版后缀
	Division    string
	Outsole     string
	Gender      string
	ImageURL    string
}

// BaseStyle 提取款式基码：取开头连续数字，没有数字时原样返回
func BaseStyle(raw string) string {
	trimmed := strings.TrimSpace(raw)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return trimmed
	}
	return trimmed[:end]
}

// WidthTag 提取宽版后缀，大小写不敏感
func WidthTag(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasSuffix(lowered, constants.WidthTagWide) {
		return constants.WidthTagWide
	}
	if strings.HasSuffix(lowered, constants.WidthTagRegular) {
		return constants.WidthTagRegular
	}
	return ""
}

// CanonicalColor 生成规范颜色：有宽版后缀时拼为 "{color} ({tag})"
func CanonicalColor(rawColor, widthTag string) string {
	color := strings.TrimSpace(rawColor)
	if widthTag == "" {
		return color
	}
	return fmt.Sprintf("%s (%s)", color, widthTag)
}

// PadStyle 将款式基码左侧补零到固定宽度
func PadStyle(style string) string {
	if len(style) >= constants.StyleCodeWidth {
		return style
	}
	return strings.Repeat("0", constants.StyleCodeWidth-len(style)) + style
}

// ItemID 生成规范主键 "{补零款式}_{规范颜色}"
func ItemID(paddedStyle, color string) string {
	return fmt.Sprintf("%s_%s", paddedStyle, color)
}

// WidthClass 根据规范颜色推导宽版分类，是颜色串的纯派生值
func WidthClass(color string) string {
	lowered := strings.ToLower(strings.TrimSpace(color))
	if strings.HasSuffix(lowered, "(ww)") {
		return WidthClassExtraWide
	}
	if strings.HasSuffix(lowered, "(w)") {
		return WidthClassWide
	}
	return WidthClassRegular
}

// NormalizeRow 把原始款式和颜色字段规范化为一行数据
func NormalizeRow(index int, rawStyle, rawColor string) Row {
	base := BaseStyle(rawStyle)
	tag := WidthTag(rawStyle)
	return Row{
		Index:       index,
		RawStyle:    strings.TrimSpace(rawStyle),
		BaseStyle:   base,
		PaddedStyle: PadStyle(base),
		WidthTag:    tag,
		Color:       CanonicalColor(rawColor, tag),
	}
}

// StyleGroup 同一款式基码下的行分组
type StyleGroup struct {
	BaseStyle   string   // 未补零的款式基码
	PaddedStyle string   // 补零后的款式基码
	Colors      []string // 规范颜色，按首次出现顺序去重
	Rows        []Row    // 与 Colors 一一对应的首次出现行
	Division    string   // 取分组内第一行
	Outsole     string
	Gender      string
}

// GroupRows 按款式基码分组并按首次出现顺序去重颜色。
// 款式基码为空的行不参与分组，否则补零后会伪造出 000000 款式。
func GroupRows(rows []Row) []*StyleGroup {
	var groups []*StyleGroup
	index := make(map[string]*StyleGroup)
	for _, row := range rows {
		if row.BaseStyle == "" {
			continue
		}
		group, ok := index[row.BaseStyle]
		if !ok {
			group = &StyleGroup{
				BaseStyle:   row.BaseStyle,
				PaddedStyle: row.PaddedStyle,
				Division:    row.Division,
				Outsole:     row.Outsole,
				Gender:      row.Gender,
			}
			index[row.BaseStyle] = group
			groups = append(groups, group)
		}
		if containsString(group.Colors, row.Color) {
			continue
		}
		group.Colors = append(group.Colors, row.Color)
		group.Rows = append(group.Rows, row)
	}
	return groups
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
