package character

import (
	"cmp"
	"slices"
)

// ElementCode 是角色表 element_id 中使用的属性代码
type ElementCode int64

const (
	ElementElectric ElementCode = 100001
	ElementFire     ElementCode = 200001
	ElementWater    ElementCode = 300001
	ElementWind     ElementCode = 400001
	ElementIron     ElementCode = 500001
)

// unknown 是所有缺省文本字段的默认值
const unknown = "Unknown"

// Name 返回属性代码对应的可读名称，未知代码返回 "Unknown"
func (c ElementCode) Name() string {
	switch c {
	case ElementElectric:
		return "Electric"
	case ElementFire:
		return "Fire"
	case ElementWater:
		return "Water"
	case ElementWind:
		return "Wind"
	case ElementIron:
		return "Iron"
	default:
		return unknown
	}
}

// ElementName 只看 element_id 的第一个代码
func ElementName(codes []int64) string {
	if len(codes) == 0 {
		return unknown
	}
	return ElementCode(codes[0]).Name()
}

// missingOrder 让缺少 order 的角色排在最后
const missingOrder = 999999

// SortCharacters 按 (order, id) 升序稳定排序
func SortCharacters(chars []OutputCharacter) {
	slices.SortStableFunc(chars, func(a, b OutputCharacter) int {
		if c := cmp.Compare(a.sortOrder, b.sortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
