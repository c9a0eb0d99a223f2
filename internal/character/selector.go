package character

import (
	"encoding/json"
	"slices"

	"go.uber.org/zap"
)

// baseGrade 是基础突破等级，grade_core_id 缺失时也视为基础等级
const baseGrade = 1

// BaseCharacter 是筛选出的基础角色，完整记录延迟到格式化时再解析
type BaseCharacter struct {
	ResourceID int64
	Raw        json.RawMessage
}

// Decode 把原始记录解析为 CharacterRecord
func (b BaseCharacter) Decode() (CharacterRecord, error) {
	var rec CharacterRecord
	err := json.Unmarshal(b.Raw, &rec)
	return rec, err
}

// BaseCharacters 按 resource_id 索引基础角色
type BaseCharacters map[int64]BaseCharacter

// ResourceIDs 返回升序排列的 resource_id 列表
func (b BaseCharacters) ResourceIDs() []int64 {
	ids := make([]int64, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// selectionHeader 只包含筛选需要的三个字段。
// is_visible 按真假值判断，1 和 true 都算可见
type selectionHeader struct {
	ResourceID  *int64          `json:"resource_id"`
	GradeCoreID *json.Number    `json:"grade_core_id"`
	IsVisible   json.RawMessage `json:"is_visible"`
}

// SelectBase 从角色表中提取可见的基础角色。
// 同一 resource_id 的多个突破等级只保留 grade_core_id 为1的那条，其余等级直接丢弃
func SelectBase(doc *Document, logger *zap.Logger) BaseCharacters {
	characters := make(BaseCharacters)
	if doc == nil {
		return characters
	}

	for i, raw := range doc.Records {
		var header selectionHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			logger.Warn("跳过无法识别的角色记录", zap.Int("row", i), zap.Error(err))
			continue
		}
		if !truthy(header.IsVisible) {
			continue
		}
		if !isBaseGrade(header.GradeCoreID) {
			continue
		}
		if header.ResourceID == nil {
			logger.Warn("跳过缺少 resource_id 的角色记录", zap.Int("row", i))
			continue
		}
		characters[*header.ResourceID] = BaseCharacter{
			ResourceID: *header.ResourceID,
			Raw:        raw,
		}
	}
	return characters
}

func isBaseGrade(grade *json.Number) bool {
	if grade == nil || *grade == "" {
		return true
	}
	v, err := grade.Float64()
	return err == nil && v == baseGrade
}
