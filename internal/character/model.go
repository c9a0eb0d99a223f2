package character

import "encoding/json"

// --- 输入数据结构 ---
// 原始表的字段都可能缺失，所以全部使用指针或切片，默认值统一在 Format 中填充

// CharacterRecord 对应 CharacterTable.json 中的一行
type CharacterRecord struct {
	// ID 是内部角色ID，每个突破等级各有一个，属性表按它关联
	ID *int64 `json:"id"`

	// ResourceID 在所有突破等级之间保持不变，作为输出的公开ID
	ResourceID  *int64          `json:"resource_id"`
	GradeCoreID *json.Number    `json:"grade_core_id"`
	IsVisible   json.RawMessage `json:"is_visible"`

	NameLocalkey  *string `json:"name_localkey"`
	OriginalRare  *string `json:"original_rare"`
	ElementID     []int64 `json:"element_id"`
	Class         *string `json:"class"`
	Corporation   *string `json:"corporation"`
	Squad         *string `json:"squad"`
	UseBurstSkill *string `json:"use_burst_skill"`

	// 暴击相关字段以万分比的百倍存储，750 表示 7.5
	CriticalRatio  *float64 `json:"critical_ratio"`
	CriticalDamage *float64 `json:"critical_damage"`

	BonusRangeMin *json.Number `json:"bonusrange_min"`
	BonusRangeMax *json.Number `json:"bonusrange_max"`

	Skill1ID      *int64       `json:"skill1_id"`
	Skill2ID      *int64       `json:"skill2_id"`
	UltiSkillID   *int64       `json:"ulti_skill_id"`
	BurstDuration *json.Number `json:"burst_duration"`

	Order         *json.Number `json:"order"`
	PieceID       *json.Number `json:"piece_id"`
	CVLocalkey    *string      `json:"cv_localkey"`
	PrismIsActive *bool        `json:"prism_is_active"`
}

// SkillRecord 对应 CharacterSkillTable.json 中的一行
type SkillRecord struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// StatRecord 对应 CharacterStatTable.json 中的一行，ID 与角色的内部 id 相同
type StatRecord struct {
	ID  int64        `json:"id"`
	HP  *json.Number `json:"hp"`
	ATK *json.Number `json:"atk"`
	DEF *json.Number `json:"def"`
}

// UnmarshalJSON 逐个字段解析，类型不对的字段按缺失处理，不影响同一行的其他字段
func (r *SkillRecord) UnmarshalJSON(data []byte) error {
	fields, err := splitFields(data)
	if err != nil {
		return err
	}
	decodeField(fields, "id", &r.ID)
	decodeField(fields, "name", &r.Name)
	decodeField(fields, "description", &r.Description)
	return nil
}

// UnmarshalJSON 逐个字段解析，类型不对的字段按缺失处理
func (r *StatRecord) UnmarshalJSON(data []byte) error {
	fields, err := splitFields(data)
	if err != nil {
		return err
	}
	decodeField(fields, "id", &r.ID)
	decodeField(fields, "hp", &r.HP)
	decodeField(fields, "atk", &r.ATK)
	decodeField(fields, "def", &r.DEF)
	return nil
}

func splitFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// --- 输出数据结构 ---

// Skill 是输出中的普通技能
type Skill struct {
	ID          *int64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BurstSkill 是输出中的爆裂技能，多了冷却时间
type BurstSkill struct {
	Skill
	Cooldown json.Number `json:"cooldown"`
}

// OutputCharacter 是合并三张表之后的扁平角色记录
type OutputCharacter struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Element     string `json:"element"`
	Class       string `json:"class"`
	Corporation string `json:"corporation"`
	Squad       string `json:"squad"`

	// BurstCD 沿用历史字段名，实际是 use_burst_skill 的值，数值冷却在 BurstSkill.Cooldown
	BurstCD    string `json:"burst_cd"`
	WeaponType string `json:"weapon_type"`

	HP             json.Number `json:"hp"`
	ATK            json.Number `json:"atk"`
	DEF            json.Number `json:"def"`
	CriticalRate   float64     `json:"critical_rate"`
	CriticalDamage float64     `json:"critical_damage"`

	CoverageRangeMin json.Number `json:"coverage_range_min"`
	CoverageRangeMax json.Number `json:"coverage_range_max"`

	Skill1     Skill      `json:"skill1"`
	Skill2     Skill      `json:"skill2"`
	BurstSkill BurstSkill `json:"burst_skill"`

	Order       json.Number `json:"order"`
	PieceID     json.Number `json:"piece_id"`
	CV          string      `json:"cv"`
	PrismActive bool        `json:"prism_active"`

	// sortOrder 是排序用的键，原始数据缺少 order 时为 missingOrder
	sortOrder float64
}

// Envelope 是输出文件的顶层结构
type Envelope struct {
	Version         string            `json:"version"`
	Source          string            `json:"source"`
	GeneratedAt     string            `json:"generated_at"`
	TotalCharacters int               `json:"total_characters"`
	Characters      []OutputCharacter `json:"characters"`
}
