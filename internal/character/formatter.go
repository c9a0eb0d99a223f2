package character

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	noDescription = "No description available"
	zero          = json.Number("0")
)

// Format 把一条基础角色记录与技能表、属性表合并成输出记录。
// 属性表按内部 id 关联，输出的 id 使用 resource_id
func Format(rec CharacterRecord, skills SkillIndex, stats StatIndex) OutputCharacter {
	resourceID := int64Or(rec.ResourceID, 0)

	var stat StatRecord
	if rec.ID != nil {
		stat = stats[*rec.ID]
	}

	out := OutputCharacter{
		ID:          resourceID,
		Name:        nonEmptyOr(rec.NameLocalkey, fmt.Sprintf("Character_%d", resourceID)),
		Rarity:      stringOr(rec.OriginalRare, unknown),
		Element:     ElementName(rec.ElementID),
		Class:       stringOr(rec.Class, unknown),
		Corporation: stringOr(rec.Corporation, unknown),
		Squad:       stringOr(rec.Squad, unknown),
		BurstCD:     stringOr(rec.UseBurstSkill, unknown),
		WeaponType:  unknown, // 当前数据中没有武器类型

		HP:             numberOr(stat.HP),
		ATK:            numberOr(stat.ATK),
		DEF:            numberOr(stat.DEF),
		CriticalRate:   ratio(rec.CriticalRatio),
		CriticalDamage: ratio(rec.CriticalDamage),

		CoverageRangeMin: numberOr(rec.BonusRangeMin),
		CoverageRangeMax: numberOr(rec.BonusRangeMax),

		Skill1: lookupSkill(skills, rec.Skill1ID, "Skill"),
		Skill2: lookupSkill(skills, rec.Skill2ID, "Skill"),
		BurstSkill: BurstSkill{
			Skill:    lookupSkill(skills, rec.UltiSkillID, "Burst"),
			Cooldown: numberOr(rec.BurstDuration),
		},

		Order:       numberOr(rec.Order),
		PieceID:     numberOr(rec.PieceID),
		CV:          stringOr(rec.CVLocalkey, ""),
		PrismActive: rec.PrismIsActive != nil && *rec.PrismIsActive,

		sortOrder: missingOrder,
	}

	if rec.Order != nil {
		if v, err := rec.Order.Float64(); err == nil {
			out.sortOrder = v
		}
	}
	return out
}

// lookupSkill 查找技能名称和描述，找不到时使用 "<prefix>_<id>" 作为名称，
// 没有技能ID时为 "<prefix>_None"
func lookupSkill(skills SkillIndex, id *int64, prefix string) Skill {
	skill := Skill{
		ID:          id,
		Name:        prefix + "_None",
		Description: noDescription,
	}
	if id == nil {
		return skill
	}
	skill.Name = prefix + "_" + strconv.FormatInt(*id, 10)

	rec, ok := skills[*id]
	if !ok {
		return skill
	}
	skill.Name = stringOr(rec.Name, skill.Name)
	skill.Description = stringOr(rec.Description, noDescription)
	return skill
}

// ratio 把百倍存储的百分比字段还原
func ratio(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v / 100
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func nonEmptyOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

func int64Or(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

func numberOr(p *json.Number) json.Number {
	if p == nil || *p == "" {
		return zero
	}
	return *p
}
