package character

import "github.com/SlpAus/nikke-character-data/internal/platform/config"

// OptionsFromConfig 把配置转换成合并任务的参数
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CharacterTable: cfg.Input.CharacterTablePath(),
		SkillTable:     cfg.Input.SkillTablePath(),
		StatTable:      cfg.Input.StatTablePath(),
		OutputPath:     cfg.Output.Path,
		GeneratedAt:    cfg.Output.GeneratedAt,
	}
}
