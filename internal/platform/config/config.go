package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 配置项的键名，cobra 的 flag 也通过这些键绑定到 viper
const (
	KeyInputDir       = "input.dir"
	KeyCharacterTable = "input.character_table"
	KeySkillTable     = "input.skill_table"
	KeyStatTable      = "input.stat_table"
	KeyOutputPath     = "output.path"
	KeyGeneratedAt    = "output.generated_at"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
)

// EnvPrefix 是环境变量前缀，例如 NIKKE_OUTPUT_PATH 覆盖 output.path
const EnvPrefix = "NIKKE"

// DotEnvFile 是工作目录下可选的环境变量文件，已存在的环境变量优先
const DotEnvFile = ".env"

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// InputConfig 定义了三张游戏数据表的位置
type InputConfig struct {
	Dir            string `mapstructure:"dir"`
	CharacterTable string `mapstructure:"character_table"`
	SkillTable     string `mapstructure:"skill_table"`
	StatTable      string `mapstructure:"stat_table"`
}

// OutputConfig 定义了输出文件相关的配置
type OutputConfig struct {
	Path string `mapstructure:"path"`

	// GeneratedAt 为空时使用运行当天的日期
	GeneratedAt string `mapstructure:"generated_at"`
}

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CharacterTablePath 返回角色表的完整路径
func (c InputConfig) CharacterTablePath() string {
	return filepath.Join(c.Dir, c.CharacterTable)
}

// SkillTablePath 返回技能表的完整路径
func (c InputConfig) SkillTablePath() string {
	return filepath.Join(c.Dir, c.SkillTable)
}

// StatTablePath 返回属性表的完整路径
func (c InputConfig) StatTablePath() string {
	return filepath.Join(c.Dir, c.StatTable)
}

// New 创建一个已经设置好默认值和环境变量规则的 viper 实例
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyInputDir, ".")
	v.SetDefault(KeyCharacterTable, "CharacterTable.json")
	v.SetDefault(KeySkillTable, "CharacterSkillTable.json")
	v.SetDefault(KeyStatTable, "CharacterStatTable.json")
	v.SetDefault(KeyOutputPath, filepath.Join("data", "nikke-characters-complete.json"))
	v.SetDefault(KeyGeneratedAt, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	// 允许通过环境变量覆盖配置，例如 NIKKE_INPUT_DIR=./raw
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load 读取配置文件并反序列化到结构体中。
// configFile 为空时在 ./config 和 . 中查找 config.yaml，找不到文件不算错误；
// 显式指定的文件必须存在。工作目录下的 .env 会先被加载到环境变量中
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("无法读取 %s: %w", DotEnvFile, err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}
	if cfg.Output.Path == "" {
		return nil, errors.New("output.path 不能为空")
	}
	return &cfg, nil
}
