package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SlpAus/nikke-character-data/internal/character"
	"github.com/SlpAus/nikke-character-data/internal/platform/config"
	"github.com/SlpAus/nikke-character-data/internal/platform/logging"
)

// app 持有一次命令执行期间共享的状态
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out}

	rootCmd := &cobra.Command{
		Use:   "nikkedata",
		Short: "合并 NIKKE 角色表、技能表和属性表，生成完整的角色数据",
		Long: `读取当前目录下的 CharacterTable.json、CharacterSkillTable.json
和 CharacterStatTable.json，每个角色只保留可见的基础等级，
合并后写入 data/nikke-characters-complete.json。

不带子命令运行时等同于 build。`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runBuild,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "配置文件路径 (默认查找 ./config/config.yaml 或 ./config.yaml)")
	pf.String("log-level", "info", "日志级别: debug, info, warn, error")
	pf.String("log-format", "console", "日志格式: console 或 json")
	pf.String("input-dir", ".", "三张数据表所在的目录")
	pf.StringP("output", "o", "data/nikke-characters-complete.json", "输出文件路径")
	pf.String("generated-at", "", "固定 generated_at 字段 (默认为当天日期)")

	bindFlag(a.v, config.KeyLogLevel, pf.Lookup("log-level"))
	bindFlag(a.v, config.KeyLogFormat, pf.Lookup("log-format"))
	bindFlag(a.v, config.KeyInputDir, pf.Lookup("input-dir"))
	bindFlag(a.v, config.KeyOutputPath, pf.Lookup("output"))
	bindFlag(a.v, config.KeyGeneratedAt, pf.Lookup("generated-at"))

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "生成合并后的角色数据文件",
		Args:  cobra.NoArgs,
		RunE:  a.runBuild,
	}

	var summaryFile string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "按稀有度、属性、职业和企业统计已生成的角色数据",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSummary(summaryFile)
		},
	}
	summaryCmd.Flags().StringVarP(&summaryFile, "file", "f", "", "要统计的数据文件 (默认为 output 路径)")

	rootCmd.AddCommand(buildCmd, summaryCmd)
	return rootCmd
}

// bindFlag 只会在 flag 名写错时失败，属于编程错误
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("无法绑定参数 %s: %v", key, err))
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) runBuild(cmd *cobra.Command, args []string) error {
	opts := character.OptionsFromConfig(a.cfg)
	result, err := character.Build(opts, a.logger)
	if err != nil {
		a.logger.Error("生成角色数据失败", zap.Error(err))
		return err
	}

	fmt.Fprintln(a.out, "数据保存成功！")
	fmt.Fprintf(a.out, "文件: %s\n", result.OutputPath)
	fmt.Fprintf(a.out, "角色总数: %d\n", result.Envelope.TotalCharacters)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(a.out, "跳过的角色: %d\n", len(result.Skipped))
	}
	character.PrintSummary(a.out, "按稀有度统计", character.CountBy(result.Envelope.Characters, character.ByRarity))
	return nil
}

func (a *app) runSummary(file string) error {
	if file == "" {
		file = a.cfg.Output.Path
	}
	env, err := character.ReadEnvelope(file)
	if err != nil {
		a.logger.Error("无法读取角色数据", zap.String("path", file), zap.Error(err))
		return err
	}

	fmt.Fprintf(a.out, "文件: %s (版本 %s, 生成于 %s)\n", file, env.Version, env.GeneratedAt)
	fmt.Fprintf(a.out, "角色总数: %d\n", len(env.Characters))
	character.PrintSummary(a.out, "按稀有度统计", character.CountBy(env.Characters, character.ByRarity))
	character.PrintSummary(a.out, "按属性统计", character.CountBy(env.Characters, character.ByElement))
	character.PrintSummary(a.out, "按职业统计", character.CountBy(env.Characters, character.ByClass))
	character.PrintSummary(a.out, "按企业统计", character.CountBy(env.Characters, character.ByCorporation))
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
