package character

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Options 描述一次合并任务的输入输出
type Options struct {
	CharacterTable string
	SkillTable     string
	StatTable      string
	OutputPath     string

	// GeneratedAt 非空时直接写入 generated_at，用于生成可复现的输出
	GeneratedAt string

	// Now 为空时使用 time.Now
	Now func() time.Time
}

func (o Options) generatedAt() string {
	if o.GeneratedAt != "" {
		return o.GeneratedAt
	}
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().Format(GeneratedAtLayout)
}

// Result 是一次成功合并的结果
type Result struct {
	OutputPath string
	Envelope   Envelope

	// Skipped 是因为数据异常被跳过的角色
	Skipped []*RecordError
}

// Build 是合并流程的总入口：加载三张表，建立索引，筛选基础角色，格式化、排序并写出。
// 角色表无法加载、内容为空或输出写入失败时返回错误，此时不会产生输出文件；
// 技能表和属性表缺失只记录警告，对应字段使用默认值
func Build(opts Options, logger *zap.Logger) (*Result, error) {
	logger.Info("正在加载数据文件...")
	charDoc, err := LoadDocument(opts.CharacterTable)
	if err != nil {
		return nil, fmt.Errorf("无法加载角色表: %w", err)
	}
	if charDoc.Empty() {
		return nil, fmt.Errorf("无法加载角色表: %w: %s 没有任何数据", ErrMalformedJSON, opts.CharacterTable)
	}
	skillDoc := loadOptional(opts.SkillTable, logger)
	statDoc := loadOptional(opts.StatTable, logger)

	skills := BuildSkillIndex(skillDoc, logger)
	stats := BuildStatIndex(statDoc, logger)
	logger.Info("索引建立完成", zap.Int("skills", len(skills)), zap.Int("stats", len(stats)))

	base := SelectBase(charDoc, logger)
	logger.Info("提取基础角色完成", zap.Int("characters", len(base)))

	chars, skipped := Assemble(base, skills, stats, logger)
	env := NewEnvelope(chars, opts.generatedAt())

	logger.Info("正在保存角色数据...",
		zap.String("path", opts.OutputPath),
		zap.Int("characters", env.TotalCharacters))
	if err := WriteEnvelope(opts.OutputPath, env); err != nil {
		return nil, err
	}

	return &Result{
		OutputPath: opts.OutputPath,
		Envelope:   env,
		Skipped:    skipped,
	}, nil
}

// Assemble 格式化所有基础角色并排序。单条记录解析失败时记录警告并跳过，不影响其他角色
func Assemble(base BaseCharacters, skills SkillIndex, stats StatIndex, logger *zap.Logger) ([]OutputCharacter, []*RecordError) {
	chars := make([]OutputCharacter, 0, len(base))
	var skipped []*RecordError

	for _, id := range base.ResourceIDs() {
		rec, err := base[id].Decode()
		if err != nil {
			logger.Warn("处理角色时出错，已跳过", zap.Int64("resource_id", id), zap.Error(err))
			skipped = append(skipped, &RecordError{ResourceID: id, Err: err})
			continue
		}
		chars = append(chars, Format(rec, skills, stats))
	}

	SortCharacters(chars)
	return chars, skipped
}

// loadOptional 加载辅助表，失败时返回 nil，后续按空表处理
func loadOptional(path string, logger *zap.Logger) *Document {
	doc, err := LoadDocument(path)
	if err != nil {
		logger.Warn("辅助数据表不可用，将使用默认值", zap.String("path", path), zap.Error(err))
		return nil
	}
	return doc
}
