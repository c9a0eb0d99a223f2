package character

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	characterTable = `{"records": [
		{"id": 1001, "resource_id": 10, "grade_core_id": 1, "is_visible": true, "name_localkey": "ラピ",
		 "original_rare": "SR", "element_id": [100001], "order": 5,
		 "skill1_id": 1, "skill2_id": 2, "ulti_skill_id": 3, "burst_duration": 10},
		{"id": 1002, "resource_id": 10, "grade_core_id": 2, "is_visible": true, "name_localkey": "ラピ+",
		 "original_rare": "SR", "order": 5},
		{"id": 2001, "resource_id": 20, "grade_core_id": 1, "is_visible": true,
		 "original_rare": "SSR", "element_id": [300001]},
		{"id": 3001, "resource_id": 30, "grade_core_id": 1, "is_visible": true, "name_localkey": "Anis",
		 "original_rare": "SSR", "element_id": [999999], "order": 1, "critical_ratio": 750},
		{"id": 4001, "resource_id": 40, "grade_core_id": 1, "is_visible": false, "order": 0}
	]}`
	skillTable = `{"records": [
		{"id": 1, "name": "Skill One", "description": "desc one"},
		{"id": 3, "name": "Burst Three", "description": "desc three"}
	]}`
	statTable = `{"records": [
		{"id": 1001, "hp": 1000, "atk": 100, "def": 10},
		{"id": 10, "hp": 1, "atk": 1, "def": 1}
	]}`
)

type fixture struct {
	dir  string
	opts Options
}

func newFixture(t *testing.T, tables map[string]string) fixture {
	t.Helper()
	dir := t.TempDir()
	for name, content := range tables {
		writeFile(t, dir, name, content)
	}
	return fixture{
		dir: dir,
		opts: Options{
			CharacterTable: filepath.Join(dir, "CharacterTable.json"),
			SkillTable:     filepath.Join(dir, "CharacterSkillTable.json"),
			StatTable:      filepath.Join(dir, "CharacterStatTable.json"),
			OutputPath:     filepath.Join(dir, "data", "nikke-characters-complete.json"),
			GeneratedAt:    "2024-12-27",
		},
	}
}

func allTables() map[string]string {
	return map[string]string{
		"CharacterTable.json":      characterTable,
		"CharacterSkillTable.json": skillTable,
		"CharacterStatTable.json":  statTable,
	}
}

func TestBuild(t *testing.T) {
	fx := newFixture(t, allTables())

	result, err := Build(fx.opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)

	env, err := ReadEnvelope(fx.opts.OutputPath)
	require.NoError(t, err)

	assert.Equal(t, "2024-12-27", env.GeneratedAt)
	assert.Equal(t, 3, env.TotalCharacters)
	require.Len(t, env.Characters, 3)
	assert.Equal(t, []int64{30, 10, 20}, ids(env.Characters))

	lapi := env.Characters[1]
	assert.Equal(t, "ラピ", lapi.Name)
	assert.Equal(t, "Electric", lapi.Element)
	assert.Equal(t, "1000", lapi.HP.String())
	assert.Equal(t, "Skill One", lapi.Skill1.Name)
	assert.Equal(t, "Skill_2", lapi.Skill2.Name)
	assert.Equal(t, "Burst Three", lapi.BurstSkill.Name)
	assert.Equal(t, "10", lapi.BurstSkill.Cooldown.String())

	anis := env.Characters[0]
	assert.Equal(t, 7.5, anis.CriticalRate)
	assert.Equal(t, "Unknown", anis.Element)

	// 缺少 order 的角色输出为0但排在最后
	unnamed := env.Characters[2]
	assert.Equal(t, "Character_20", unnamed.Name)
	assert.Equal(t, "0", unnamed.Order.String())
	assert.Equal(t, "0", unnamed.HP.String())

	assert.Equal(t, map[string]int{"SR": 1, "SSR": 2}, CountBy(result.Envelope.Characters, ByRarity))
}

func TestBuild_Idempotent(t *testing.T) {
	fx := newFixture(t, allTables())

	_, err := Build(fx.opts, zap.NewNop())
	require.NoError(t, err)
	first, err := os.ReadFile(fx.opts.OutputPath)
	require.NoError(t, err)

	_, err = Build(fx.opts, zap.NewNop())
	require.NoError(t, err)
	second, err := os.ReadFile(fx.opts.OutputPath)
	require.NoError(t, err)

	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("output changed between runs (-first +second):\n%s", diff)
	}
}

func TestBuild_GeneratedAtFromClock(t *testing.T) {
	fx := newFixture(t, allTables())
	fx.opts.GeneratedAt = ""
	fx.opts.Now = func() time.Time { return time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC) }

	result, err := Build(fx.opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17", result.Envelope.GeneratedAt)
}

func TestBuild_MissingAuxiliaryTables(t *testing.T) {
	fx := newFixture(t, map[string]string{
		"CharacterTable.json":     characterTable,
		"CharacterStatTable.json": `{"records": [ broken`,
	})

	result, err := Build(fx.opts, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, result.Envelope.Characters, 3)

	for _, c := range result.Envelope.Characters {
		assert.Equal(t, "0", c.HP.String())
		assert.Equal(t, "No description available", c.Skill1.Description)
		assert.Equal(t, "No description available", c.BurstSkill.Description)
	}
	lapi := result.Envelope.Characters[1]
	assert.Equal(t, "Skill_1", lapi.Skill1.Name)
	assert.Equal(t, "Burst_3", lapi.BurstSkill.Name)
}

func TestBuild_MissingCharacterTable(t *testing.T) {
	tables := allTables()
	delete(tables, "CharacterTable.json")
	fx := newFixture(t, tables)

	_, err := Build(fx.opts, zap.NewNop())
	require.ErrorIs(t, err, ErrFileMissing)

	_, statErr := os.Stat(fx.opts.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no output file on fatal error")
	_, statErr = os.Stat(filepath.Join(fx.dir, "data"))
	assert.True(t, os.IsNotExist(statErr), "output directory not created")
}

func TestBuild_MalformedCharacterTable(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", `{"records": [}`},
		{"null", `null`},
		{"empty object", `{}`},
		{"empty array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := allTables()
			tables["CharacterTable.json"] = tt.content
			fx := newFixture(t, tables)

			_, err := Build(fx.opts, zap.NewNop())
			require.ErrorIs(t, err, ErrMalformedJSON)

			_, statErr := os.Stat(fx.opts.OutputPath)
			assert.True(t, os.IsNotExist(statErr), "no output file on fatal error")
		})
	}
}

func TestBuild_SkipsBadRecords(t *testing.T) {
	fx := newFixture(t, map[string]string{"CharacterTable.json": `{"records": [
		{"id": 1, "resource_id": 1, "grade_core_id": 1, "is_visible": true, "class": "Defender"},
		{"id": 2, "resource_id": 2, "grade_core_id": 1, "is_visible": true, "element_id": "Fire"},
		{"id": 3, "resource_id": 3, "grade_core_id": 1, "is_visible": true, "critical_ratio": "high"}
	]}`})

	result, err := Build(fx.opts, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, ids(result.Envelope.Characters))
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, int64(2), result.Skipped[0].ResourceID)
	assert.Equal(t, int64(3), result.Skipped[1].ResourceID)
	assert.Contains(t, result.Skipped[0].Error(), "处理角色 2 失败")
}

func TestBuild_EmptyCharacterTable(t *testing.T) {
	fx := newFixture(t, map[string]string{"CharacterTable.json": `{"records": []}`})

	result, err := Build(fx.opts, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, result.Envelope.TotalCharacters)

	env, err := ReadEnvelope(fx.opts.OutputPath)
	require.NoError(t, err)
	assert.Empty(t, env.Characters)
}

func TestBuild_WriteFailure(t *testing.T) {
	fx := newFixture(t, allTables())
	writeFile(t, fx.dir, "data", "not a directory")

	_, err := Build(fx.opts, zap.NewNop())
	assert.ErrorIs(t, err, ErrWriteOutput)
}
