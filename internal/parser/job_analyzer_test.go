package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJobDescription = `We are looking for a Senior Python Developer to join Acme Corp.
Requirements: 5+ years of experience with Python, Django and PostgreSQL.
Bachelor degree in computer science required. AWS experience is a plus.
Strong communication and leadership skills expected.`

// TestAnalyzeJobDescription 测试岗位描述的结构化提取
func TestAnalyzeJobDescription(t *testing.T) {
	analyzer := NewJobAnalyzer(nil)

	requirements := analyzer.Analyze(sampleJobDescription)
	require.NotNil(t, requirements)

	assert.Contains(t, requirements.RequiredSkills, "python")
	assert.Contains(t, requirements.RequiredSkills, "django")
	assert.Contains(t, requirements.RequiredSkills, "postgresql")
	assert.Contains(t, requirements.RequiredSkills, "aws")

	assert.Contains(t, requirements.RequiredSoftSkills, "communication")
	assert.Contains(t, requirements.RequiredSoftSkills, "leadership")

	assert.Equal(t, 5, requirements.RequiredExperience)
	assert.True(t, requirements.EducationRequired)

	assert.Equal(t, "Senior Python Developer", requirements.JobTitle)
	assert.Contains(t, requirements.CompanyMentions, "Acme Corp")

	// 关键词数量受上限约束
	assert.LessOrEqual(t, len(requirements.Keywords), 15)
}

// TestAnalyzeDefaults 无信号文本取各字段的默认值
func TestAnalyzeDefaults(t *testing.T) {
	analyzer := NewJobAnalyzer(nil)

	requirements := analyzer.Analyze("nothing useful here")
	assert.Empty(t, requirements.RequiredSkills)
	assert.Equal(t, 0, requirements.RequiredExperience)
	assert.False(t, requirements.EducationRequired)
	assert.Equal(t, "Software Developer", requirements.JobTitle)
	assert.Empty(t, requirements.CompanyMentions)
}

// TestRequiredYearsTakesMax 多处年限要求取最大值
func TestRequiredYearsTakesMax(t *testing.T) {
	analyzer := NewJobAnalyzer(nil)

	requirements := analyzer.Analyze("3 years of experience minimum, ideally 7+ years experience")
	assert.Equal(t, 7, requirements.RequiredExperience)
}

// TestAnalyzeIdempotent 同一文本重复分析结果一致
func TestAnalyzeIdempotent(t *testing.T) {
	analyzer := NewJobAnalyzer(nil)

	first := analyzer.Analyze(sampleJobDescription)
	second := analyzer.Analyze(sampleJobDescription)
	assert.Equal(t, first, second)
}

// TestCompanyMentionsFiltering 公司名提取排除通用词和短词，去重并限量
func TestCompanyMentionsFiltering(t *testing.T) {
	analyzer := NewJobAnalyzer(nil)

	requirements := analyzer.Analyze("Acme Widgets partnered with Acme Widgets and Globex under one Company banner.")
	assert.Contains(t, requirements.CompanyMentions, "Acme Widgets")
	assert.Contains(t, requirements.CompanyMentions, "Globex")
	assert.NotContains(t, requirements.CompanyMentions, "Company")

	// 去重：同一公司只出现一次
	count := 0
	for _, m := range requirements.CompanyMentions {
		if m == "Acme Widgets" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.LessOrEqual(t, len(requirements.CompanyMentions), 5)
}
