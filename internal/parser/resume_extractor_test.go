package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `John Smith
john.smith@example.com | 555-123-4567

Summary: Experienced software engineer with a passion for building scalable backend systems and mentoring junior developers.

Experience
Senior Software Engineer at Acme Systems
Built microservices with Python and Django, deployed on AWS with Docker.

Education
Bachelor of Computer Science, University of Somewhere

Skills
Python, Django, PostgreSQL, AWS, Docker, Git
`

// TestExtractFromText 测试完整的简历特征提取流程
func TestExtractFromText(t *testing.T) {
	extractor := NewResumeExtractor(nil)

	features := extractor.ExtractFromText(sampleResume)
	require.NotNil(t, features)

	// 原始文本原样保留
	assert.Equal(t, sampleResume, features.RawText)

	// 技能命中目录中的短语
	assert.Contains(t, features.Skills, "python")
	assert.Contains(t, features.Skills, "django")
	assert.Contains(t, features.Skills, "postgresql")
	assert.Contains(t, features.Skills, "aws")
	assert.Contains(t, features.Skills, "docker")

	// 联系方式
	assert.Equal(t, "john.smith@example.com", features.Contact.Email)
	assert.Equal(t, "555-123-4567", features.Contact.Phone)

	// 摘要来自Summary标签
	assert.Contains(t, features.Summary, "Experienced software engineer")

	// 教育经历来自学位短语
	require.NotEmpty(t, features.Education)

	// 关键词不包含停用词
	for _, kw := range features.Keywords {
		assert.NotContains(t, []string{"the", "and", "with", "for"}, kw)
	}
}

// TestExtractFromTextEmpty 空文本返回零特征而不是错误
func TestExtractFromTextEmpty(t *testing.T) {
	extractor := NewResumeExtractor(nil)

	features := extractor.ExtractFromText("")
	require.NotNil(t, features)
	assert.Empty(t, features.RawText)
	assert.Empty(t, features.Skills)
	assert.Empty(t, features.Experience)
	assert.Empty(t, features.Education)
	assert.Empty(t, features.Keywords)
	assert.Empty(t, features.Contact.Email)
	assert.Empty(t, features.Summary)
}

// TestExtractExperienceWindow 经历提取只在章节后的固定窗口内生效
func TestExtractExperienceWindow(t *testing.T) {
	extractor := NewResumeExtractor(nil)

	text := "Experience\nSenior Software Engineer at Acme Systems"
	features := extractor.ExtractFromText(text)

	require.NotEmpty(t, features.Experience)
	assert.Equal(t, "Senior Software Engineer", features.Experience[0].Title)
	assert.Equal(t, "Acme Systems", features.Experience[0].Company)

	// 没有经历章节标题时不提取
	noSection := extractor.ExtractFromText("Just a plain paragraph about nothing in particular.")
	assert.Empty(t, noSection.Experience)
}

// TestRankKeywords 测试关键词按词频降序排列，同频保持首次出现顺序
func TestRankKeywords(t *testing.T) {
	stopWords := map[string]struct{}{"the": {}}

	// golang出现3次，python出现2次，java出现1次
	text := "golang python java golang python golang the the"
	keywords := RankKeywords(text, stopWords, 10)
	require.Equal(t, []string{"golang", "python", "java"}, keywords)

	// 同频词按首次出现顺序
	tie := RankKeywords("alpha beta alpha beta", map[string]struct{}{}, 10)
	assert.Equal(t, []string{"alpha", "beta"}, tie)

	// 截断到limit
	limited := RankKeywords("one two three four", map[string]struct{}{}, 2)
	assert.Len(t, limited, 2)
}

// TestRankKeywordsShortWords 长度小于3的词不参与关键词统计
func TestRankKeywordsShortWords(t *testing.T) {
	keywords := RankKeywords("go is ok golang", map[string]struct{}{}, 10)
	assert.Equal(t, []string{"golang"}, keywords)
}
