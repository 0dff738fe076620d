package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Devan019/GenJob/internal/constants"
	"github.com/Devan019/GenJob/internal/types"
)

var (
	// 经历章节标题
	experienceSectionRe = regexp.MustCompile(`(?i)(?:experience|work\s+history|employment|professional\s+experience)`)

	// 章节窗口内的"职位 ... at/@/, 公司"片段
	experienceEntryRe = regexp.MustCompile(`(?i)(software\s+engineer|developer|analyst|manager|consultant|specialist|coordinator|director|lead|senior|junior|architect)([^\n]*?)(?:\s+at\s+|\s*@\s*|\s*,\s*)([A-Z][a-zA-Z\s&]+)`)

	// 学历短语
	degreeEntryRe      = regexp.MustCompile(`(?i)(?:bachelor|master|phd|doctorate|associate|diploma|certificate)\s+(?:of|in)?\s*([a-zA-Z\s]+)`)
	institutionEntryRe = regexp.MustCompile(`(?i)(?:university|college|institute|school)\s+of\s+([a-zA-Z\s]+)`)

	// 长度≥3的纯字母单词
	wordRe = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

	// 联系方式
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)

	// 摘要标签后跟50~300个字符的段内文本
	summaryRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:summary|objective|profile|about)\s*[:\-]?\s*([^\n]{50,300})`),
		regexp.MustCompile(`(?i)(?:professional\s+summary|career\s+objective)\s*[:\-]?\s*([^\n]{50,300})`),
	}
)

// ResumeExtractor 简历特征提取器
// 对任意文本都是全函数：最坏情况下所有字段为空，绝不报错
type ResumeExtractor struct {
	catalog *SkillCatalog
}

// NewResumeExtractor 创建简历特征提取器
// catalog为nil时使用内置默认目录
func NewResumeExtractor(catalog *SkillCatalog) *ResumeExtractor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &ResumeExtractor{catalog: catalog}
}

// ExtractFromText 从纯文本构建ResumeFeatures
// 输入文本不会被修改；空文本返回零特征结果而不是错误
func (e *ResumeExtractor) ExtractFromText(text string) *types.ResumeFeatures {
	return &types.ResumeFeatures{
		RawText:    text,
		Skills:     e.extractSkills(text),
		Experience: e.extractExperience(text),
		Education:  e.extractEducation(text),
		Keywords:   RankKeywords(text, e.catalog.StopWords, constants.MaxResumeKeywords),
		Contact:    e.extractContact(text),
		Summary:    e.extractSummary(text),
	}
}

// extractSkills 在文本中匹配目录里的技能短语（大小写不敏感），返回去重后的命中集合
func (e *ResumeExtractor) extractSkills(text string) []string {
	lower := strings.ToLower(text)

	var skills []string
	seen := map[string]struct{}{}
	for _, skill := range e.catalog.AllTechnical() {
		if _, dup := seen[skill]; dup {
			continue
		}
		if strings.Contains(lower, skill) {
			skills = append(skills, skill)
			seen[skill] = struct{}{}
		}
	}
	return skills
}

// extractExperience 定位经历章节，在固定窗口内匹配职位+公司片段
// 启发式无法可靠还原描述和任职时长，相应字段留空
func (e *ResumeExtractor) extractExperience(text string) []types.WorkExperience {
	var experience []types.WorkExperience

	loc := experienceSectionRe.FindStringIndex(text)
	if loc == nil {
		return experience
	}

	end := loc[0] + constants.ExperienceSectionWindow
	if end > len(text) {
		end = len(text)
	}
	section := text[loc[0]:end]

	matches := experienceEntryRe.FindAllStringSubmatch(section, -1)
	for i, m := range matches {
		if i >= constants.MaxExperienceEntries {
			break
		}
		experience = append(experience, types.WorkExperience{
			Title:   strings.TrimSpace(m[1] + m[2]),
			Company: strings.TrimSpace(m[3]),
		})
	}
	return experience
}

// extractEducation 在全文中匹配学位/院校短语，最多保留3条
func (e *ResumeExtractor) extractEducation(text string) []types.EducationEntry {
	var education []types.EducationEntry

	for _, re := range []*regexp.Regexp{degreeEntryRe, institutionEntryRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(education) >= constants.MaxEducationEntries {
				return education
			}
			education = append(education, types.EducationEntry{
				Degree: strings.TrimSpace(m[1]),
			})
		}
	}
	return education
}

// extractContact 提取第一个邮箱和第一个北美格式电话号码，未命中留空
func (e *ResumeExtractor) extractContact(text string) types.ContactInfo {
	var contact types.ContactInfo
	if m := emailRe.FindString(text); m != "" {
		contact.Email = m
	}
	if m := phoneRe.FindString(text); m != "" {
		contact.Phone = m
	}
	return contact
}

// extractSummary 提取摘要：优先匹配标签引导的段落，否则取前三个句子
func (e *ResumeExtractor) extractSummary(text string) string {
	for _, re := range summaryRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	sentences := strings.Split(text, ".")
	var picked []string
	for _, s := range sentences {
		if strings.TrimSpace(s) == "" {
			continue
		}
		picked = append(picked, s)
		if len(picked) == 3 {
			break
		}
	}
	return strings.TrimSpace(strings.Join(picked, ". "))
}

// RankKeywords 关键词提取：分词、停用词过滤、按词频降序排序
// 词频相同时保持首次出现顺序，结果截断到limit
func RankKeywords(text string, stopWords map[string]struct{}, limit int) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)

	counts := map[string]int{}
	var order []string
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	// 稳定排序保证同频词按首次出现顺序排列
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
