package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Devan019/GenJob/internal/constants"
	"github.com/Devan019/GenJob/internal/types"
)

var (
	// "<N>+ years of experience"
	yearsRequiredRe = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`)

	// 职位名的两种启发式写法，按顺序尝试，先命中者生效
	jobTitleRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:looking for|seeking|hiring)\s+(?:a\s+)?([A-Z][a-zA-Z\s]+?)(?:\s+to|\s+for|\s*$)`),
		regexp.MustCompile(`(?i)(?:position|role|job):\s*([A-Z][a-zA-Z\s]+?)(?:\s*$)`),
	}

	// 首字母大写的多词短语（候选公司名）
	companyMentionRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
)

// JobAnalyzer 岗位描述分析器
// 与简历提取器共享同一目录，对任意文本都不会失败，缺失信号取零值
type JobAnalyzer struct {
	catalog *SkillCatalog
}

// NewJobAnalyzer 创建岗位描述分析器，catalog为nil时使用默认目录
func NewJobAnalyzer(catalog *SkillCatalog) *JobAnalyzer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &JobAnalyzer{catalog: catalog}
}

// Analyze 从岗位描述文本提取结构化要求
// 对同一文本重复调用结果完全一致（无隐藏随机性或时间依赖）
func (a *JobAnalyzer) Analyze(jobDescription string) *types.JobRequirements {
	lower := strings.ToLower(jobDescription)

	return &types.JobRequirements{
		RequiredSkills:     a.matchSkills(lower),
		RequiredSoftSkills: a.matchSoftSkills(lower),
		RequiredExperience: a.requiredYears(lower),
		EducationRequired:  a.educationRequired(lower),
		Keywords:           RankKeywords(jobDescription, a.catalog.StopWords, constants.MaxJobKeywords),
		JobTitle:           a.extractJobTitle(jobDescription),
		CompanyMentions:    a.extractCompanyMentions(jobDescription),
	}
}

// matchSkills 在小写文本中匹配技术技能短语
func (a *JobAnalyzer) matchSkills(lower string) []string {
	var skills []string
	seen := map[string]struct{}{}
	for _, skill := range a.catalog.AllTechnical() {
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

// matchSoftSkills 在小写文本中匹配软技能短语
func (a *JobAnalyzer) matchSoftSkills(lower string) []string {
	var skills []string
	for _, skill := range a.catalog.SoftSkills {
		if strings.Contains(lower, skill) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// requiredYears 提取要求的工作年限，多处出现时取最大值，没有则为0
func (a *JobAnalyzer) requiredYears(lower string) int {
	maxYears := 0
	for _, m := range yearsRequiredRe.FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxYears {
			maxYears = n
		}
	}
	return maxYears
}

// educationRequired 只要出现任一学历指示词即认为有学历要求
func (a *JobAnalyzer) educationRequired(lower string) bool {
	for _, keyword := range a.catalog.DegreeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// extractJobTitle 按顺序尝试两种职位名写法，都未命中时返回默认职位名
func (a *JobAnalyzer) extractJobTitle(jobDescription string) string {
	for _, re := range jobTitleRes {
		if m := re.FindStringSubmatch(jobDescription); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return constants.DefaultJobTitle
}

// extractCompanyMentions 提取首字母大写的候选公司名
// 排除通用后缀词和长度≤3的词，按首次出现顺序去重，最多保留5个
func (a *JobAnalyzer) extractCompanyMentions(jobDescription string) []string {
	var mentions []string
	seen := map[string]struct{}{}
	for _, word := range companyMentionRe.FindAllString(jobDescription, -1) {
		if len(word) <= 3 {
			continue
		}
		if _, generic := a.catalog.GenericCompanyWords[word]; generic {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		mentions = append(mentions, word)
		seen[word] = struct{}{}
		if len(mentions) >= constants.MaxCompanyMentions {
			break
		}
	}
	return mentions
}
