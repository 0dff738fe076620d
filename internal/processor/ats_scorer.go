package processor

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Devan019/GenJob/internal/constants"
	"github.com/Devan019/GenJob/internal/logger"
	"github.com/Devan019/GenJob/internal/parser"
	"github.com/Devan019/GenJob/internal/types"
)

// 各子项分数的固定权重
// 注意：technical权重同时作用于keyword和skill两个子项，
// 因此权重之和为1.10而不是1.00；这是既有产品行为，高分简历的总分
// 可能超过100，在产品决策修正之前必须原样保留，不做归一化
const (
	weightTechnical  = 0.3
	weightExperience = 0.25
	weightEducation  = 0.15
	weightFormat     = 0.10
)

var (
	// 工作年限的三种写法："N+ years experience"、"2019-2023"、"2019-present"
	yearsExperienceRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`)
	yearRangeRe       = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present)`)
	shortYearRangeRe  = regexp.MustCompile(`(\d{4})\s*[-–]\s*(\d{2,4})`)

	// 格式检查用的邮箱模式
	scorerEmailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// 格式分检查的四个标准章节词
	formatSections = []string{"experience", "education", "skills", "summary"}

	// 教育分检查的学位词
	degreeWords = []string{"bachelor", "master", "phd", "degree", "diploma"}
)

// ATSScorer 本地ATS评分引擎，ScoreProvider的本地实现
// 纯函数式计算，除日志外无副作用；每次调用独立分配所有中间结构
type ATSScorer struct {
	analyzer *parser.JobAnalyzer
	now      func() time.Time
	log      zerolog.Logger
}

// ATSScorerOption 评分引擎配置选项
type ATSScorerOption func(*ATSScorer)

// WithAnalyzer 替换岗位描述分析器（例如使用自定义技能目录）
func WithAnalyzer(analyzer *parser.JobAnalyzer) ATSScorerOption {
	return func(s *ATSScorer) {
		s.analyzer = analyzer
	}
}

// WithClock 替换时钟，"present"年份区间的计算依赖当前日历年
func WithClock(now func() time.Time) ATSScorerOption {
	return func(s *ATSScorer) {
		s.now = now
	}
}

// WithScorerLogger 设置自定义日志记录器
func WithScorerLogger(log zerolog.Logger) ATSScorerOption {
	return func(s *ATSScorer) {
		s.log = log
	}
}

// NewATSScorer 创建本地评分引擎
func NewATSScorer(options ...ATSScorerOption) *ATSScorer {
	scorer := &ATSScorer{
		analyzer: parser.NewJobAnalyzer(nil),
		now:      time.Now,
		log:      logger.Logger.With().Str("component", "ats_scorer").Logger(),
	}
	for _, option := range options {
		option(scorer)
	}
	return scorer
}

// Name 实现ScoreProvider接口
func (s *ATSScorer) Name() string {
	return "local"
}

// Score 计算简历与岗位描述的匹配评分
// 缺失或含糊的输入一律降级为中性/默认分数，绝不向调用方抛出错误；
// 只有内部意外故障才会产生Failure结果，且不暴露任何部分分数
func (s *ATSScorer) Score(ctx context.Context, features *types.ResumeFeatures, jobDescription string, companyName string) (result *types.ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("panic", r).
				Msg("评分过程中发生意外错误")
			result = &types.ScoreResult{
				IsSuccess:    false,
				ErrorMessage: "An error occurred while calculating the ATS score.",
			}
			err = nil
		}
	}()

	if features == nil {
		features = &types.ResumeFeatures{}
	}

	jobRequirements := s.analyzer.Analyze(jobDescription)

	keywordScore := s.keywordScore(features, jobRequirements)
	skillScore := s.skillScore(features, jobRequirements)
	experienceScore := s.experienceScore(features, jobRequirements)
	educationScore := s.educationScore(features, jobRequirements)
	formatScore := s.formatScore(features)

	totalScore := keywordScore*weightTechnical +
		skillScore*weightTechnical +
		experienceScore*weightExperience +
		educationScore*weightEducation +
		formatScore*weightFormat

	missingKeywords := s.missingKeywords(features, jobRequirements)

	result = &types.ScoreResult{
		TotalScore: round1(totalScore),
		Scores: types.ScoreBreakdown{
			KeywordMatch:    round1(keywordScore),
			SkillMatch:      round1(skillScore),
			ExperienceMatch: round1(experienceScore),
			EducationMatch:  round1(educationScore),
			FormatScore:     round1(formatScore),
		},
		JobRequirements: *jobRequirements,
		ResumeAnalysis: types.ResumeAnalysis{
			SkillsFound:     features.Skills,
			ExperienceYears: s.estimateExperienceYears(features.RawText),
			EducationLevel:  educationLevel(features.RawText),
			KeywordDensity:  keywordDensity(features.RawText, jobRequirements.Keywords),
		},
		Recommendations: s.recommendations(features, jobRequirements, keywordScore, skillScore, experienceScore, formatScore, missingKeywords),
		MissingKeywords: missingKeywords,
		Strengths:       s.strengths(features, jobRequirements),
		CompanyMatch:    companyName,
		IsSuccess:       true,
	}

	s.log.Debug().
		Float64("total_score", result.TotalScore).
		Int("missing_keywords", len(missingKeywords)).
		Msg("本地评分完成")

	return result, nil
}

// keywordScore 岗位关键词在简历文本中的命中比例，无关键词时取中性50分
func (s *ATSScorer) keywordScore(features *types.ResumeFeatures, job *types.JobRequirements) float64 {
	if len(job.Keywords) == 0 {
		return 50.0
	}

	lower := strings.ToLower(features.RawText)
	matches := 0
	for _, keyword := range job.Keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			matches++
		}
	}
	return math.Min(100.0, float64(matches)/float64(len(job.Keywords))*100)
}

// skillScore 要求技能与简历技能的模糊匹配比例（双向子串包含），无要求时取50分
func (s *ATSScorer) skillScore(features *types.ResumeFeatures, job *types.JobRequirements) float64 {
	if len(job.RequiredSkills) == 0 {
		return 50.0
	}

	matches := 0
	for _, required := range job.RequiredSkills {
		if fuzzySkillMatch(features.Skills, required) {
			matches++
		}
	}
	return math.Min(100.0, float64(matches)/float64(len(job.RequiredSkills))*100)
}

// experienceScore 估算年限与要求年限的分档比较，无年限要求时取中性75分
func (s *ATSScorer) experienceScore(features *types.ResumeFeatures, job *types.JobRequirements) float64 {
	required := job.RequiredExperience
	if required == 0 {
		return 75.0
	}

	estimated := s.estimateExperienceYears(features.RawText)
	switch {
	case estimated >= required:
		return 100.0
	case float64(estimated) >= float64(required)*0.8:
		return 85.0
	case float64(estimated) >= float64(required)*0.6:
		return 70.0
	default:
		return math.Max(20.0, float64(estimated)/float64(required)*100)
	}
}

// educationScore 学历要求检查：无要求75，简历无教育经历30，有学位词100，否则40
func (s *ATSScorer) educationScore(features *types.ResumeFeatures, job *types.JobRequirements) float64 {
	if !job.EducationRequired {
		return 75.0
	}
	if len(features.Education) == 0 {
		return 30.0
	}

	lower := strings.ToLower(features.RawText)
	for _, keyword := range degreeWords {
		if strings.Contains(lower, keyword) {
			return 100.0
		}
	}
	return 40.0
}

// formatScore 结构完整性：基础50分，每个标准章节+10，有邮箱再+10，上限100
func (s *ATSScorer) formatScore(features *types.ResumeFeatures) float64 {
	lower := strings.ToLower(features.RawText)
	score := 50.0

	for _, section := range formatSections {
		if strings.Contains(lower, section) {
			score += 10.0
		}
	}
	if scorerEmailRe.MatchString(features.RawText) {
		score += 10.0
	}
	return math.Min(100.0, score)
}

// estimateExperienceYears 从简历文本估算工作年限
// 扫描"N+ years"写法和年份区间（"present"按当前日历年计算），取所有候选值的最大值
func (s *ATSScorer) estimateExperienceYears(text string) int {
	var years []int

	for _, m := range yearsExperienceRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			years = append(years, n)
		}
	}

	currentYear := s.now().Year()
	seen := map[string]struct{}{}
	for _, re := range []*regexp.Regexp{yearRangeRe, shortYearRangeRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			// 两个区间模式会重叠命中同一片段，去重
			if _, dup := seen[m[0]]; dup {
				continue
			}
			seen[m[0]] = struct{}{}

			start, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			end := currentYear
			if !strings.EqualFold(m[2], "present") {
				end, err = strconv.Atoi(m[2])
				if err != nil {
					continue
				}
			}
			years = append(years, end-start)
		}
	}

	maxYears := 0
	for _, y := range years {
		if y > maxYears {
			maxYears = y
		}
	}
	return maxYears
}

// missingKeywords 简历中缺失的岗位关键词，按岗位关键词排名顺序，最多10个
func (s *ATSScorer) missingKeywords(features *types.ResumeFeatures, job *types.JobRequirements) []string {
	lower := strings.ToLower(features.RawText)

	var missing []string
	for _, keyword := range job.Keywords {
		if !strings.Contains(lower, strings.ToLower(keyword)) {
			missing = append(missing, keyword)
			if len(missing) >= constants.MaxMissingKeywords {
				break
			}
		}
	}
	return missing
}

// strengths 按固定规则顺序收集简历亮点：技能匹配、年限达标、高学历
func (s *ATSScorer) strengths(features *types.ResumeFeatures, job *types.JobRequirements) []string {
	var strengths []string

	var matched []string
	for _, required := range job.RequiredSkills {
		if fuzzySkillMatch(features.Skills, required) {
			matched = append(matched, required)
			if len(matched) == 5 {
				break
			}
		}
	}
	if len(matched) > 0 {
		strengths = append(strengths, fmt.Sprintf("Strong technical skills: %s", strings.Join(matched, ", ")))
	}

	estimated := s.estimateExperienceYears(features.RawText)
	if estimated >= job.RequiredExperience {
		strengths = append(strengths, fmt.Sprintf("Meets experience requirements (%d years)", estimated))
	}

	level := educationLevel(features.RawText)
	if level == "Masters" || level == "PhD" {
		strengths = append(strengths, fmt.Sprintf("Advanced education: %s", level))
	}

	return strengths
}

// recommendations 按固定阈值规则生成优化建议
// 一条规则都没触发时给出一条正向鼓励
func (s *ATSScorer) recommendations(features *types.ResumeFeatures, job *types.JobRequirements,
	keywordScore, skillScore, experienceScore, formatScore float64, missingKeywords []string) []string {

	var recommendations []string

	if keywordScore < 70 && len(missingKeywords) > 0 {
		top := missingKeywords
		if len(top) > 5 {
			top = top[:5]
		}
		recommendations = append(recommendations, fmt.Sprintf("Include these keywords: %s", strings.Join(top, ", ")))
	}

	if skillScore < 70 {
		var missingSkills []string
		for _, required := range job.RequiredSkills {
			if !fuzzySkillMatch(features.Skills, required) {
				missingSkills = append(missingSkills, required)
				if len(missingSkills) == 3 {
					break
				}
			}
		}
		if len(missingSkills) > 0 {
			recommendations = append(recommendations, fmt.Sprintf("Highlight these skills: %s", strings.Join(missingSkills, ", ")))
		}
	}

	if experienceScore < 70 {
		recommendations = append(recommendations, "Quantify your achievements with specific numbers and metrics")
	}

	if formatScore < 80 {
		recommendations = append(recommendations, "Improve resume structure with clear sections (Experience, Education, Skills)")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Your resume looks strong! Consider adding quantifiable achievements.")
	}

	return recommendations
}

// fuzzySkillMatch 两个技能词只要一方是另一方的子串（大小写不敏感）即认为匹配
func fuzzySkillMatch(resumeSkills []string, required string) bool {
	requiredLower := strings.ToLower(required)
	for _, skill := range resumeSkills {
		skillLower := strings.ToLower(skill)
		if strings.Contains(skillLower, requiredLower) || strings.Contains(requiredLower, skillLower) {
			return true
		}
	}
	return false
}

// educationLevel 按优先级扫描学历等级
func educationLevel(text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "phd") || strings.Contains(lower, "doctorate") || strings.Contains(lower, "doctoral"):
		return "PhD"
	case strings.Contains(lower, "master") || strings.Contains(lower, "mba") ||
		strings.Contains(lower, "ms") || strings.Contains(lower, "ma"):
		return "Masters"
	case strings.Contains(lower, "bachelor") || strings.Contains(lower, "bs") ||
		strings.Contains(lower, "ba") || strings.Contains(lower, "degree"):
		return "Bachelors"
	default:
		return "High School/Other"
	}
}

// keywordDensity 每个岗位关键词在简历中的出现率（占总词数的百分比）
func keywordDensity(resumeText string, keywords []string) map[string]float64 {
	lower := strings.ToLower(resumeText)
	totalWords := len(strings.Fields(lower))

	density := make(map[string]float64, len(keywords))
	for _, keyword := range keywords {
		if totalWords == 0 {
			density[keyword] = 0
			continue
		}
		count := strings.Count(lower, strings.ToLower(keyword))
		density[keyword] = float64(count) / float64(totalWords) * 100
	}
	return density
}

// round1 四舍五入到一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
