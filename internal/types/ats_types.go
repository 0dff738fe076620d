package types

// ResumeFeatures 简历结构化特征
// 由特征提取器从纯文本中一次性构建，之后视为只读
type ResumeFeatures struct {
	// 原始文本（提取器不会修改它）
	RawText string `json:"raw_text"`

	// 命中的技能词（去重，顺序无意义）
	Skills []string `json:"skills"`

	// 工作经历片段（文档顺序，最多5条）
	Experience []WorkExperience `json:"experience"`

	// 教育经历片段（最多3条）
	Education []EducationEntry `json:"education"`

	// 按词频排序的关键词（最多30个）
	Keywords []string `json:"keywords"`

	// 联系方式
	Contact ContactInfo `json:"contact_info"`

	// 摘要/自我介绍
	Summary string `json:"summary"`
}

// WorkExperience 单条工作经历
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// EducationEntry 单条教育经历
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// ContactInfo 联系方式，未命中的字段留空
type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// JobRequirements 从岗位描述中提取出的结构化要求
type JobRequirements struct {
	// 命中的技术技能
	RequiredSkills []string `json:"required_skills"`

	// 命中的软技能
	RequiredSoftSkills []string `json:"required_soft_skills"`

	// 要求的工作年限，0表示未指定
	RequiredExperience int `json:"required_experience"`

	// 是否要求学历
	EducationRequired bool `json:"education_required"`

	// 按词频排序的关键词（最多15个）
	Keywords []string `json:"keywords"`

	// 岗位名称，未识别时为默认值
	JobTitle string `json:"job_title"`

	// 提到的公司名（最多5个，按出现顺序）
	CompanyMentions []string `json:"company_mentions"`
}

// ScoreBreakdown 五项子分数，均在[0,100]区间内
type ScoreBreakdown struct {
	KeywordMatch    float64 `json:"keyword_match"`
	SkillMatch      float64 `json:"skill_match"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationMatch  float64 `json:"education_match"`
	FormatScore     float64 `json:"format_score"`
}

// ResumeAnalysis 评分过程中派生出的简历侧分析摘要
type ResumeAnalysis struct {
	SkillsFound     []string           `json:"skills_found"`
	ExperienceYears int                `json:"experience_years"`
	EducationLevel  string             `json:"education_level"`
	KeywordDensity  map[string]float64 `json:"keyword_density"`
}

// ScoreResult ATS评分结果
// 本地引擎和远程Provider共享同一结果契约
type ScoreResult struct {
	// 加权总分，保留一位小数
	// 注意：权重之和为1.10，历史行为，不做归一化（见各Provider实现）
	TotalScore float64 `json:"total_score"`

	// 各子项分数
	Scores ScoreBreakdown `json:"scores"`

	// 岗位要求
	JobRequirements JobRequirements `json:"job_requirements"`

	// 简历分析摘要
	ResumeAnalysis ResumeAnalysis `json:"resume_analysis"`

	// 优化建议（固定规则顺序生成）
	Recommendations []string `json:"recommendations"`

	// 简历中缺失的岗位关键词（最多10个，按岗位关键词排名顺序）
	MissingKeywords []string `json:"missing_keywords"`

	// 简历亮点
	Strengths []string `json:"strengths"`

	// 匹配到的公司名（可选）
	CompanyMatch string `json:"company_match,omitempty"`

	// 是否成功；失败时只有ErrorMessage有意义
	IsSuccess bool `json:"is_success"`

	// 面向用户的简短错误信息，详细诊断只进日志
	ErrorMessage string `json:"error_message,omitempty"`
}

// CompanyInfo 公司基本信息，缓存在Redis中用于确认company_match
type CompanyInfo struct {
	Name         string  `json:"name"`
	Website      string  `json:"website,omitempty"`
	Industry     string  `json:"industry,omitempty"`
	Description  string  `json:"company_description,omitempty"`
	Headquarters string  `json:"headquarters_location,omitempty"`
	CompanySize  string  `json:"company_size,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
}

// ProviderInfo 单个评分服务的可用性信息
type ProviderInfo struct {
	Name           string  `json:"name"`
	Provider       string  `json:"provider"`
	IsAvailable    bool    `json:"is_available"`
	Status         string  `json:"status"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}
