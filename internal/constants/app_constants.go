package constants

import "time"

const (
	// DefaultJobTitle 岗位描述中识别不出职位名时的兜底值
	DefaultJobTitle = "Software Developer"

	// ExperienceSectionWindow 经历章节标题之后的启发式扫描窗口（字符数）
	ExperienceSectionWindow = 2000

	// MaxExperienceEntries 工作经历最多保留条数
	MaxExperienceEntries = 5
	// MaxEducationEntries 教育经历最多保留条数
	MaxEducationEntries = 3
	// MaxResumeKeywords 简历关键词上限
	MaxResumeKeywords = 30
	// MaxJobKeywords 岗位关键词上限
	MaxJobKeywords = 15
	// MaxCompanyMentions 公司名提及上限
	MaxCompanyMentions = 5
	// MaxMissingKeywords 缺失关键词上限
	MaxMissingKeywords = 10

	// ProviderCallTimeout 远程评分服务单次HTTP调用超时
	ProviderCallTimeout = 30 * time.Second
	// ProviderHealthTimeout 可用性探测超时
	ProviderHealthTimeout = 3 * time.Second
	// ProviderPollMaxAttempts 轮询结果的最大尝试次数
	ProviderPollMaxAttempts = 10
	// ProviderPollInitialDelay 轮询初始间隔
	ProviderPollInitialDelay = 2 * time.Second
	// ProviderPollMaxDelay 指数退避的间隔上限
	ProviderPollMaxDelay = 10 * time.Second
)
