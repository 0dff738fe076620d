package parser

// SkillCatalog 技能与停用词目录
// 作为不可变配置表传入各分析组件，方便在测试中替换
type SkillCatalog struct {
	// Technical 按类别分组的技术技能短语（全小写）
	Technical map[string][]string

	// SoftSkills 软技能短语（全小写）
	SoftSkills []string

	// StopWords 关键词提取时过滤掉的停用词
	StopWords map[string]struct{}

	// DegreeKeywords 学历指示词
	DegreeKeywords []string

	// GenericCompanyWords 公司名提取时排除的通用后缀词
	GenericCompanyWords map[string]struct{}
}

// DefaultCatalog 返回内置的默认目录
// 每次调用返回一个独立副本，调用方修改不会影响全局
func DefaultCatalog() *SkillCatalog {
	technical := map[string][]string{
		"programming": {"python", "java", "javascript", "c++", "c#", "php", "ruby", "go", "swift", "kotlin", "rust", "scala"},
		"web_tech":    {"html", "css", "react", "angular", "vue", "node.js", "django", "flask", "spring", "laravel", "express"},
		"databases":   {"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch", "oracle", "sqlite", "soql", "sosl"},
		"cloud":       {"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "terraform", "ansible"},
		"tools":       {"git", "github", "gitlab", "jira", "confluence", "slack", "trello", "asana"},
		"ai_ml":       {"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn", "pandas", "numpy"},
		"methodologies": {"agile", "scrum", "devops", "ci/cd", "microservices", "api", "rest", "graphql"},
		"salesforce": {"salesforce", "apex", "lwc", "lightning web components", "aura components", "visualforce",
			"sales cloud", "service cloud", "salesforce admin", "soap", "salesforce platform developer",
			"einstein analytics", "wave analytics"},
	}

	softSkills := []string{
		"leadership", "communication", "teamwork", "problem solving", "analytical",
		"creative", "adaptable", "organized", "detail-oriented", "time management",
		"collaboration", "mentoring", "presentation", "negotiation", "critical thinking",
	}

	stopWords := map[string]struct{}{}
	for _, w := range []string{
		"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
		"will", "be", "are", "is", "was", "were", "have", "has", "had", "been", "being",
		"this", "that", "these", "those", "a", "an", "as", "we", "you", "they", "it",
		"our", "your", "their", "my", "me", "him", "her", "us", "them",
	} {
		stopWords[w] = struct{}{}
	}

	degreeKeywords := []string{"bachelor", "master", "phd", "degree", "diploma", "certification"}

	genericCompanyWords := map[string]struct{}{}
	for _, w := range []string{"Company", "Inc", "Corp", "LLC", "Ltd", "Software", "Technology", "Solutions"} {
		genericCompanyWords[w] = struct{}{}
	}

	return &SkillCatalog{
		Technical:           technical,
		SoftSkills:          softSkills,
		StopWords:           stopWords,
		DegreeKeywords:      degreeKeywords,
		GenericCompanyWords: genericCompanyWords,
	}
}

// AllTechnical 展平所有技术技能类别
func (c *SkillCatalog) AllTechnical() []string {
	var skills []string
	// 按固定类别顺序展平，保证结果确定性
	for _, category := range []string{"programming", "web_tech", "databases", "cloud", "tools", "ai_ml", "methodologies", "salesforce"} {
		skills = append(skills, c.Technical[category]...)
	}
	// 兜底：目录中可能有自定义类别
	known := map[string]struct{}{
		"programming": {}, "web_tech": {}, "databases": {}, "cloud": {},
		"tools": {}, "ai_ml": {}, "methodologies": {}, "salesforce": {},
	}
	for category, list := range c.Technical {
		if _, ok := known[category]; !ok {
			skills = append(skills, list...)
		}
	}
	return skills
}
