package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Devan019/GenJob/internal/logger"
	"github.com/Devan019/GenJob/internal/parser"
	"github.com/Devan019/GenJob/internal/storage"
	"github.com/Devan019/GenJob/internal/storage/models"
)

// JobPostingHandler 岗位发布处理器
// 创建时用职位分析器提取技能与年限要求，存储为结构化字段
type JobPostingHandler struct {
	storage  *storage.Storage
	analyzer *parser.JobAnalyzer
}

// NewJobPostingHandler 创建岗位发布处理器
func NewJobPostingHandler(store *storage.Storage, analyzer *parser.JobAnalyzer) *JobPostingHandler {
	if analyzer == nil {
		analyzer = parser.NewJobAnalyzer(nil)
	}
	return &JobPostingHandler{
		storage:  store,
		analyzer: analyzer,
	}
}

// CreateJobPostingRequest 创建岗位请求
type CreateJobPostingRequest struct {
	JobTitle       string  `json:"job_title"`
	CompanyName    string  `json:"company_name"`
	Location       string  `json:"location"`
	Description    string  `json:"description"`
	SalaryCurrency string  `json:"salary_currency"`
	SalaryMin      float64 `json:"salary_min"`
	SalaryMax      float64 `json:"salary_max"`
}

// JobPostingView 岗位响应视图
type JobPostingView struct {
	JobID          string   `json:"job_id"`
	JobTitle       string   `json:"job_title"`
	CompanyName    string   `json:"company_name"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
	RequiredYears  int      `json:"required_years"`
	SalaryCurrency string   `json:"salary_currency,omitempty"`
	SalaryMin      float64  `json:"salary_min,omitempty"`
	SalaryMax      float64  `json:"salary_max,omitempty"`
	Status         string   `json:"status"`
}

// HandleCreate 创建岗位
func (h *JobPostingHandler) HandleCreate(ctx context.Context, req *CreateJobPostingRequest) (*JobPostingView, error) {
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("岗位存储未启用")
	}
	if req == nil || strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}

	// 从岗位描述提取结构化要求
	requirements := h.analyzer.Analyze(req.Description)

	jobTitle := strings.TrimSpace(req.JobTitle)
	if jobTitle == "" {
		jobTitle = requirements.JobTitle
	}

	skillsJSON, err := json.Marshal(requirements.RequiredSkills)
	if err != nil {
		return nil, fmt.Errorf("序列化技能列表失败: %w", err)
	}

	posting := &models.JobPosting{
		JobTitle:       jobTitle,
		CompanyName:    strings.TrimSpace(req.CompanyName),
		Location:       strings.TrimSpace(req.Location),
		Description:    req.Description,
		SkillsJSON:     skillsJSON,
		RequiredYears:  requirements.RequiredExperience,
		SalaryCurrency: req.SalaryCurrency,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
	}

	if err := h.storage.MySQL.CreateJobPosting(ctx, posting); err != nil {
		return nil, err
	}

	logger.Info().Str("job_id", posting.JobID).Str("job_title", posting.JobTitle).Msg("岗位已创建")
	return toView(posting), nil
}

// HandleGet 按ID查询岗位
func (h *JobPostingHandler) HandleGet(ctx context.Context, jobID string) (*JobPostingView, error) {
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("岗位存储未启用")
	}
	posting, err := h.storage.MySQL.GetJobPosting(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return toView(posting), nil
}

// HandleList 分页列出岗位
func (h *JobPostingHandler) HandleList(ctx context.Context, limit, offset int) ([]*JobPostingView, error) {
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("岗位存储未启用")
	}
	postings, err := h.storage.MySQL.ListJobPostings(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]*JobPostingView, 0, len(postings))
	for i := range postings {
		views = append(views, toView(&postings[i]))
	}
	return views, nil
}

// HandleDelete 关闭岗位
func (h *JobPostingHandler) HandleDelete(ctx context.Context, jobID string) error {
	if h.storage == nil || h.storage.MySQL == nil {
		return fmt.Errorf("岗位存储未启用")
	}
	return h.storage.MySQL.DeleteJobPosting(ctx, jobID)
}

// toView 把存储模型转换为响应视图
func toView(posting *models.JobPosting) *JobPostingView {
	var skills []string
	if len(posting.SkillsJSON) > 0 {
		// 解析失败时留空，不影响其余字段
		_ = json.Unmarshal(posting.SkillsJSON, &skills)
	}

	return &JobPostingView{
		JobID:          posting.JobID,
		JobTitle:       posting.JobTitle,
		CompanyName:    posting.CompanyName,
		Location:       posting.Location,
		Description:    posting.Description,
		Skills:         skills,
		RequiredYears:  posting.RequiredYears,
		SalaryCurrency: posting.SalaryCurrency,
		SalaryMin:      posting.SalaryMin,
		SalaryMax:      posting.SalaryMax,
		Status:         posting.Status,
	}
}
