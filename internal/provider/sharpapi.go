package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Devan019/GenJob/internal/constants"
	"github.com/Devan019/GenJob/internal/logger"
	"github.com/Devan019/GenJob/internal/types"
)

// SharpAPIProvider SharpAPI简历-职位匹配评分服务的客户端
//
// 提交阶段通过multipart表单上传简历文本与职位描述，服务端返回job_id；
// 之后轮询 job/status/{id}，完成时result字段是一段内嵌的JSON字符串，
// 需要二次解码才能拿到分数明细。
type SharpAPIProvider struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	schedule pollSchedule
	log      zerolog.Logger
}

// SharpAPIOption SharpAPI客户端的配置选项
type SharpAPIOption func(*SharpAPIProvider)

// WithSharpHTTPClient 注入自定义HTTP客户端，测试时指向httptest服务
func WithSharpHTTPClient(c *http.Client) SharpAPIOption {
	return func(p *SharpAPIProvider) {
		p.client = c
	}
}

// WithSharpPollSchedule 覆盖轮询退避参数，测试时缩短间隔
func WithSharpPollSchedule(maxAttempts int, initial, max time.Duration) SharpAPIOption {
	return func(p *SharpAPIProvider) {
		p.schedule = pollSchedule{maxAttempts: maxAttempts, initialDelay: initial, maxDelay: max}
	}
}

// WithSharpLogger 设置日志记录器
func WithSharpLogger(log zerolog.Logger) SharpAPIOption {
	return func(p *SharpAPIProvider) {
		p.log = log
	}
}

// NewSharpAPIProvider 创建SharpAPI评分客户端
func NewSharpAPIProvider(apiKey, baseURL string, opts ...SharpAPIOption) *SharpAPIProvider {
	p := &SharpAPIProvider{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: constants.ProviderCallTimeout},
		schedule: defaultPollSchedule(),
		log:      logger.Logger.With().Str("provider", "sharpapi").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name 返回Provider标识
func (p *SharpAPIProvider) Name() string {
	return "sharpapi"
}

// sharpSubmitResponse 提交接口响应
type sharpSubmitResponse struct {
	StatusURL string `json:"status_url"`
	JobID     string `json:"job_id"`
}

// sharpStatusResponse 轮询接口响应，result在成功时是JSON字符串
type sharpStatusResponse struct {
	Data struct {
		Attributes struct {
			Status string `json:"status"`
			Result string `json:"result"`
		} `json:"attributes"`
	} `json:"data"`
}

// sharpMatchResult result字符串二次解码后的结构
type sharpMatchResult struct {
	MatchScores struct {
		OverallMatch        float64 `json:"overall_match"`
		TechnicalStackMatch float64 `json:"technical_stack_match"`
		SkillsMatch         float64 `json:"skills_match"`
		ExperienceMatch     float64 `json:"experience_match"`
		EducationMatch      float64 `json:"education_match"`
		JobTitleRelevance   float64 `json:"job_title_relevance"`
	} `json:"match_scores"`
	Explanations struct {
		Strengths           []string `json:"strengths"`
		AreasForImprovement []string `json:"areas_for_improvement"`
		Recommendations     []string `json:"recommendations"`
	} `json:"explanations"`
}

// Score 提交简历与职位描述评分，轮询直到完成
func (p *SharpAPIProvider) Score(ctx context.Context, features *types.ResumeFeatures, jobDescription, companyName string) (*types.ScoreResult, error) {
	if p.apiKey == "" {
		return nil, ErrNotConfigured
	}

	jobID, err := p.submit(ctx, features.RawText, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("sharpapi submit: %w", err)
	}
	p.log.Debug().Str("job_id", jobID).Msg("评分任务已提交")

	result, err := p.poll(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("sharpapi poll: %w", err)
	}

	return p.mapResult(result, companyName), nil
}

func (p *SharpAPIProvider) submit(ctx context.Context, resumeText, jobDescription string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", "resume.txt")
	if err != nil {
		return "", err
	}
	if _, err := part.Write([]byte(resumeText)); err != nil {
		return "", err
	}
	if err := w.WriteField("content", jobDescription); err != nil {
		return "", err
	}
	if err := w.WriteField("language", "en"); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	url := p.baseURL + "/hr/resume_job_match_score"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	var submitResp sharpSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitResp); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if submitResp.JobID == "" {
		return "", fmt.Errorf("submit response missing job_id")
	}
	return submitResp.JobID, nil
}

func (p *SharpAPIProvider) poll(ctx context.Context, jobID string) (*sharpMatchResult, error) {
	url := p.baseURL + "/job/status/" + jobID
	delay := p.schedule.initialDelay

	for attempt := 1; attempt <= p.schedule.maxAttempts; attempt++ {
		var err error
		if delay, err = p.schedule.wait(ctx, delay); err != nil {
			return nil, err
		}

		status, result, err := p.fetchStatus(ctx, url)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(status) {
		case "success", "completed":
			return result, nil
		case "failed", "error":
			return nil, ErrJobFailed
		default:
			p.log.Debug().Str("job_id", jobID).Str("status", status).Int("attempt", attempt).Msg("任务未完成，继续轮询")
		}
	}
	return nil, ErrPollExhausted
}

func (p *SharpAPIProvider) fetchStatus(ctx context.Context, url string) (string, *sharpMatchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var statusResp sharpStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		return "", nil, fmt.Errorf("decode status response: %w", err)
	}

	status := statusResp.Data.Attributes.Status
	if strings.EqualFold(status, "success") || strings.EqualFold(status, "completed") {
		var result sharpMatchResult
		if err := json.Unmarshal([]byte(statusResp.Data.Attributes.Result), &result); err != nil {
			return "", nil, fmt.Errorf("decode match result: %w", err)
		}
		return status, &result, nil
	}
	return status, nil, nil
}

// mapResult 把SharpAPI的字段映射到统一的评分结构
func (p *SharpAPIProvider) mapResult(r *sharpMatchResult, companyName string) *types.ScoreResult {
	return &types.ScoreResult{
		IsSuccess:  true,
		TotalScore: r.MatchScores.OverallMatch,
		Scores: types.ScoreBreakdown{
			KeywordMatch:    r.MatchScores.TechnicalStackMatch,
			SkillMatch:      r.MatchScores.SkillsMatch,
			ExperienceMatch: r.MatchScores.ExperienceMatch,
			EducationMatch:  r.MatchScores.EducationMatch,
			FormatScore:     r.MatchScores.JobTitleRelevance,
		},
		Strengths:       r.Explanations.Strengths,
		MissingKeywords: r.Explanations.AreasForImprovement,
		Recommendations: r.Explanations.Recommendations,
		CompanyMatch:    companyName,
	}
}

// CheckAvailability 探测服务可用性，只看Key配置与基础连通性
func (p *SharpAPIProvider) CheckAvailability(ctx context.Context) types.ProviderInfo {
	info := types.ProviderInfo{Name: "SharpAPI", Provider: p.Name()}
	if p.apiKey == "" {
		info.Status = "api key not configured"
		return info
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ProviderHealthTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/ping", nil)
	if err != nil {
		info.Status = err.Error()
		return info
	}
	resp, err := p.client.Do(req)
	if err != nil {
		info.Status = err.Error()
		return info
	}
	defer resp.Body.Close()

	info.ResponseTimeMS = float64(time.Since(start).Milliseconds())
	info.IsAvailable = resp.StatusCode < http.StatusInternalServerError
	info.Status = resp.Status
	return info
}
