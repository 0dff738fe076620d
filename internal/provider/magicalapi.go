package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Devan019/GenJob/internal/constants"
	"github.com/Devan019/GenJob/internal/logger"
	"github.com/Devan019/GenJob/internal/types"
)

// ResumeSharer 把简历文本上传到对象存储并返回一个可公开访问的URL
//
// MagicalAPI只接受URL形式的简历，不接受内联文本，所以评分前必须先把
// 解析出的文本落到对象存储并签发预签名链接。
type ResumeSharer interface {
	ShareResumeText(ctx context.Context, text string) (string, error)
}

// MagicalAPIProvider MagicalAPI简历评分服务的客户端
//
// 提交与轮询共用同一个endpoint：首次POST {url, job_description}返回
// request_id，之后带request_id重复POST直到status变为completed。
// 服务返回0-10分，映射时统一放大到0-100。
type MagicalAPIProvider struct {
	apiKey   string
	baseURL  string
	sharer   ResumeSharer
	client   *http.Client
	schedule pollSchedule
	log      zerolog.Logger
}

// MagicalAPIOption MagicalAPI客户端的配置选项
type MagicalAPIOption func(*MagicalAPIProvider)

// WithMagicalHTTPClient 注入自定义HTTP客户端
func WithMagicalHTTPClient(c *http.Client) MagicalAPIOption {
	return func(p *MagicalAPIProvider) {
		p.client = c
	}
}

// WithMagicalPollSchedule 覆盖轮询退避参数
func WithMagicalPollSchedule(maxAttempts int, initial, max time.Duration) MagicalAPIOption {
	return func(p *MagicalAPIProvider) {
		p.schedule = pollSchedule{maxAttempts: maxAttempts, initialDelay: initial, maxDelay: max}
	}
}

// WithMagicalLogger 设置日志记录器
func WithMagicalLogger(log zerolog.Logger) MagicalAPIOption {
	return func(p *MagicalAPIProvider) {
		p.log = log
	}
}

// NewMagicalAPIProvider 创建MagicalAPI评分客户端，sharer负责提供简历URL
func NewMagicalAPIProvider(apiKey, baseURL string, sharer ResumeSharer, opts ...MagicalAPIOption) *MagicalAPIProvider {
	p := &MagicalAPIProvider{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		sharer:   sharer,
		client:   &http.Client{Timeout: constants.ProviderCallTimeout},
		schedule: defaultPollSchedule(),
		log:      logger.Logger.With().Str("provider", "magicalapi").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name 返回Provider标识
func (p *MagicalAPIProvider) Name() string {
	return "magicalapi"
}

// magicalRequest 提交与轮询共用的请求体
type magicalRequest struct {
	URL            string `json:"url,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

// magicalResponse 提交与轮询共用的响应体
type magicalResponse struct {
	Data struct {
		RequestID string  `json:"request_id"`
		Status    string  `json:"status"`
		Score     float64 `json:"score"`
		Reasoning string  `json:"reasoning"`
	} `json:"data"`
	Message string `json:"message"`
}

// Score 上传简历文本、提交评分请求并轮询结果
func (p *MagicalAPIProvider) Score(ctx context.Context, features *types.ResumeFeatures, jobDescription, companyName string) (*types.ScoreResult, error) {
	if p.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if p.sharer == nil {
		return nil, fmt.Errorf("magicalapi: resume sharer not configured")
	}

	resumeURL, err := p.sharer.ShareResumeText(ctx, features.RawText)
	if err != nil {
		return nil, fmt.Errorf("magicalapi share resume: %w", err)
	}

	requestID, err := p.submit(ctx, resumeURL, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("magicalapi submit: %w", err)
	}
	p.log.Debug().Str("request_id", requestID).Msg("评分任务已提交")

	resp, err := p.poll(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("magicalapi poll: %w", err)
	}

	return p.mapResult(resp, companyName), nil
}

func (p *MagicalAPIProvider) submit(ctx context.Context, resumeURL, jobDescription string) (string, error) {
	resp, err := p.post(ctx, magicalRequest{URL: resumeURL, JobDescription: jobDescription})
	if err != nil {
		return "", err
	}
	if resp.Data.RequestID == "" {
		return "", fmt.Errorf("submit response missing request_id")
	}
	return resp.Data.RequestID, nil
}

func (p *MagicalAPIProvider) poll(ctx context.Context, requestID string) (*magicalResponse, error) {
	delay := p.schedule.initialDelay

	for attempt := 1; attempt <= p.schedule.maxAttempts; attempt++ {
		var err error
		if delay, err = p.schedule.wait(ctx, delay); err != nil {
			return nil, err
		}

		resp, err := p.post(ctx, magicalRequest{RequestID: requestID})
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(resp.Data.Status) {
		case "completed", "success":
			return resp, nil
		case "failed", "error":
			return nil, ErrJobFailed
		default:
			p.log.Debug().Str("request_id", requestID).Str("status", resp.Data.Status).Int("attempt", attempt).Msg("任务未完成，继续轮询")
		}
	}
	return nil, ErrPollExhausted
}

func (p *MagicalAPIProvider) post(ctx context.Context, body magicalRequest) (*magicalResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := p.baseURL + "/resume-score"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out magicalResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// mapResult 把0-10分的单一评分放大到0-100，各分项沿用总分
func (p *MagicalAPIProvider) mapResult(resp *magicalResponse, companyName string) *types.ScoreResult {
	score := resp.Data.Score * 10

	result := &types.ScoreResult{
		IsSuccess:  true,
		TotalScore: score,
		Scores: types.ScoreBreakdown{
			KeywordMatch:    score,
			SkillMatch:      score,
			ExperienceMatch: score,
			EducationMatch:  score,
			FormatScore:     score,
		},
		CompanyMatch: companyName,
	}
	if resp.Data.Reasoning != "" {
		result.Recommendations = []string{resp.Data.Reasoning}
	}
	return result
}

// CheckAvailability 探测服务可用性
func (p *MagicalAPIProvider) CheckAvailability(ctx context.Context) types.ProviderInfo {
	info := types.ProviderInfo{Name: "MagicalAPI", Provider: p.Name()}
	if p.apiKey == "" {
		info.Status = "api key not configured"
		return info
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ProviderHealthTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
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
