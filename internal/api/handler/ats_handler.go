package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/Devan019/GenJob/internal/config"
	"github.com/Devan019/GenJob/internal/logger"
	"github.com/Devan019/GenJob/internal/parser"
	"github.com/Devan019/GenJob/internal/processor"
	"github.com/Devan019/GenJob/internal/storage"
	"github.com/Devan019/GenJob/internal/types"
)

// ATSHandler ATS分析处理器，协调文本提取、特征提取与评分
//
// 方法签名与传输层无关，hertz的参数绑定在router层完成。
type ATSHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	extractor *parser.TextExtractor
	features  *parser.ResumeExtractor
	scorer    processor.ScoreProvider
	checkers  []processor.AvailabilityChecker
}

// NewATSHandler 创建ATS分析处理器
// storage和extractor可以为nil：此时只支持纯文本简历输入
func NewATSHandler(
	cfg *config.Config,
	store *storage.Storage,
	extractor *parser.TextExtractor,
	features *parser.ResumeExtractor,
	scorer processor.ScoreProvider,
	checkers ...processor.AvailabilityChecker,
) *ATSHandler {
	return &ATSHandler{
		cfg:       cfg,
		storage:   store,
		extractor: extractor,
		features:  features,
		scorer:    scorer,
		checkers:  checkers,
	}
}

// AnalyzeRequest ATS分析请求
// FileData与ResumeText二选一，文件优先
type AnalyzeRequest struct {
	Filename       string
	FileData       []byte
	ResumeText     string
	JobDescription string
	CompanyName    string
}

// AnalyzeResponse ATS分析响应
type AnalyzeResponse struct {
	AnalysisID string             `json:"analysis_id"`
	Result     *types.ScoreResult `json:"result"`
}

// HandleAnalyze 执行一次完整的ATS分析
func (h *ATSHandler) HandleAnalyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("请求不能为空")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, fmt.Errorf("job_description is required")
	}

	resumeText, err := h.resolveResumeText(ctx, req)
	if err != nil {
		return nil, err
	}

	analysisID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成分析ID失败: %w", err)
	}

	feats := h.features.ExtractFromText(resumeText)

	companyName := h.resolveCompany(ctx, req.CompanyName)

	result, err := h.scorer.Score(ctx, feats, req.JobDescription, companyName)
	if err != nil {
		logger.Error().Err(err).Str("analysis_id", analysisID.String()).Msg("评分失败")
		return nil, fmt.Errorf("评分失败: %w", err)
	}

	logger.Info().
		Str("analysis_id", analysisID.String()).
		Float64("total_score", result.TotalScore).
		Bool("is_success", result.IsSuccess).
		Msg("ATS分析完成")

	return &AnalyzeResponse{
		AnalysisID: analysisID.String(),
		Result:     result,
	}, nil
}

// resolveResumeText 取出简历纯文本：文件优先，其次直接给的文本
func (h *ATSHandler) resolveResumeText(ctx context.Context, req *AnalyzeRequest) (string, error) {
	if len(req.FileData) > 0 {
		if h.extractor == nil {
			return "", fmt.Errorf("文件解析未启用")
		}
		text, err := h.extractor.Extract(ctx, req.Filename, req.FileData)
		if err != nil {
			if errors.Is(err, parser.ErrUnsupportedFormat) {
				return "", err
			}
			return "", fmt.Errorf("提取简历文本失败: %w", err)
		}
		return text, nil
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		return "", fmt.Errorf("resume file or resume_text is required")
	}
	return req.ResumeText, nil
}

// resolveCompany 带Redis缓存的公司名确认，缓存不可用时直接透传
func (h *ATSHandler) resolveCompany(ctx context.Context, companyName string) string {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" || h.storage == nil || h.storage.Redis == nil {
		return companyName
	}

	cached, err := h.storage.Redis.GetCompany(ctx, companyName)
	if err == nil {
		return cached.Name
	}
	if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Err(err).Str("company", companyName).Msg("读取公司缓存失败")
		return companyName
	}

	if err := h.storage.Redis.SaveCompany(ctx, &types.CompanyInfo{Name: companyName}); err != nil {
		logger.Warn().Err(err).Str("company", companyName).Msg("写入公司缓存失败")
	}
	return companyName
}

// HandleProviders 列出所有评分服务的可用性
// 本地引擎没有外部依赖，始终报告可用
func (h *ATSHandler) HandleProviders(ctx context.Context) []types.ProviderInfo {
	infos := make([]types.ProviderInfo, 0, len(h.checkers)+1)
	for _, checker := range h.checkers {
		infos = append(infos, checker.CheckAvailability(ctx))
	}
	infos = append(infos, types.ProviderInfo{
		Name:        "Local Scoring Engine",
		Provider:    "local",
		IsAvailable: true,
		Status:      "ok",
	})
	return infos
}
