package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devan019/GenJob/internal/config"
	"github.com/Devan019/GenJob/internal/parser"
	"github.com/Devan019/GenJob/internal/processor"
	"github.com/Devan019/GenJob/internal/types"
)

// newTestATSHandler 纯本地评分链的处理器，不依赖任何外部存储
func newTestATSHandler(t *testing.T) *ATSHandler {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	local := processor.NewATSScorer()
	chain := processor.NewFallbackProvider(local)
	return NewATSHandler(cfg, nil, nil, parser.NewResumeExtractor(nil), chain)
}

// TestHandleAnalyzeWithText 纯文本简历走完整分析流程
func TestHandleAnalyzeWithText(t *testing.T) {
	h := newTestATSHandler(t)

	resp, err := h.HandleAnalyze(context.Background(), &AnalyzeRequest{
		ResumeText:     "Experienced python developer with django and postgresql. 5 years of experience.\njane@example.com",
		JobDescription: "Looking for a Python Developer with 3+ years of experience in python and django.",
		CompanyName:    "Acme Corp",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.AnalysisID)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.IsSuccess)
	assert.Greater(t, resp.Result.TotalScore, 0.0)
	assert.Equal(t, "Acme Corp", resp.Result.CompanyMatch)
}

// TestHandleAnalyzeMissingJobDescription 缺少岗位描述直接报错
func TestHandleAnalyzeMissingJobDescription(t *testing.T) {
	h := newTestATSHandler(t)

	_, err := h.HandleAnalyze(context.Background(), &AnalyzeRequest{
		ResumeText: "some resume text",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job_description")
}

// TestHandleAnalyzeMissingResume 既无文件又无文本时报错
func TestHandleAnalyzeMissingResume(t *testing.T) {
	h := newTestATSHandler(t)

	_, err := h.HandleAnalyze(context.Background(), &AnalyzeRequest{
		JobDescription: "Looking for a developer",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume")
}

// TestHandleAnalyzeUniqueIDs 每次分析生成独立的分析ID
func TestHandleAnalyzeUniqueIDs(t *testing.T) {
	h := newTestATSHandler(t)

	req := &AnalyzeRequest{
		ResumeText:     "python developer",
		JobDescription: "Looking for a Python Developer",
	}

	first, err := h.HandleAnalyze(context.Background(), req)
	require.NoError(t, err)
	second, err := h.HandleAnalyze(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)
	// 同样输入的评分结果是确定的
	assert.Equal(t, first.Result.TotalScore, second.Result.TotalScore)
}

// stubChecker 测试用的可用性探测桩
type stubChecker struct {
	info types.ProviderInfo
}

func (s *stubChecker) CheckAvailability(ctx context.Context) types.ProviderInfo {
	return s.info
}

// TestHandleProviders 列表末尾始终携带本地引擎且报告可用
func TestHandleProviders(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	remote := &stubChecker{info: types.ProviderInfo{Name: "SharpAPI", Provider: "sharpapi", IsAvailable: false}}
	h := NewATSHandler(cfg, nil, nil, parser.NewResumeExtractor(nil),
		processor.NewFallbackProvider(processor.NewATSScorer()), remote)

	infos := h.HandleProviders(context.Background())
	require.Len(t, infos, 2)
	assert.Equal(t, "sharpapi", infos[0].Provider)
	assert.Equal(t, "local", infos[1].Provider)
	assert.True(t, infos[1].IsAvailable)
}
