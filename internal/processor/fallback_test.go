package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devan019/GenJob/internal/types"
)

// stubProvider 测试用的评分服务桩，返回预设的结果或错误
type stubProvider struct {
	name      string
	result    *types.ScoreResult
	err       error
	callCount int
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Score(ctx context.Context, features *types.ResumeFeatures, jobDescription string, companyName string) (*types.ScoreResult, error) {
	s.callCount++
	return s.result, s.err
}

// TestFallbackFirstSuccessWins 第一个成功结果被采纳，后续Provider不再调用
func TestFallbackFirstSuccessWins(t *testing.T) {
	first := &stubProvider{name: "first", result: &types.ScoreResult{IsSuccess: true, TotalScore: 88.0}}
	second := &stubProvider{name: "second", result: &types.ScoreResult{IsSuccess: true, TotalScore: 10.0}}

	chain := NewFallbackProvider(first, second)
	result, err := chain.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	require.NoError(t, err)
	assert.True(t, result.IsSuccess)
	assert.InDelta(t, 88.0, result.TotalScore, 0.01)
	assert.Equal(t, 1, first.callCount)
	assert.Equal(t, 0, second.callCount)
}

// TestFallbackSkipsFailures 报错和非成功结果都会跳到下一个Provider
func TestFallbackSkipsFailures(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("connection refused")}
	unsuccessful := &stubProvider{name: "unsuccessful", result: &types.ScoreResult{IsSuccess: false, ErrorMessage: "remote job failed"}}
	good := &stubProvider{name: "good", result: &types.ScoreResult{IsSuccess: true, TotalScore: 72.5}}

	chain := NewFallbackProvider(failing, unsuccessful, good)
	result, err := chain.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	require.NoError(t, err)
	assert.True(t, result.IsSuccess)
	assert.InDelta(t, 72.5, result.TotalScore, 0.01)
	assert.Equal(t, 1, failing.callCount)
	assert.Equal(t, 1, unsuccessful.callCount)
	assert.Equal(t, 1, good.callCount)
}

// TestFallbackAllFail 所有Provider失败时返回Failure结果而不是错误
func TestFallbackAllFail(t *testing.T) {
	a := &stubProvider{name: "a", err: errors.New("timeout")}
	b := &stubProvider{name: "b", err: errors.New("unauthorized")}

	chain := NewFallbackProvider(a, b)
	result, err := chain.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsSuccess)
	assert.Equal(t, "An error occurred while calculating the ATS score.", result.ErrorMessage)
}

// TestFallbackRemoteFailuresToLocal 两个远程服务失败后本地引擎兜底产出成功结果
func TestFallbackRemoteFailuresToLocal(t *testing.T) {
	sharp := &stubProvider{name: "sharpapi", err: errors.New("poll exhausted")}
	magical := &stubProvider{name: "magicalapi", err: errors.New("api key not configured")}
	local := NewATSScorer(WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	}))

	chain := NewFallbackProvider(sharp, magical, local)
	result, err := chain.Score(context.Background(), &types.ResumeFeatures{RawText: "python developer"}, "Looking for a Python Developer", "")
	require.NoError(t, err)
	assert.True(t, result.IsSuccess)
	assert.Greater(t, result.TotalScore, 0.0)
	assert.Equal(t, 1, sharp.callCount)
	assert.Equal(t, 1, magical.callCount)
}
