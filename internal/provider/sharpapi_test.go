package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devan019/GenJob/internal/types"
)

// shortSchedule 测试用的快速轮询参数
func shortSchedule() SharpAPIOption {
	return WithSharpPollSchedule(5, time.Millisecond, 2*time.Millisecond)
}

// newSharpTestServer 模拟SharpAPI的提交+轮询交互
// pendingPolls控制返回success前先返回几次pending
func newSharpTestServer(t *testing.T, pendingPolls int32) *httptest.Server {
	var polls int32

	mux := http.NewServeMux()

	mux.HandleFunc("/hr/resume_job_match_score", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "job description text", r.FormValue("content"))
		assert.Equal(t, "en", r.FormValue("language"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "resume.txt", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-123"})
	})

	mux.HandleFunc("/job/status/job-123", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)

		if atomic.AddInt32(&polls, 1) <= pendingPolls {
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"attributes": map[string]any{"status": "pending"}},
			})
			return
		}

		matchResult := map[string]any{
			"match_scores": map[string]float64{
				"overall_match":         82.5,
				"technical_stack_match": 90.0,
				"skills_match":          85.0,
				"experience_match":      70.0,
				"education_match":       80.0,
				"job_title_relevance":   75.0,
			},
			"explanations": map[string][]string{
				"strengths":             {"Solid Python background"},
				"areas_for_improvement": {"kubernetes"},
				"recommendations":       {"Add cloud certifications"},
			},
		}
		resultJSON, err := json.Marshal(matchResult)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"attributes": map[string]any{
				"status": "success",
				"result": string(resultJSON),
			}},
		})
	})

	return httptest.NewServer(mux)
}

// TestSharpAPIScore 完整的提交+轮询+字段映射流程
func TestSharpAPIScore(t *testing.T) {
	srv := newSharpTestServer(t, 2)
	defer srv.Close()

	p := NewSharpAPIProvider("test-key", srv.URL,
		WithSharpHTTPClient(srv.Client()),
		shortSchedule(),
	)

	features := &types.ResumeFeatures{RawText: "resume body"}
	result, err := p.Score(context.Background(), features, "job description text", "Acme Corp")
	require.NoError(t, err)
	require.True(t, result.IsSuccess)

	assert.InDelta(t, 82.5, result.TotalScore, 0.01)
	assert.InDelta(t, 90.0, result.Scores.KeywordMatch, 0.01)
	assert.InDelta(t, 85.0, result.Scores.SkillMatch, 0.01)
	assert.InDelta(t, 70.0, result.Scores.ExperienceMatch, 0.01)
	assert.InDelta(t, 80.0, result.Scores.EducationMatch, 0.01)
	assert.InDelta(t, 75.0, result.Scores.FormatScore, 0.01)

	assert.Equal(t, []string{"Solid Python background"}, result.Strengths)
	assert.Equal(t, []string{"kubernetes"}, result.MissingKeywords)
	assert.Equal(t, []string{"Add cloud certifications"}, result.Recommendations)
	assert.Equal(t, "Acme Corp", result.CompanyMatch)
}

// TestSharpAPINotConfigured 未配置API Key时立即返回ErrNotConfigured
func TestSharpAPINotConfigured(t *testing.T) {
	p := NewSharpAPIProvider("", "https://example.invalid")

	_, err := p.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

// TestSharpAPIJobFailed 远程任务失败时返回ErrJobFailed
func TestSharpAPIJobFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/hr/resume_job_match_score", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-err"})
	})
	mux.HandleFunc("/job/status/job-err", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"attributes": map[string]any{"status": "failed"}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewSharpAPIProvider("test-key", srv.URL,
		WithSharpHTTPClient(srv.Client()),
		shortSchedule(),
	)

	_, err := p.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	assert.ErrorIs(t, err, ErrJobFailed)
}

// TestSharpAPIPollExhausted 轮询次数耗尽返回ErrPollExhausted
func TestSharpAPIPollExhausted(t *testing.T) {
	srv := newSharpTestServer(t, 100)
	defer srv.Close()

	p := NewSharpAPIProvider("test-key", srv.URL,
		WithSharpHTTPClient(srv.Client()),
		WithSharpPollSchedule(3, time.Millisecond, time.Millisecond),
	)

	_, err := p.Score(context.Background(), &types.ResumeFeatures{RawText: "resume body"}, "job description text", "")
	assert.ErrorIs(t, err, ErrPollExhausted)
}

// TestSharpAPICheckAvailability 可用性探测：Key未配置时不可用
func TestSharpAPICheckAvailability(t *testing.T) {
	p := NewSharpAPIProvider("", "https://example.invalid")
	info := p.CheckAvailability(context.Background())
	assert.False(t, info.IsAvailable)
	assert.Equal(t, "sharpapi", info.Provider)
	assert.Equal(t, "api key not configured", info.Status)
}
