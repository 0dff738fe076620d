package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devan019/GenJob/internal/types"
)

// stubSharer 测试用的简历URL提供者
type stubSharer struct {
	url string
	err error
}

func (s *stubSharer) ShareResumeText(ctx context.Context, text string) (string, error) {
	return s.url, s.err
}

// newMagicalTestServer 模拟MagicalAPI提交与轮询共用endpoint的交互
func newMagicalTestServer(t *testing.T, pendingPolls int32) *httptest.Server {
	var polls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/resume-score", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "magic-key", r.Header.Get("api-key"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// 首次提交携带url+job_description，返回request_id
		if req["request_id"] == "" {
			assert.Equal(t, "https://storage.example.com/resume.txt", req["url"])
			assert.Equal(t, "job description text", req["job_description"])
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"request_id": "req-42"},
			})
			return
		}

		require.Equal(t, "req-42", req["request_id"])
		if atomic.AddInt32(&polls, 1) <= pendingPolls {
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"request_id": "req-42", "status": "pending"},
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"request_id": "req-42",
				"status":     "completed",
				"score":      8.5,
				"reasoning":  "Good skills coverage",
			},
		})
	})

	return httptest.NewServer(mux)
}

// TestMagicalAPIScore 0-10分放大到0-100，说明文字映射为建议
func TestMagicalAPIScore(t *testing.T) {
	srv := newMagicalTestServer(t, 1)
	defer srv.Close()

	sharer := &stubSharer{url: "https://storage.example.com/resume.txt"}
	p := NewMagicalAPIProvider("magic-key", srv.URL, sharer,
		WithMagicalHTTPClient(srv.Client()),
		WithMagicalPollSchedule(5, time.Millisecond, 2*time.Millisecond),
	)

	result, err := p.Score(context.Background(), &types.ResumeFeatures{RawText: "resume body"}, "job description text", "Acme Corp")
	require.NoError(t, err)
	require.True(t, result.IsSuccess)

	assert.InDelta(t, 85.0, result.TotalScore, 0.01)
	assert.InDelta(t, 85.0, result.Scores.KeywordMatch, 0.01)
	assert.InDelta(t, 85.0, result.Scores.FormatScore, 0.01)
	assert.Equal(t, []string{"Good skills coverage"}, result.Recommendations)
	assert.Equal(t, "Acme Corp", result.CompanyMatch)
}

// TestMagicalAPINotConfigured 未配置API Key时立即返回ErrNotConfigured
func TestMagicalAPINotConfigured(t *testing.T) {
	p := NewMagicalAPIProvider("", "https://example.invalid", &stubSharer{})

	_, err := p.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

// TestMagicalAPISharerFailure 简历上传失败时直接返回错误，不发起提交
func TestMagicalAPISharerFailure(t *testing.T) {
	sharer := &stubSharer{err: errors.New("minio unavailable")}
	p := NewMagicalAPIProvider("magic-key", "https://example.invalid", sharer)

	_, err := p.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share resume")
}

// TestMagicalAPINilSharer 未接入对象存储时报错而不是发送空URL
func TestMagicalAPINilSharer(t *testing.T) {
	p := NewMagicalAPIProvider("magic-key", "https://example.invalid", nil)

	_, err := p.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sharer not configured")
}

// TestMagicalAPIJobFailed 远程报告failed时返回ErrJobFailed
func TestMagicalAPIJobFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/resume-score", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["request_id"] == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"request_id": "req-9"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"request_id": "req-9", "status": "failed"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewMagicalAPIProvider("magic-key", srv.URL, &stubSharer{url: "https://storage.example.com/resume.txt"},
		WithMagicalHTTPClient(srv.Client()),
		WithMagicalPollSchedule(3, time.Millisecond, time.Millisecond),
	)

	_, err := p.Score(context.Background(), &types.ResumeFeatures{}, "job", "")
	assert.ErrorIs(t, err, ErrJobFailed)
}
