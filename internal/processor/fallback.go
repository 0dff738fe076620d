package processor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Devan019/GenJob/internal/logger"
	"github.com/Devan019/GenJob/internal/types"
)

// FallbackProvider 按固定顺序依次尝试多个评分服务的降级链
// 采纳第一个Success结果；Provider报错、超时、轮询耗尽、结果非Success
// 一律视为"尝试下一个"。链尾通常是本地引擎，保证总能产出结果。
// 这是一个纯粹的顺序契约，与任何具体Provider的传输细节无关
type FallbackProvider struct {
	providers []ScoreProvider
	log       zerolog.Logger
}

// 确保FallbackProvider自身也满足ScoreProvider契约，便于嵌套组合
var _ ScoreProvider = (*FallbackProvider)(nil)

// NewFallbackProvider 创建降级链，providers顺序即尝试顺序
func NewFallbackProvider(providers ...ScoreProvider) *FallbackProvider {
	return &FallbackProvider{
		providers: providers,
		log:       logger.Logger.With().Str("component", "fallback_provider").Logger(),
	}
}

// Name 实现ScoreProvider接口
func (f *FallbackProvider) Name() string {
	return "fallback-chain"
}

// Score 依次尝试每个Provider，返回第一个成功结果
// 所有Provider都失败时返回一个Failure结果（而不是错误），
// 保证公开的评分操作总是返回结果值
func (f *FallbackProvider) Score(ctx context.Context, features *types.ResumeFeatures, jobDescription string, companyName string) (*types.ScoreResult, error) {
	for _, provider := range f.providers {
		result, err := provider.Score(ctx, features, jobDescription, companyName)
		if err != nil {
			f.log.Warn().
				Err(err).
				Str("provider", provider.Name()).
				Msg("评分服务失败，尝试下一个")
			continue
		}
		if result != nil && result.IsSuccess {
			f.log.Info().
				Str("provider", provider.Name()).
				Float64("total_score", result.TotalScore).
				Msg("评分服务返回成功结果")
			return result, nil
		}
		f.log.Warn().
			Str("provider", provider.Name()).
			Msg("评分服务返回非成功结果，尝试下一个")
	}

	f.log.Error().Msg("所有评分服务均失败")
	return &types.ScoreResult{
		IsSuccess:    false,
		ErrorMessage: "An error occurred while calculating the ATS score.",
	}, nil
}

// Providers 返回链中的Provider列表（用于可用性检查）
func (f *FallbackProvider) Providers() []ScoreProvider {
	return f.providers
}
