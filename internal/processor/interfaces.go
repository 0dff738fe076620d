package processor

import (
	"context"

	"github.com/Devan019/GenJob/internal/types"
)

// ScoreProvider 评分服务的统一契约
// 本地引擎和远程服务（SharpAPI、MagicalAPI）都实现这一个操作，
// 上层通过降级链按固定顺序尝试，采纳第一个成功的结果
type ScoreProvider interface {
	// Name 返回Provider标识，用于日志和可用性列表
	Name() string

	// Score 对简历与岗位描述进行匹配评分
	// companyName可以为空；返回的结果要么IsSuccess要么携带ErrorMessage
	Score(ctx context.Context, features *types.ResumeFeatures, jobDescription string, companyName string) (*types.ScoreResult, error)
}

// AvailabilityChecker 可选的可用性探测能力
// 远程Provider实现它以支持服务状态列表，本地引擎不需要
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context) types.ProviderInfo
}
