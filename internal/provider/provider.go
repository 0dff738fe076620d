// Package provider 实现远程简历评分服务的客户端
//
// 每个远程服务都采用提交→轮询的异步模式：提交返回任务标识，之后以
// 指数退避的间隔轮询结果。每个服务的响应结构各不相同（字段名、分数
// 量纲都不一样），一律在本包内显式映射到共享的types.ScoreResult，
// 绝不让服务专有字段名泄漏到核心数据模型中。
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/Devan019/GenJob/internal/constants"
)

var (
	// ErrNotConfigured API Key未配置，降级链会直接跳到下一个Provider
	ErrNotConfigured = errors.New("provider api key not configured")

	// ErrJobFailed 远程服务报告任务失败
	ErrJobFailed = errors.New("provider job failed")

	// ErrPollExhausted 轮询次数耗尽，任务仍未完成
	ErrPollExhausted = errors.New("provider polling exhausted")
)

// pollSchedule 轮询退避参数，测试中会缩短间隔
type pollSchedule struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// defaultPollSchedule 默认退避：2秒起步，逐次翻倍，上限10秒，最多10次
func defaultPollSchedule() pollSchedule {
	return pollSchedule{
		maxAttempts:  constants.ProviderPollMaxAttempts,
		initialDelay: constants.ProviderPollInitialDelay,
		maxDelay:     constants.ProviderPollMaxDelay,
	}
}

// wait 等待下一次轮询，返回翻倍后的间隔；上下文取消时立即返回错误
func (p pollSchedule) wait(ctx context.Context, delay time.Duration) (time.Duration, error) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	next := delay * 2
	if next > p.maxDelay {
		next = p.maxDelay
	}
	return next, nil
}
