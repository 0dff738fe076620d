package router

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"github.com/Devan019/GenJob/internal/api/handler"
	"github.com/Devan019/GenJob/internal/config"
	"github.com/Devan019/GenJob/internal/parser"
	"github.com/Devan019/GenJob/internal/storage"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, cfg *config.Config, atsHandler *handler.ATSHandler, jobHandler *handler.JobPostingHandler) {
	api := h.Group("/api/v1")

	// 配置了API Key时启用鉴权，健康检查除外
	if cfg.Server.APIKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				return key == cfg.Server.APIKey, nil
			}),
		))
	}

	api.POST("/ats/analyze", func(c context.Context, ctx *app.RequestContext) {
		req := &handler.AnalyzeRequest{
			ResumeText:     ctx.PostForm("resume_text"),
			JobDescription: ctx.PostForm("job_description"),
			CompanyName:    ctx.PostForm("company_name"),
		}

		// 简历文件可选，提供时优先于resume_text
		if fileHeader, err := ctx.FormFile("file"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败"})
				return
			}
			req.Filename = fileHeader.Filename
			req.FileData = data
		}

		resp, err := atsHandler.HandleAnalyze(c, req)
		if err != nil {
			if errors.Is(err, parser.ErrUnsupportedFormat) {
				ctx.JSON(consts.StatusUnprocessableEntity, utils.H{"error": err.Error()})
				return
			}
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/ats/providers", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"providers": atsHandler.HandleProviders(c)})
	})

	jobs := api.Group("/jobs")

	jobs.POST("", func(c context.Context, ctx *app.RequestContext) {
		var req handler.CreateJobPostingRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "无效的请求体"})
			return
		}
		view, err := jobHandler.HandleCreate(c, &req)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusCreated, view)
	})

	jobs.GET("", func(c context.Context, ctx *app.RequestContext) {
		limit := ctx.DefaultQuery("limit", "20")
		offset := ctx.DefaultQuery("offset", "0")
		views, err := jobHandler.HandleList(c, atoi(limit, 20), atoi(offset, 0))
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"jobs": views})
	})

	jobs.GET("/:id", func(c context.Context, ctx *app.RequestContext) {
		view, err := jobHandler.HandleGet(c, ctx.Param("id"))
		if err != nil {
			if errors.Is(err, storage.ErrJobPostingNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "岗位不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, view)
	})

	jobs.DELETE("/:id", func(c context.Context, ctx *app.RequestContext) {
		if err := jobHandler.HandleDelete(c, ctx.Param("id")); err != nil {
			if errors.Is(err, storage.ErrJobPostingNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "岗位不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"status": "deleted"})
	})

	// 健康检查不走鉴权
	h.GET("/api/v1/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}

// atoi 宽容的整数解析，失败时用默认值
func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
