package parser

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"baliance.com/gooxml/document"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"

	"github.com/Devan019/GenJob/internal/logger"
)

// TextExtractor 按文件类型选择解码器，把上传的简历转成纯文本
// 支持 .pdf / .docx / .txt；.doc 明确拒绝，提示用户转换格式
type TextExtractor struct {
	pdfParser *pdf.PDFParser
	log       zerolog.Logger
}

// TextExtractorOption 文本提取器配置选项
type TextExtractorOption func(*TextExtractor)

// WithExtractorLogger 设置自定义日志记录器
func WithExtractorLogger(log zerolog.Logger) TextExtractorOption {
	return func(e *TextExtractor) {
		e.log = log
	}
}

// NewTextExtractor 初始化文本提取器
// PDF使用Eino PDF Parser，配置为不按页面分割，以获取整个文档的连续文本
func NewTextExtractor(ctx context.Context, options ...TextExtractorOption) (*TextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}

	extractor := &TextExtractor{
		pdfParser: p,
		log:       logger.Logger.With().Str("component", "text_extractor").Logger(),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// Extract 从文件字节流中提取纯文本，解码器由文件扩展名决定
func (e *TextExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	startTime := time.Now()
	e.log.Debug().
		Str("filename", filename).
		Str("ext", ext).
		Int("size_bytes", len(data)).
		Msg("开始提取简历文本")

	var text string
	var err error

	switch ext {
	case ".pdf":
		text, err = e.extractPDF(ctx, filename, data)
	case ".docx":
		text, err = e.extractDOCX(data)
	case ".txt":
		text = string(data)
	case ".doc":
		return "", fmt.Errorf("%w: DOC files are not supported, please convert to DOCX", ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		e.log.Error().
			Err(err).
			Str("filename", filename).
			Msg("简历文本提取失败")
		return "", err
	}

	e.log.Info().
		Str("filename", filename).
		Int("text_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("简历文本提取完成")

	return text, nil
}

// extractPDF 通过Eino PDF Parser提取PDF全文
func (e *TextExtractor) extractPDF(ctx context.Context, uri string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.pdfParser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI(uri),
	)
	if err != nil {
		return "", fmt.Errorf("%w: pdf parse for %s: %v", ErrExtractionFailed, uri, err)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("%w: pdf parser returned no documents for %s", ErrExtractionFailed, uri)
	}

	// 合并所有文档内容（以防配置变化后返回多页）
	var sb strings.Builder
	for i, doc := range docs {
		sb.WriteString(doc.Content)
		if i < len(docs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// extractDOCX 通过gooxml按段落提取DOCX文本
func (e *TextExtractor) extractDOCX(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx read: %v", ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
