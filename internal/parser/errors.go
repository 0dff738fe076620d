package parser

import "errors"

var (
	// ErrUnsupportedFormat 上传的文件类型不支持（包括明确拒绝的.doc）
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed 字节流无法按声明的格式解析
	ErrExtractionFailed = errors.New("text extraction failed")
)
