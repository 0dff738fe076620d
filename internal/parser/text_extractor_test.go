package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractTxtPassthrough .txt文件内容原样透传
func TestExtractTxtPassthrough(t *testing.T) {
	extractor, err := NewTextExtractor(context.Background())
	require.NoError(t, err)

	content := "plain text resume\nwith two lines"
	text, err := extractor.Extract(context.Background(), "resume.txt", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, content, text)
}

// TestExtractUnsupportedFormats .doc与未知扩展名明确拒绝
func TestExtractUnsupportedFormats(t *testing.T) {
	extractor, err := NewTextExtractor(context.Background())
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), "resume.doc", []byte("legacy"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	// .doc的错误信息提示用户转换格式
	assert.Contains(t, err.Error(), "DOCX")

	_, err = extractor.Extract(context.Background(), "resume.odt", []byte("other"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = extractor.Extract(context.Background(), "noextension", []byte("bytes"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// TestExtractCorruptDocx 非法DOCX字节流返回提取失败错误
func TestExtractCorruptDocx(t *testing.T) {
	extractor, err := NewTextExtractor(context.Background())
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), "resume.docx", []byte("not a zip archive"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
