package handler

import (
	"errors"
	"fmt"
	"image"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	// 注册解码器以便探测常见图片格式的尺寸
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// 文章封面图片上限 5MB，通用媒体文件上限 10MB
	maxImageUploadSize = 5 << 20
	maxMediaUploadSize = 10 << 20
)

// errUploadRejected 表示响应已写出，调用方只需中止处理。
var errUploadRejected = errors.New("upload rejected")

// 通用媒体允许的 MIME 前缀与精确类型：图片、视频、音频、PDF、文档
var (
	allowedMediaPrefixes = []string{"image/", "video/", "audio/"}
	allowedMediaTypes    = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	}
)

func allowedMediaMIME(contentType string) bool {
	for _, prefix := range allowedMediaPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	for _, exact := range allowedMediaTypes {
		if contentType == exact {
			return true
		}
	}
	return false
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// storedFilename 生成抗碰撞的存储文件名：时间戳 + 随机后缀 + 清洗后的原名。
func storedFilename(original string) string {
	sanitized := whitespaceRe.ReplaceAllString(filepath.Base(original), "_")
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), suffix, sanitized)
}

// saveUpload 将上传文件写入内容目录，返回存储文件名、磁盘路径与公开 URL。
func (a *API) saveUpload(c *gin.Context, file *multipart.FileHeader) (name, path, url string, err error) {
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		return "", "", "", err
	}

	name = storedFilename(file.Filename)
	path = filepath.Join(a.uploadDir, name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", "", "", err
	}

	url = strings.TrimSuffix(a.uploadURL, "/") + "/" + name
	return name, path, url, nil
}

// removeStoredFile 删除磁盘文件，文件已不存在时视为成功。
func (a *API) removeStoredFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		a.log.Warn().Err(err).Str("path", path).Msg("failed to remove stored file")
	}
}

// removeUploadedByURL 根据公开 URL 删除内容目录中的文件。
// 只接受本服务上传路径下的 URL，其他来源的引用不动。
func (a *API) removeUploadedByURL(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	prefix := strings.TrimSuffix(a.uploadURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return
	}
	a.removeStoredFile(filepath.Join(a.uploadDir, filepath.Base(url)))
}

// probeImageDimensions 读取图片尺寸，无法解码时返回零值。
func probeImageDimensions(path string) (width, height int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
