package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// renderContentHTML 将正文 Markdown 渲染为 HTML 并做 UGC 级别的净化。
func renderContentHTML(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}

// ListArticles 公开的文章列表：只返回已发布文章，按发布时间倒序。
func (a *API) ListArticles(c *gin.Context) {
	filter := service.ArticleFilter{
		Category: c.Query("category"),
		Limit:    parseLimit(c.Query("limit"), 20),
	}

	rows, err := a.articles.ListPublished(filter)
	if err != nil {
		a.respondArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": rows})
}

// ListAllArticles 后台文章列表：全部状态，按创建时间倒序。
func (a *API) ListAllArticles(c *gin.Context) {
	filter := service.ArticleFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Limit:    parseLimit(c.Query("limit"), 50),
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	rows, err := a.articles.ListAll(filter)
	if err != nil {
		a.respondArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": rows})
}

// GetArticle 公开的单篇文章读取，附带渲染后的正文并累加浏览数。
func (a *API) GetArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID articolo non valido")
		return
	}

	row, err := a.articles.Get(id)
	if err != nil {
		a.respondArticleError(c, err)
		return
	}

	if err := a.articles.IncrementViews(id); err != nil {
		a.log.Warn().Err(err).Uint("article_id", id).Msg("view counter update failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"article":      row,
		"content_html": renderContentHTML(row.Content),
	})
}

// CreateArticle 创建文章，可携带封面图片（multipart 字段 image）。
func (a *API) CreateArticle(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Autenticazione richiesta")
		return
	}

	input, file, ok := a.articleForm(c)
	if !ok {
		return
	}
	input.AuthorID = claims.UserID

	var coverPath string
	if file != nil {
		_, path, url, err := a.saveCoverImage(c, file)
		if err != nil {
			return
		}
		coverPath = path
		input.FeaturedImage = url
	}

	article, err := a.articles.Create(input)
	if err != nil {
		// 元数据写入失败时回收已落盘的封面，避免孤儿文件
		a.removeStoredFile(coverPath)
		a.respondArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// UpdateArticle 更新文章：作者本人或 editor/admin/super_admin 可操作。
func (a *API) UpdateArticle(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Autenticazione richiesta")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID articolo non valido")
		return
	}

	existing, err := a.articles.Get(id)
	if err != nil {
		a.respondArticleError(c, err)
		return
	}

	if !auth.CanModifyArticle(claims, existing.AuthorID) {
		respondError(c, http.StatusForbidden, "Non hai i permessi per modificare questo articolo")
		return
	}

	input, file, ok := a.articleForm(c)
	if !ok {
		return
	}
	input.FeaturedImage = existing.FeaturedImage

	var newCoverPath string
	if file != nil {
		_, path, url, err := a.saveCoverImage(c, file)
		if err != nil {
			return
		}
		newCoverPath = path
		input.FeaturedImage = url
	}

	article, err := a.articles.Update(id, input)
	if err != nil {
		a.removeStoredFile(newCoverPath)
		a.respondArticleError(c, err)
		return
	}

	// 新封面落库后再删除旧封面文件
	if file != nil && existing.FeaturedImage != "" && existing.FeaturedImage != article.FeaturedImage {
		a.removeUploadedByURL(existing.FeaturedImage)
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// DeleteArticle 删除文章，并清理其封面文件。
func (a *API) DeleteArticle(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Autenticazione richiesta")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID articolo non valido")
		return
	}

	existing, err := a.articles.Get(id)
	if err != nil {
		a.respondArticleError(c, err)
		return
	}

	if !auth.CanModifyArticle(claims, existing.AuthorID) {
		respondError(c, http.StatusForbidden, "Non hai i permessi per eliminare questo articolo")
		return
	}

	article, err := a.articles.Delete(id)
	if err != nil {
		a.respondArticleError(c, err)
		return
	}

	a.removeUploadedByURL(article.FeaturedImage)

	c.JSON(http.StatusOK, gin.H{"message": "Articolo eliminato con successo"})
}

// articleForm 解析 JSON 或 multipart 两种请求体。multipart 时可能带封面文件。
func (a *API) articleForm(c *gin.Context) (service.ArticleInput, *multipart.FileHeader, bool) {
	var input service.ArticleInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		input = service.ArticleInput{
			Title:    c.PostForm("title"),
			Content:  c.PostForm("content"),
			Excerpt:  c.PostForm("excerpt"),
			Category: c.PostForm("category"),
			Status:   c.PostForm("status"),
		}
		if published := c.PostForm("published"); published == "true" {
			input.Status = db.ArticleStatusPublished
		}

		file, err := c.FormFile("image")
		if err != nil {
			return input, nil, true
		}
		return input, file, true
	}

	var body struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Excerpt   string `json:"excerpt"`
		Category  string `json:"category"`
		Status    string `json:"status"`
		Published *bool  `json:"published"`
	}
	if !bindJSON(c, &body, "Corpo della richiesta non valido") {
		return input, nil, false
	}

	input = service.ArticleInput{
		Title:    body.Title,
		Content:  body.Content,
		Excerpt:  body.Excerpt,
		Category: body.Category,
		Status:   body.Status,
	}
	if body.Published != nil && *body.Published {
		input.Status = db.ArticleStatusPublished
	}
	return input, nil, true
}

// saveCoverImage 校验并写入封面：只接受 image/*，上限 5MB。
func (a *API) saveCoverImage(c *gin.Context, file *multipart.FileHeader) (name, path, url string, err error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusUnsupportedMediaType, "Solo file immagine sono permessi")
		return "", "", "", errUploadRejected
	}
	if file.Size > maxImageUploadSize {
		respondError(c, http.StatusRequestEntityTooLarge, "Il file è troppo grande. Dimensione massima: 5MB")
		return "", "", "", errUploadRejected
	}

	name, path, url, err = a.saveUpload(c, file)
	if err != nil {
		a.log.Error().Err(err).Msg("cover upload failed")
		respondError(c, http.StatusInternalServerError, "Errore nel caricamento del file")
		return "", "", "", err
	}
	return name, path, url, nil
}

func parseLimit(raw string, fallback int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
