package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/service"
)

const photoDateLayout = "2006-01-02"

// ListMedia 公开的媒体列表，按拍摄日期倒序。
func (a *API) ListMedia(c *gin.Context) {
	rows, err := a.media.List(parseLimit(c.Query("limit"), 50))
	if err != nil {
		a.respondMediaError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": rows})
}

// UploadMedia 接收单个文件（字段 file）与必填的 photo_date。
// 写文件、再写元数据；元数据失败时删除已落盘文件。
func (a *API) UploadMedia(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Autenticazione richiesta")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Nessun file caricato")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedMediaMIME(contentType) {
		respondError(c, http.StatusUnsupportedMediaType,
			"Tipo di file non supportato. Formati permessi: immagini, video, audio, PDF, documenti")
		return
	}
	if file.Size > maxMediaUploadSize {
		respondError(c, http.StatusRequestEntityTooLarge, "Il file è troppo grande. Dimensione massima: 10MB")
		return
	}

	// 拍摄日期由调用方提供，不做推断；缺失时在写盘前就拒绝
	photoDate, ok := parsePhotoDate(c, c.PostForm("photo_date"))
	if !ok {
		return
	}

	name, path, url, err := a.saveUpload(c, file)
	if err != nil {
		a.log.Error().Err(err).Msg("media upload failed")
		respondError(c, http.StatusInternalServerError, "Errore nel caricamento del file")
		return
	}

	record := db.Media{
		Filename:     name,
		OriginalName: file.Filename,
		MimeType:     contentType,
		Size:         file.Size,
		Path:         path,
		URL:          url,
		Title:        strings.TrimSpace(c.PostForm("title")),
		Description:  strings.TrimSpace(c.PostForm("description")),
		PhotoDate:    photoDate,
		UploadedBy:   claims.UserID,
	}

	if strings.HasPrefix(contentType, "image/") {
		record.Width, record.Height = probeImageDimensions(path)
	}

	if err := a.media.Create(&record); err != nil {
		a.removeStoredFile(path)
		a.respondMediaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": record})
}

// UpdateMedia 只修改元数据，photo_date 仍为必填。
func (a *API) UpdateMedia(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID media non valido")
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PhotoDate   string `json:"photo_date"`
	}
	if !bindJSON(c, &body, "Corpo della richiesta non valido") {
		return
	}

	photoDate, ok := parsePhotoDate(c, body.PhotoDate)
	if !ok {
		return
	}

	record, err := a.media.Update(id, service.MediaMetadata{
		Title:       strings.TrimSpace(body.Title),
		Description: strings.TrimSpace(body.Description),
		PhotoDate:   photoDate,
	})
	if err != nil {
		a.respondMediaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": record})
}

// DeleteMedia 删除媒体：先删文件，再删记录。
func (a *API) DeleteMedia(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID media non valido")
		return
	}

	if err := a.media.Delete(id); err != nil {
		a.respondMediaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File eliminato con successo"})
}

func parsePhotoDate(c *gin.Context, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		respondError(c, http.StatusBadRequest, "La data della foto è obbligatoria")
		return time.Time{}, false
	}

	photoDate, err := time.Parse(photoDateLayout, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Formato data non valido (atteso YYYY-MM-DD)")
		return time.Time{}, false
	}
	return photoDate, true
}
