package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"citysafe/internal/models"
	"citysafe/pkg/logger"
	"citysafe/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const listCacheTTL = 15 * time.Second

// handleCreateReport 接收 multipart 表单并落库，附件写入媒体存储
func (h *Handlers) handleCreateReport(c *gin.Context) {
	incidentType := c.PostForm("incident_type")
	description := c.PostForm("description")
	location := c.PostForm("location")
	if incidentType == "" || description == "" || location == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{
			{"msg": "incident_type, location and description are required"},
		}})
		return
	}

	rec := &models.ReportRecord{
		IncidentType: incidentType,
		Date:         c.PostForm("date"),
		Time:         c.PostForm("time"),
		LocationText: location,
		Description:  description,
		Witnesses:    c.PostForm("witnesses"),
		Name:         c.PostForm("name"),
		Phone:        c.PostForm("phone"),
		Email:        c.PostForm("email"),
	}
	rec.Anonymous, _ = strconv.ParseBool(c.PostForm("anonymous"))

	if lat, err := strconv.ParseFloat(c.PostForm("lat"), 64); err == nil {
		if lng, err := strconv.ParseFloat(c.PostForm("lng"), 64); err == nil {
			rec.Lat, rec.Lng = &lat, &lng
		}
	}

	// 表单带 user_id 或令牌二选一
	rec.UserID = c.PostForm("user_id")
	if rec.UserID == "" {
		if u := h.currentUser(c); u != nil {
			rec.UserID = u.ID
		}
	}

	if file, err := c.FormFile("media"); err == nil {
		key := uuid.NewString() + filepath.Ext(file.Filename)
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable media file"})
			return
		}
		defer src.Close()
		if err := h.media.Write(key, src); err != nil {
			logger.Error("store media failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not store media"})
			return
		}
		rec.MediaKey = key
		rec.MediaType = file.Header.Get("Content-Type")
	}

	if err := models.InsertReportRecord(h.db, rec); err != nil {
		logger.Error("insert report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not save report"})
		return
	}

	metrics.ReportsSubmitted.Inc()
	// 新报告让列表缓存全部失效
	if err := h.cache.Clear(c.Request.Context()); err != nil {
		logger.Warn("clear report cache failed", zap.Error(err))
	}
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

// handleListReports 分页查询，短暂缓存整页 JSON
func (h *Handlers) handleListReports(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	userID := c.Query("user_id")

	key := fmt.Sprintf("reports:%d:%d:%s", skip, limit, userID)
	if v, ok := h.cache.Get(c.Request.Context(), key); ok {
		if body, ok := v.(string); ok {
			c.Data(http.StatusOK, "application/json", []byte(body))
			return
		}
	}

	recs, err := models.ListReportRecords(h.db, skip, limit, userID)
	if err != nil {
		logger.Error("list reports failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not list reports"})
		return
	}
	docs := make([]map[string]interface{}, 0, len(recs))
	for i := range recs {
		docs = append(docs, recs[i].Doc())
	}

	body, err := json.Marshal(docs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not encode reports"})
		return
	}
	if err := h.cache.Set(c.Request.Context(), key, string(body), listCacheTTL); err != nil {
		logger.Warn("cache report page failed", zap.Error(err))
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (h *Handlers) handleGetReport(c *gin.Context) {
	rec, err := models.FindReportRecord(h.db, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not load report"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "report not found"})
		return
	}
	c.JSON(http.StatusOK, rec.Doc())
}
