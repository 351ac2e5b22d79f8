package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler 负责操作日志查询接口
type LogHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewLogHandler(db *gorm.DB, pageSize int) *LogHandler {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &LogHandler{DB: db, PageSize: pageSize}
}

type logResp struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListLogs 列出当前用户的操作日志（分页 + 时间 + 关键字）
func (h *LogHandler) ListLogs(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	// 分页参数
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))
	if size <= 0 || size > 100 {
		size = h.PageSize
	}
	offset := (page - 1) * size

	// 时间筛选：start / end（格式 YYYY-MM-DD）
	startStr := c.Query("start")
	endStr := c.Query("end")

	var (
		startTime time.Time
		endTime   time.Time
		hasStart  bool
		hasEnd    bool
		err       error
	)

	if startStr != "" {
		startTime, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "開始日の形式が不正です")
			return
		}
		hasStart = true
	}
	if endStr != "" {
		endTime, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "終了日の形式が不正です")
			return
		}
		endTime = endTime.Add(24 * time.Hour)
		hasEnd = true
	}

	// 关键字搜索：q（匹配 path / action）
	q := strings.TrimSpace(c.Query("q"))

	base := h.DB.Model(&models.OperationLog{}).Where("user_id = ?", user.ID)
	if hasStart {
		base = base.Where("created_at >= ?", startTime)
	}
	if hasEnd {
		base = base.Where("created_at < ?", endTime)
	}
	if q != "" {
		like := "%" + q + "%"
		base = base.Where("path LIKE ? OR action LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "ログの取得に失敗しました")
		return
	}

	var logs []models.OperationLog
	if err := base.
		Order("created_at DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "ログの取得に失敗しました")
		return
	}

	items := make([]logResp, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		items = append(items, logResp{
			ID:        l.ID,
			Action:    l.Action,
			Path:      l.Path,
			Method:    l.Method,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// ListRecordHistory 查询生活记录相关的历史操作（仅增删改）
func (h *LogHandler) ListRecordHistory(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	var allLogs []models.OperationLog
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&allLogs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "ログの取得に失敗しました")
		return
	}

	// 筛选记录操作
	var logs []models.OperationLog
	for _, l := range allLogs {
		if isRecordWrite(l.Method, l.Path) {
			logs = append(logs, l)
		}
	}

	total := int64(len(logs))

	// 分页
	start := offset
	end := offset + size
	if start > len(logs) {
		logs = []models.OperationLog{}
	} else {
		if end > len(logs) {
			end = len(logs)
		}
		logs = logs[start:end]
	}

	type recordHistoryResp struct {
		ID        uint      `json:"id"`
		Operation string    `json:"operation"`
		Category  string    `json:"category"`
		Date      string    `json:"date"`
		Summary   string    `json:"summary"`
		IP        string    `json:"ip"`
		CreatedAt time.Time `json:"created_at"`
	}

	items := make([]recordHistoryResp, 0, len(logs))

	for i := range logs {
		l := &logs[i]

		var operation string
		switch l.Method {
		case "POST":
			operation = "記録を追加"
		case "PUT":
			operation = "記録を更新"
		case "DELETE":
			operation = "記録を削除"
		}

		item := recordHistoryResp{
			ID:        l.ID,
			Operation: operation,
			IP:        l.IP,
			CreatedAt: l.CreatedAt,
		}

		// 从 action 中的请求体 JSON 提取类别和日期
		if jsonStart := strings.Index(l.Action, "{"); jsonStart >= 0 {
			if jsonEnd := strings.LastIndex(l.Action, "}"); jsonEnd > jsonStart {
				var reqData map[string]interface{}
				if json.Unmarshal([]byte(l.Action[jsonStart:jsonEnd+1]), &reqData) == nil {
					if v, ok := reqData["category"].(string); ok {
						item.Category = v
					}
					if v, ok := reqData["date"].(string); ok {
						item.Date = v
					}
					for _, key := range []string{"meal_content", "expense_content", "exercise_content", "info_content", "memo"} {
						if v, ok := reqData[key].(string); ok && v != "" {
							item.Summary = v
							break
						}
					}
				}
			}
		}

		items = append(items, item)
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// isRecordWrite 判断一条日志是否是对 /api/records 的写操作
func isRecordWrite(method, path string) bool {
	if method == "POST" && path == "/api/records" {
		return true
	}
	if (method == "PUT" || method == "DELETE") && strings.HasPrefix(path, "/api/records/") {
		return true
	}
	return false
}
