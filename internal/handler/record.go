package handler

import (
	"net/http"

	"lifelog/internal/clock"
	"lifelog/internal/health"
	"lifelog/internal/models"
	"lifelog/internal/store"
	"lifelog/internal/summary"
	"lifelog/internal/timeline"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// RecordHandler 负责生活记录相关接口
type RecordHandler struct {
	Store *store.RecordsStore
}

func NewRecordHandler(s *store.RecordsStore) *RecordHandler {
	return &RecordHandler{Store: s}
}

// recordItem is one timeline entry: the raw record, its display triple and
// the derived metrics (calorie estimate for exercise, BMI for measurement).
type recordItem struct {
	Record *models.Record `json:"record"`
	Time   string         `json:"time"`
	Icon   string         `json:"icon"`
	Text   string         `json:"text"`

	EstimatedCalories int     `json:"estimated_calories,omitempty"`
	BMI               float64 `json:"bmi,omitempty"`
	BMICategory       string  `json:"bmi_category,omitempty"`
}

func toItems(records []models.Record) []recordItem {
	items := make([]recordItem, 0, len(records))
	for i := range records {
		r := &records[i]
		it := timeline.Render(r)
		item := recordItem{
			Record: r,
			Time:   it.Time,
			Icon:   it.Icon,
			Text:   it.Text,
		}

		switch r.Category {
		case models.CategoryExercise:
			if r.MetsValue != nil && r.UserWeight != nil && r.Duration != nil {
				item.EstimatedCalories = health.EstimatedCalories(*r.MetsValue, *r.UserWeight, *r.Duration)
			}
		case models.CategoryMeasurement:
			if r.Weight != nil && r.Height != nil {
				item.BMI = health.BMI(*r.Weight, *r.Height)
				item.BMICategory = health.BMICategory(item.BMI)
			}
		}

		items = append(items, item)
	}
	return items
}

// validateRecord runs the form-level checks before any store call.
func validateRecord(r *models.Record) string {
	if err := util.ValidateCategory(r.Category); err != nil {
		return "カテゴリが不正です"
	}
	if r.Date != "" && !clock.ValidDate(r.Date) {
		return "日付の形式が不正です（YYYY-MM-DD）"
	}
	if r.Amount != nil {
		if err := util.ValidateAmount(*r.Amount); err != nil {
			return "有効な金額を入力してください"
		}
	}
	switch r.Category {
	case models.CategorySleep:
		if !clock.IsClock(r.SleepTime) || !clock.IsClock(r.WakeTime) {
			return "就寝時刻と起床時刻を入力してください（HH:MM）"
		}
	case models.CategoryMovement:
		if !clock.IsClock(r.StartTime) || !clock.IsClock(r.EndTime) {
			return "出発時刻と到着時刻を入力してください（HH:MM）"
		}
	case models.CategoryInfo:
		if r.InfoType == "" {
			r.InfoType = models.InfoTypeMemo
		}
		if r.InfoType != models.InfoTypeMemo && r.InfoType != models.InfoTypeTodo {
			return "メモ種別が不正です"
		}
	}
	if r.RecordTime != "" && !clock.IsClock(r.RecordTime) {
		return "時刻の形式が不正です（HH:MM）"
	}
	return ""
}

// CreateRecord 新增一条记录。客户端提交整个文档；ID 和时间戳由服务端分配。
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var r models.Record
	if err := c.ShouldBindJSON(&r); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "パラメータが不正です")
		return
	}

	// server-assigned fields are never taken from the client
	r.ID = ""
	r.UserID = user.ID

	if msg := validateRecord(&r); msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}

	if err := h.Store.Add(&r); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "保存に失敗しました。もう一度お試しください")
		return
	}

	util.Success(c, util.Response{
		"record": &r,
	})
}

// UpdateRecord 全量替换一条已有记录（只能修改自己的）。
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id := c.Param("id")
	if id == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "IDが不正です")
		return
	}

	var r models.Record
	if err := c.ShouldBindJSON(&r); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "パラメータが不正です")
		return
	}

	r.ID = id
	r.UserID = user.ID

	if msg := validateRecord(&r); msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}

	if err := h.Store.Update(&r); err != nil {
		if err == store.ErrNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "記録が見つかりません")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "更新に失敗しました。もう一度お試しください")
		}
		return
	}

	util.Success(c, util.Response{
		"record": &r,
	})
}

// DeleteRecord 删除一条记录（级联删除照片文件）。
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id := c.Param("id")
	if id == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "IDが不正です")
		return
	}

	if err := h.Store.Delete(user.ID, id); err != nil {
		if err == store.ErrNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "記録が見つかりません")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "削除に失敗しました")
		}
		return
	}

	util.Success(c, util.Response{
		"message": "削除しました",
	})
}

// ListRecords 返回一天的记录（时间线 + 汇总）。
func (h *RecordHandler) ListRecords(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	date := c.DefaultQuery("date", clock.Today())
	if !clock.ValidDate(date) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "日付の形式が不正です（YYYY-MM-DD）")
		return
	}

	records, err := h.Store.List(user.ID, date)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "記録の取得に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"date":    date,
		"items":   toItems(records),
		"summary": summary.Daily(records),
	})
}

// GetDailySummary 只返回一天的汇总
func (h *RecordHandler) GetDailySummary(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	date := c.DefaultQuery("date", clock.Today())
	if !clock.ValidDate(date) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "日付の形式が不正です（YYYY-MM-DD）")
		return
	}

	records, err := h.Store.List(user.ID, date)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "記録の取得に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"date":    date,
		"summary": summary.Daily(records),
	})
}

// currentUser 从 context 取出 AuthMiddleware 放入的用户；未登录时写错误响应并返回 nil。
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "ログインが必要です")
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "ログインが必要です")
		return nil
	}
	return user
}
