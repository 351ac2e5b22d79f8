package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"lifelog/internal/clock"
	"lifelog/internal/models"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 负责 CSV / XLSX 导出
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// exportHeader 固定 19 列，7 种类别共用（列的含义按类别复用）。
var exportHeader = []string{
	"ID", "日付", "時刻", "カテゴリ", "種別", "内容",
	"数値1", "数値2", "数値3",
	"場所", "支払方法", "優先度", "完了",
	"緯度", "経度", "住所", "メモ", "作成日時", "更新日時",
}

var categoryLabels = map[string]string{
	models.CategoryMeal:        "食事",
	models.CategorySleep:       "睡眠",
	models.CategoryExpense:     "支出",
	models.CategoryMeasurement: "測定",
	models.CategoryExercise:    "運動",
	models.CategoryMovement:    "移動",
	models.CategoryInfo:        "メモ",
}

func (h *ExportHandler) loadForExport(c *gin.Context, userID uint) ([]models.Record, bool) {
	q := h.DB.Preload("Photos").Where("user_id = ?", userID)

	if start := c.Query("start"); start != "" {
		if !clock.ValidDate(start) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "開始日の形式が不正です（YYYY-MM-DD）")
			return nil, false
		}
		q = q.Where("date >= ?", start)
	}
	if end := c.Query("end"); end != "" {
		if !clock.ValidDate(end) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "終了日の形式が不正です（YYYY-MM-DD）")
			return nil, false
		}
		q = q.Where("date <= ?", end)
	}

	var records []models.Record
	if err := q.Order("date ASC, record_time ASC").Find(&records).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "記録の取得に失敗しました")
		return nil, false
	}
	return records, true
}

// exportRow maps one record onto the 19 columns. Numeric columns are
// overloaded per category: 数値1 is the primary metric (kcal / 睡眠分 /
// 体重 / 消費kcal / 移動分), 数値2 is 金額 or 運動時間, 数値3 is 距離や体脂肪率。
func exportRow(r *models.Record) []string {
	var sub, content, n1, n2, n3, location string

	switch r.Category {
	case models.CategoryMeal:
		sub = r.MealType
		content = r.MealContent
		if r.Calories != nil {
			n1 = strconv.Itoa(*r.Calories)
		}
		if r.Amount != nil {
			n2 = strconv.FormatInt(*r.Amount, 10)
		}
		location = r.PaymentLocation
	case models.CategorySleep:
		content = r.SleepTime + "〜" + r.WakeTime
		if m, err := clock.WrapMinutes(r.SleepTime, r.WakeTime); err == nil {
			n1 = strconv.Itoa(m)
		}
	case models.CategoryExpense:
		content = r.ExpenseContent
		if r.Amount != nil {
			n2 = strconv.FormatInt(*r.Amount, 10)
		}
		location = r.PaymentLocation
	case models.CategoryMeasurement:
		if r.Weight != nil {
			n1 = strconv.FormatFloat(*r.Weight, 'f', -1, 64)
		}
		if r.BloodPressureHigh != nil && r.BloodPressureLow != nil {
			content = fmt.Sprintf("血圧%d/%d", *r.BloodPressureHigh, *r.BloodPressureLow)
		}
		if r.BodyFatRate != nil {
			n3 = strconv.FormatFloat(*r.BodyFatRate, 'f', -1, 64)
		}
	case models.CategoryExercise:
		sub = r.ExerciseType
		content = r.ExerciseContent
		if r.CaloriesBurned != nil {
			n1 = strconv.Itoa(*r.CaloriesBurned)
		}
		if r.Duration != nil {
			n2 = strconv.Itoa(*r.Duration)
		}
		if r.Distance != nil {
			n3 = strconv.FormatFloat(*r.Distance, 'f', -1, 64)
		}
		location = r.ExerciseLocation
	case models.CategoryMovement:
		sub = r.TransportMethod
		if r.FromLocation != "" || r.ToLocation != "" {
			content = r.FromLocation + "→" + r.ToLocation
		}
		if m, err := clock.WrapMinutes(r.StartTime, r.EndTime); err == nil {
			n1 = strconv.Itoa(m)
		}
		if r.Amount != nil {
			n2 = strconv.FormatInt(*r.Amount, 10)
		}
		location = r.PaymentLocation
	case models.CategoryInfo:
		sub = r.InfoType
		content = r.InfoContent
	}

	label, ok := categoryLabels[r.Category]
	if !ok {
		label = r.Category
	}

	priority := ""
	completed := ""
	if r.Category == models.CategoryInfo {
		priority = r.Priority
		if r.InfoType == models.InfoTypeTodo {
			completed = "false"
			if r.IsCompleted {
				completed = "true"
			}
		}
	}

	lat, lon := "", ""
	if r.Latitude != nil {
		lat = strconv.FormatFloat(*r.Latitude, 'f', -1, 64)
	}
	if r.Longitude != nil {
		lon = strconv.FormatFloat(*r.Longitude, 'f', -1, 64)
	}

	return []string{
		r.ID, r.Date, r.RecordTime, label, sub, content,
		n1, n2, n3,
		location, r.PaymentMethod, priority, completed,
		lat, lon, r.Address, r.Memo,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
		r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ExportCSV 导出记录为 CSV（UTF-8 BOM，固定 19 列）
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	records, ok := h.loadForExport(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"records_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM（Excel が文字化けしないように）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for i := range records {
		writer.Write(exportRow(&records[i]))
	}
}

// ExportXLSX 导出记录为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	records, ok := h.loadForExport(c, user.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "記録一覧"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "シートの作成に失敗しました")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, hcell := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, hcell)
	}

	for idx := range records {
		row := exportRow(&records[idx])
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 36)
	f.SetColWidth(sheetName, "B", "C", 10)
	f.SetColWidth(sheetName, "D", "F", 16)
	f.SetColWidth(sheetName, "P", "Q", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"records_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "エクスポートに失敗しました")
	}
}
