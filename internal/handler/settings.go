package handler

import (
	"net/http"

	"lifelog/internal/clock"
	"lifelog/internal/health"
	"lifelog/internal/models"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettingsHandler 负责个人设置（身高、年龄、目标值、通知）
type SettingsHandler struct {
	DB *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{DB: db}
}

// GetSettings 返回当前用户设置；不存在时返回空设置。
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var s models.PersonalSettings
	err := h.DB.Where("user_id = ?", user.ID).First(&s).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "設定の取得に失敗しました")
		return
	}
	s.UserID = user.ID

	resp := util.Response{"settings": &s}
	// derived reference values when the profile is complete enough
	if s.Height != nil {
		resp["standard_weight"] = health.StandardWeight(*s.Height)
	}
	if s.Height != nil && s.TargetWeight != nil && s.Age != nil {
		resp["target_bmr"] = health.BMR(*s.TargetWeight, *s.Height, *s.Age, s.Gender)
	}

	util.Success(c, resp)
}

// UpdateSettings 整体保存用户设置。
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var s models.PersonalSettings
	if err := c.ShouldBindJSON(&s); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "パラメータが不正です")
		return
	}
	s.UserID = user.ID

	if s.Height != nil && (*s.Height <= 0 || *s.Height > 300) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "身長の値が不正です")
		return
	}
	if s.Age != nil && (*s.Age <= 0 || *s.Age > 150) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "年齢の値が不正です")
		return
	}
	if s.Gender != "" && s.Gender != "male" && s.Gender != "female" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "性別の値が不正です")
		return
	}
	if s.NotifyTime != "" && !clock.IsClock(s.NotifyTime) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "通知時刻の形式が不正です（HH:MM）")
		return
	}

	if err := h.DB.Save(&s).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "設定の保存に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"settings": &s,
	})
}
