package handler

import (
	"net/http"
	"strconv"
	"strings"

	"lifelog/internal/models"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MasterHandler 负责表单选项（支払地点 / 支払方法 / 場所）的维护
type MasterHandler struct {
	DB *gorm.DB
}

func NewMasterHandler(db *gorm.DB) *MasterHandler {
	return &MasterHandler{DB: db}
}

func validKind(kind string) bool {
	switch kind {
	case models.MasterPaymentLocation, models.MasterPaymentMethod, models.MasterLocation:
		return true
	}
	return false
}

// ListItems 返回某一类的全部选项，按创建时间排序。
func (h *MasterHandler) ListItems(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	kind := c.Param("kind")
	if !validKind(kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "種類が不正です")
		return
	}

	var items []models.MasterItem
	if err := h.DB.Where("user_id = ? AND kind = ?", user.ID, kind).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "選択肢の取得に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"kind":  kind,
		"items": items,
	})
}

type addMasterItemReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

// AddItem 新增一个选项（同类同名视为重复）。
func (h *MasterHandler) AddItem(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	kind := c.Param("kind")
	if !validKind(kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "種類が不正です")
		return
	}

	var req addMasterItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "パラメータが不正です")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "名前を入力してください")
		return
	}

	var count int64
	if err := h.DB.Model(&models.MasterItem{}).
		Where("user_id = ? AND kind = ? AND name = ?", user.ID, kind, req.Name).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "選択肢の取得に失敗しました")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "同じ名前の選択肢が既にあります")
		return
	}

	item := models.MasterItem{
		UserID: user.ID,
		Kind:   kind,
		Name:   req.Name,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "選択肢の追加に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"item": item,
	})
}

// DeleteItem 删除一个选项（只能删自己的）。
func (h *MasterHandler) DeleteItem(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	kind := c.Param("kind")
	if !validKind(kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "種類が不正です")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "IDが不正です")
		return
	}

	if err := h.DB.
		Where("id = ? AND user_id = ? AND kind = ?", id, user.ID, kind).
		Delete(&models.MasterItem{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "削除に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"message": "削除しました",
	})
}
