package handler

import (
	"net/http"

	"lifelog/internal/clock"
	"lifelog/internal/store"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// pruneConfirmText は一括削除の二段階確認で入力させる文字列。
const pruneConfirmText = "削除する"

// PruneHandler 负责按日期批量删除旧记录
type PruneHandler struct {
	Store *store.RecordsStore
}

func NewPruneHandler(s *store.RecordsStore) *PruneHandler {
	return &PruneHandler{Store: s}
}

type pruneRequest struct {
	Before      string `json:"before" binding:"required"`
	Confirm     bool   `json:"confirm"`
	ConfirmText string `json:"confirm_text"`
}

// PruneRecords deletes every record strictly before the given date.
// Destructive, so it requires both the confirm flag and the typed
// confirmation text. Without confirm it only reports the target count.
func (h *PruneHandler) PruneRecords(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req pruneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "リクエストの形式が不正です")
		return
	}
	if !clock.ValidDate(req.Before) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "日付の形式が不正です（YYYY-MM-DD）")
		return
	}

	if !req.Confirm {
		count, err := h.Store.CountBefore(user.ID, req.Before)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "対象件数の取得に失敗しました")
			return
		}
		util.Success(c, util.Response{
			"deleted":      false,
			"target_count": count,
			"confirm_text": pruneConfirmText,
			"message":      "削除を実行するには確認が必要です",
		})
		return
	}

	if req.ConfirmText != pruneConfirmText {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "確認用テキストが一致しません")
		return
	}

	deleted, err := h.Store.DeleteBefore(user.ID, req.Before)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "記録の削除に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"deleted":       true,
		"deleted_count": deleted,
		"message":       "古い記録を削除しました",
	})
}
