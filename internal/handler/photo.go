package handler

import (
	"io"
	"net/http"
	"strings"

	"lifelog/internal/store"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// 单张照片上限 8MB
const maxPhotoSize = 8 << 20

// PhotoHandler 负责照片上传。上传和记录保存是两步：
// 客户端先上传拿到 {url, file_name}，再把它们放进记录的 photos 里保存。
type PhotoHandler struct {
	Photos *store.PhotoStore
}

func NewPhotoHandler(p *store.PhotoStore) *PhotoHandler {
	return &PhotoHandler{Photos: p}
}

// Upload 接收 multipart 上传（字段名 photo），按类别存储。
func (h *PhotoHandler) Upload(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	category := c.PostForm("category")
	if err := util.ValidateCategory(category); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "カテゴリが不正です")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "写真ファイルが見つかりません")
		return
	}
	if fileHeader.Size > maxPhotoSize {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "写真のサイズが大きすぎます（8MBまで）")
		return
	}
	name := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".jpeg") {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "JPEG形式の写真のみアップロードできます")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "写真の読み込みに失敗しました")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoSize+1))
	if err != nil || len(data) > maxPhotoSize {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "写真の読み込みに失敗しました")
		return
	}

	photo, err := h.Photos.Save(category, data)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "写真の保存に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"photo": photo,
	})
}

// Delete 删除一个尚未附加到记录的照片文件（客户端在保存前取消时调用）。
func (h *PhotoHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	fileName := c.Query("file_name")
	if fileName == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ファイル名が指定されていません")
		return
	}

	if err := h.Photos.Delete(fileName); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "写真の削除に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"message": "削除しました",
	})
}
