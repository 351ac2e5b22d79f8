package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/store"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler 负责备份相关接口
type BackupHandler struct {
	DB         *gorm.DB
	Store      *store.RecordsStore
	EncryptKey string
	BackupDir  string
}

// NewBackupHandler 构造函数
func NewBackupHandler(db *gorm.DB, records *store.RecordsStore, encryptKey, backupDir string) *BackupHandler {
	return &BackupHandler{
		DB:         db,
		Store:      records,
		EncryptKey: encryptKey,
		BackupDir:  backupDir,
	}
}

// backupData 是写入备份文件的内容结构。照片文件本身不进备份，
// 只保留 RecordPhoto 的引用（恢复后指向同一存储目录）。
type backupData struct {
	UserID   uint                     `json:"user_id"`
	Created  time.Time                `json:"created"`
	Records  []models.Record          `json:"records"`
	Settings *models.PersonalSettings `json:"settings,omitempty"`
}

// CreateBackup 生成当前用户的加密备份文件
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var records []models.Record
	if err := h.DB.Preload("Photos").
		Where("user_id = ?", user.ID).
		Order("date ASC, record_time ASC").
		Find(&records).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "記録の取得に失敗しました")
		return
	}

	data := backupData{
		UserID:  user.ID,
		Created: time.Now(),
		Records: records,
	}

	var settings models.PersonalSettings
	if err := h.DB.Where("user_id = ?", user.ID).First(&settings).Error; err == nil {
		data.Settings = &settings
	}

	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "シリアライズに失敗しました")
		return
	}

	enc, err := util.EncryptAES(h.EncryptKey, raw)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "暗号化に失敗しました")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップディレクトリの作成に失敗しました")
		return
	}

	// 使用 uuid + 用户 ID 作为文件名
	fileName := fmt.Sprintf("backup-%d-%s.bin", user.ID, uuid.New().String())
	filePath := filepath.Join(h.BackupDir, fileName)

	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップファイルの書き込みに失敗しました")
		return
	}

	info, _ := os.Stat(filePath)

	backup := models.Backup{
		UserID:   user.ID,
		FileName: fileName,
		FilePath: filePath,
		Size:     info.Size(),
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップの保存に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"backup": gin.H{
			"id":           backup.ID,
			"file_name":    backup.FileName,
			"size":         backup.Size,
			"record_count": len(records),
			"created_at":   backup.CreatedAt,
		},
	})
}

// ListBackups 列出当前用户已有的备份
func (h *BackupHandler) ListBackups(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var list []models.Backup
	if err := h.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップの取得に失敗しました")
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		b := &list[i]
		items = append(items, gin.H{
			"id":         b.ID,
			"file_name":  b.FileName,
			"size":       b.Size,
			"created_at": b.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

// DownloadBackup 下载指定备份文件
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&backup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "バックアップが見つかりません")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップの取得に失敗しました")
		}
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup 删除备份记录及对应文件
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&backup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "バックアップが見つかりません")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップの取得に失敗しました")
		}
		return
	}

	// 先删文件，再删记录
	_ = os.Remove(backup.FilePath)
	if err := h.DB.Delete(&backup).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップの削除に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"message": "削除しました",
	})
}

// RestoreBackup 从指定备份文件恢复当前用户的生活记录
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&backup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "バックアップが見つかりません")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップの取得に失敗しました")
		}
		return
	}

	// 读文件并解密
	encData, err := os.ReadFile(backup.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップファイルの読み込みに失敗しました")
		return
	}

	raw, err := util.DecryptAES(h.EncryptKey, encData)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップファイルの復号に失敗しました")
		return
	}

	var data backupData
	if err := json.Unmarshal(raw, &data); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "バックアップデータの解析に失敗しました")
		return
	}

	// 简单校验：备份中记录的 user_id 必须等于当前用户
	if data.UserID != 0 && data.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "このバックアップは現在のユーザーのものではありません")
		return
	}

	// 用事务：先删当前用户所有记录，再导入备份中的记录
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Record{}).
			Where("user_id = ?", user.ID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("record_id IN ?", ids).Delete(&models.RecordPhoto{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Record{}).Error; err != nil {
				return err
			}
		}

		for i := range data.Records {
			r := data.Records[i]
			r.UserID = user.ID // 强制归属当前用户
			photos := r.Photos
			r.Photos = nil
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			for j := range photos {
				p := photos[j]
				p.ID = 0
				p.RecordID = r.ID
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
			}
		}

		if data.Settings != nil {
			s := *data.Settings
			s.UserID = user.ID
			if err := tx.Save(&s).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "復元に失敗しました")
		return
	}

	// 恢复绕过了 store 的写路径，这里统一丢弃缓存并重新推送订阅
	h.Store.InvalidateUser(user.ID)

	util.Success(c, util.Response{
		"message":       "復元しました",
		"records_count": len(data.Records),
	})
}
