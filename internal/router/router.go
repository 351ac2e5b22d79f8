package router

import (
	"lifelog/internal/config"
	"lifelog/internal/geocode"
	"lifelog/internal/handler"
	"lifelog/internal/middleware"
	"lifelog/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine with all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, records *store.RecordsStore, photos *store.PhotoStore, geo *geocode.Client) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 照片静态目录（文件名由服务端生成，路径不可预测）
	r.Static("/photos", photos.Dir)

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.OperationLogMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.POST("/auth/logout", handler.Logout(records))

	recordHandler := handler.NewRecordHandler(records)
	protected.POST("/records", recordHandler.CreateRecord)
	protected.GET("/records", recordHandler.ListRecords)
	protected.PUT("/records/:id", recordHandler.UpdateRecord)
	protected.DELETE("/records/:id", recordHandler.DeleteRecord)
	protected.GET("/summary/daily", recordHandler.GetDailySummary)

	pruneHandler := handler.NewPruneHandler(records)
	protected.POST("/records/prune", pruneHandler.PruneRecords)

	photoHandler := handler.NewPhotoHandler(photos)
	protected.POST("/photos", photoHandler.Upload)
	protected.DELETE("/photos", photoHandler.Delete)

	settingsHandler := handler.NewSettingsHandler(db)
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

	masterHandler := handler.NewMasterHandler(db)
	protected.GET("/master/:kind", masterHandler.ListItems)
	protected.POST("/master/:kind", masterHandler.AddItem)
	protected.DELETE("/master/:kind/:id", masterHandler.DeleteItem)

	geocodeHandler := handler.NewGeocodeHandler(geo)
	protected.GET("/geocode/reverse", geocodeHandler.ReverseGeocode)

	backupHandler := handler.NewBackupHandler(db, records, cfg.Security.EncryptionKey, cfg.Backup.Dir)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))
	protected.POST("/profile/delete", handler.DeleteAccount(db))

	logHandler := handler.NewLogHandler(db, cfg.App.PageSize)
	protected.GET("/logs", logHandler.ListLogs)
	protected.GET("/history", logHandler.ListRecordHistory)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
