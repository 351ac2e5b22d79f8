package handler

import (
	"net/http"
	"strconv"

	"lifelog/internal/geocode"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
)

// GeocodeHandler 把坐标反查为地址（代理外部服务，带缓存）
type GeocodeHandler struct {
	Client *geocode.Client
}

func NewGeocodeHandler(client *geocode.Client) *GeocodeHandler {
	return &GeocodeHandler{Client: client}
}

// ReverseGeocode returns the address for lat/lon query params. A lookup
// failure is reported to the caller but never recorded as an error log;
// the client treats the address as optional.
func (h *GeocodeHandler) ReverseGeocode(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "緯度が不正です")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "経度が不正です")
		return
	}

	address, err := h.Client.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		util.Error(c, http.StatusBadGateway, util.CodeServerErr, "住所の取得に失敗しました")
		return
	}

	util.Success(c, util.Response{
		"address": address,
	})
}
