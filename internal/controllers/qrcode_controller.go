package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"linkly-be/internal/shortcode"
)

const qrCodeSize = 256

// QRCodeController renders short URLs as PNG QR codes.
type QRCodeController struct {
	baseURL string
}

func NewQRCodeController(baseURL string) *QRCodeController {
	return &QRCodeController{
		baseURL: baseURL,
	}
}

// GenerateQRCode handles GET /api/v1/qrcode/:shortCode
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	code := c.Param("shortCode")
	if !shortcode.Valid(code) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid short code",
		})
		return
	}

	png, err := qrcode.Encode(qc.baseURL+"/"+code, qrcode.Medium, qrCodeSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+code+".png")
	c.Data(http.StatusOK, "image/png", png)
}
