package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse adalah bentuk respons standar untuk semua endpoint.
// Sukses: {success:true, data:...}, gagal: {success:false, error:"..."}.
type JSONResponse struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, JSONResponse{
		Success: true,
		Data:    data,
	})
}

// RespondList menyertakan jumlah baris untuk endpoint listing.
func RespondList(c *gin.Context, code int, count int, data interface{}) {
	c.JSON(code, JSONResponse{
		Success: true,
		Count:   &count,
		Data:    data,
	})
}

// RespondError menerjemahkan error ke status + pesan yang aman.
// Error di luar taksonomi AppError tidak pernah bocor ke client.
func RespondError(c *gin.Context, err error) {
	code, message := TranslateError(err)
	c.JSON(code, JSONResponse{
		Success: false,
		Error:   message,
	})
}
