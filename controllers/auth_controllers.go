package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/danuarta/perpustakaan-app/database"
	"github.com/danuarta/perpustakaan-app/models"
	"github.com/danuarta/perpustakaan-app/services"
	"github.com/danuarta/perpustakaan-app/utils"
)

type AuthController struct {
	Store   *database.Store
	Flusher *services.Flusher
}

func NewAuthController(store *database.Store, flusher *services.Flusher) *AuthController {
	return &AuthController{Store: store, Flusher: flusher}
}

// Login -> verifikasi kredensial, balas JWT
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("username dan password wajib diisi"))
		return
	}

	var admin models.Admin
	if err := ac.Store.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		utils.RespondError(c, utils.NewAuthError("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		utils.RespondError(c, utils.NewAuthError("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("Admin login: %s", admin.Username)

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"token":    token,
		"username": admin.Username,
		"nama":     admin.Nama,
	})
}

// Register -> buat akun admin baru
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		Nama     string `json:"nama" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("username, password (min 6 karakter), dan nama wajib diisi"))
		return
	}

	var existing models.Admin
	if err := ac.Store.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.RespondError(c, utils.NewConflictError("username sudah terdaftar"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	admin := models.Admin{
		Username: req.Username,
		Password: string(hashed),
		Nama:     req.Nama,
	}
	if err := ac.Store.DB.Create(&admin).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	ac.Flusher.MarkDirty()
	utils.InfoLogger.Printf("New admin registered: %s", admin.Username)

	utils.RespondJSON(c, http.StatusCreated, gin.H{
		"admin_id": admin.ID,
		"username": admin.Username,
	})
}

// ChangePassword -> admin mengganti password sendiri
func (ac *AuthController) ChangePassword(c *gin.Context) {
	adminIDInterface, exists := c.Get("admin_id")
	if !exists {
		utils.RespondError(c, utils.NewAuthError("admin id not found in context"))
		return
	}
	adminID, ok := adminIDInterface.(uint)
	if !ok {
		utils.RespondError(c, utils.NewAuthError("invalid admin id in token"))
		return
	}

	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("old_password dan new_password (min 6 karakter) wajib diisi"))
		return
	}

	var admin models.Admin
	if err := ac.Store.DB.First(&admin, adminID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondError(c, utils.NewNotFoundError("admin tidak ditemukan"))
			return
		}
		utils.RespondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.OldPassword)); err != nil {
		utils.RespondError(c, utils.NewAuthError("password lama salah"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := ac.Store.DB.Model(&admin).Update("password", string(hashed)).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	ac.Flusher.MarkDirty()
	utils.RespondJSON(c, http.StatusOK, gin.H{"username": admin.Username})
}

// GetAdmins -> daftar akun admin (hash password tidak ikut diserialisasi)
func (ac *AuthController) GetAdmins(c *gin.Context) {
	var admins []models.Admin
	if err := ac.Store.DB.Find(&admins).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondList(c, http.StatusOK, len(admins), admins)
}

// Init -> bootstrap sekali jalan: seed admin default hanya jika tabel kosong
func (ac *AuthController) Init(c *gin.Context) {
	var count int64
	if err := ac.Store.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, utils.NewConflictError("admin sudah diinisialisasi"))
		return
	}

	password := os.Getenv("DEFAULT_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	admin := models.Admin{
		Username: "admin",
		Password: string(hashed),
		Nama:     "Administrator Perpustakaan",
	}
	if err := ac.Store.DB.Create(&admin).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	ac.Flusher.MarkDirty()
	utils.InfoLogger.Printf("Default admin seeded: %s", admin.Username)

	utils.RespondJSON(c, http.StatusCreated, gin.H{
		"admin_id": admin.ID,
		"username": admin.Username,
	})
}
