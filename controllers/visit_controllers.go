package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/danuarta/perpustakaan-app/database"
	"github.com/danuarta/perpustakaan-app/live"
	"github.com/danuarta/perpustakaan-app/models"
	"github.com/danuarta/perpustakaan-app/services"
	"github.com/danuarta/perpustakaan-app/utils"
)

const (
	defaultVisitLimit = 1000
	maxVisitLimit     = 5000
	defaultStatsDays  = 30
	maxStatsDays      = 3650
)

type VisitController struct {
	Store   *database.Store
	Flusher *services.Flusher
}

func NewVisitController(store *database.Store, flusher *services.Flusher) *VisitController {
	return &VisitController{Store: store, Flusher: flusher}
}

// RoomList menerima satu kode ruangan ("karel") atau array (["karel","smartlab"])
// dari form kiosk maupun dashboard.
type RoomList []string

func (r *RoomList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RoomList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("ruangan harus berupa string atau array of string")
	}
	*r = RoomList(many)
	return nil
}

// CreateVisit -> satu submit kehadiran di-fan-out menjadi satu baris per
// ruangan terpilih, dalam satu transaksi. Gagal sebagian = batal semua.
func (vc *VisitController) CreateVisit(c *gin.Context) {
	if !vc.Store.Ready() {
		utils.RespondError(c, utils.NewServiceUnavailableError("store belum siap"))
		return
	}

	var req struct {
		Nama         string   `json:"nama"`
		NIM          string   `json:"nim"`
		Prodi        string   `json:"prodi"`
		Gender       string   `json:"gender"`
		Ruangan      RoomList `json:"ruangan"`
		Umur         *int     `json:"umur"`
		LockerNumber *string  `json:"locker_number"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("request body tidak valid"))
		return
	}

	// Validasi eager di boundary, sebelum ada mutasi
	if req.Nama == "" || req.NIM == "" || req.Prodi == "" || req.Gender == "" {
		utils.RespondError(c, utils.NewValidationError("nama, nim, prodi, dan gender wajib diisi"))
		return
	}
	if len(req.Ruangan) == 0 {
		utils.RespondError(c, utils.NewValidationError("minimal satu ruangan harus dipilih"))
		return
	}
	if !models.IsValidGender(req.Gender) {
		utils.RespondError(c, utils.NewValidationError("gender harus L atau P"))
		return
	}
	if invalid := models.InvalidRooms(req.Ruangan); len(invalid) > 0 {
		utils.RespondError(c, utils.NewValidationError(
			fmt.Sprintf("kode ruangan tidak valid: %s", strings.Join(invalid, ", "))))
		return
	}

	// Fakultas diturunkan sekali dari prodi, bukan per ruangan
	fakultas := models.FacultyForProdi(req.Prodi)
	now := time.Now()

	tx := vc.Store.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, tx.Error)
		return
	}

	visits := make([]models.Visit, 0, len(req.Ruangan))
	for _, room := range req.Ruangan {
		visit := models.Visit{
			Nama:         req.Nama,
			NIM:          req.NIM,
			Prodi:        req.Prodi,
			Fakultas:     fakultas,
			Gender:       req.Gender,
			Ruangan:      room,
			Umur:         req.Umur,
			LockerNumber: req.LockerNumber,
			VisitTime:    now,
		}
		if err := tx.Create(&visit).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Visit insert failed, rolling back: %v", err)
			utils.RespondError(c, err)
			return
		}
		visits = append(visits, visit)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Visit commit failed: %v", err)
		utils.RespondError(c, err)
		return
	}

	vc.Flusher.MarkDirty()
	live.BroadcastVisitCreated(visits)

	utils.InfoLogger.Printf("Visit recorded: %s (%s) -> %s", req.Nama, req.NIM, strings.Join(req.Ruangan, ","))

	utils.RespondJSON(c, http.StatusCreated, gin.H{
		"nama":   req.Nama,
		"nim":    req.NIM,
		"rooms":  []string(req.Ruangan),
		"locker": req.LockerNumber,
	})
}

// GetVisits -> baris kunjungan mentah dengan filter opsional, terbaru dulu.
func (vc *VisitController) GetVisits(c *gin.Context) {
	if !vc.Store.Ready() {
		utils.RespondError(c, utils.NewServiceUnavailableError("store belum siap"))
		return
	}

	limit := clampLimit(c.Query("limit"))

	query := vc.Store.DB.Model(&models.Visit{})
	if room := c.Query("ruangan"); room != "" {
		query = query.Where("ruangan = ?", room)
	}
	if locker := c.Query("locker_number"); locker != "" {
		query = query.Where("locker_number = ?", locker)
	}
	if start := c.Query("startDate"); start != "" {
		if t, err := parseDateParam(start, false); err == nil {
			query = query.Where("visit_time >= ?", t)
		} else {
			utils.RespondError(c, utils.NewValidationError("startDate tidak valid"))
			return
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, err := parseDateParam(end, true); err == nil {
			query = query.Where("visit_time <= ?", t)
		} else {
			utils.RespondError(c, utils.NewValidationError("endDate tidak valid"))
			return
		}
	}

	var visits []models.Visit
	if err := query.Order("visit_time DESC").Limit(limit).Find(&visits).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondList(c, http.StatusOK, len(visits), visits)
}

// ReturnLockerByNumber -> jalur self-service: cari checkout aktif hari ini
// untuk nomor loker tersebut, tandai kembali, balas identitas peminjam.
func (vc *VisitController) ReturnLockerByNumber(c *gin.Context) {
	if !vc.Store.Ready() {
		utils.RespondError(c, utils.NewServiceUnavailableError("store belum siap"))
		return
	}

	var req struct {
		LockerNumber string `json:"locker_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("locker_number wajib diisi"))
		return
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var visit models.Visit
	err := vc.Store.DB.
		Where("locker_number = ? AND locker_returned_at IS NULL AND visit_time >= ?",
			req.LockerNumber, startOfDay).
		Order("visit_time DESC").
		First(&visit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondError(c, utils.NewNotFoundError("tidak ada peminjaman loker aktif hari ini"))
			return
		}
		utils.RespondError(c, err)
		return
	}

	visit.LockerReturnedAt = &now
	if err := vc.Store.DB.Model(&visit).Update("locker_returned_at", now).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	vc.Flusher.MarkDirty()
	live.BroadcastLockerReturned(visit)

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"nama":          visit.Nama,
		"nim":           visit.NIM,
		"prodi":         visit.Prodi,
		"locker_number": visit.LockerNumber,
		"visit_time":    visit.VisitTime,
		"returned_at":   now,
	})
}

// ReturnLockerByID -> jalur admin: pengembalian berdasarkan id kunjungan.
func (vc *VisitController) ReturnLockerByID(c *gin.Context) {
	if !vc.Store.Ready() {
		utils.RespondError(c, utils.NewServiceUnavailableError("store belum siap"))
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.NewValidationError("id tidak valid"))
		return
	}

	var visit models.Visit
	if err := vc.Store.DB.First(&visit, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondError(c, utils.NewNotFoundError("kunjungan tidak ditemukan"))
			return
		}
		utils.RespondError(c, err)
		return
	}

	if visit.LockerNumber == nil {
		utils.RespondError(c, utils.NewValidationError("kunjungan ini tidak meminjam loker"))
		return
	}
	if visit.LockerReturnedAt != nil {
		utils.RespondError(c, utils.NewConflictError("loker sudah dikembalikan"))
		return
	}

	now := time.Now()
	visit.LockerReturnedAt = &now
	if err := vc.Store.DB.Model(&visit).Update("locker_returned_at", now).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	vc.Flusher.MarkDirty()
	live.BroadcastLockerReturned(visit)

	utils.RespondJSON(c, http.StatusOK, visit)
}

func clampLimit(raw string) int {
	limit := defaultVisitLimit
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxVisitLimit {
		limit = maxVisitLimit
	}
	return limit
}

// parseDateParam menerima tanggal saja (2006-01-02) atau timestamp RFC3339.
// Untuk endDate, tanggal-saja diperluas sampai akhir hari agar inklusif.
func parseDateParam(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
