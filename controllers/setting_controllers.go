package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/danuarta/perpustakaan-app/database"
	"github.com/danuarta/perpustakaan-app/models"
	"github.com/danuarta/perpustakaan-app/services"
	"github.com/danuarta/perpustakaan-app/utils"
)

const operatingHoursKey = "operating-hours"

type SettingController struct {
	Store   *database.Store
	Flusher *services.Flusher
}

func NewSettingController(store *database.Store, flusher *services.Flusher) *SettingController {
	return &SettingController{Store: store, Flusher: flusher}
}

type DaySchedule struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Active bool   `json:"active"`
}

var weekdays = []string{"senin", "selasa", "rabu", "kamis", "jumat", "sabtu", "minggu"}

func defaultOperatingHours() map[string]DaySchedule {
	hours := make(map[string]DaySchedule, len(weekdays))
	for _, day := range weekdays {
		switch day {
		case "sabtu":
			hours[day] = DaySchedule{Open: "09:00", Close: "14:00", Active: true}
		case "minggu":
			hours[day] = DaySchedule{Open: "00:00", Close: "00:00", Active: false}
		default:
			hours[day] = DaySchedule{Open: "08:00", Close: "16:00", Active: true}
		}
	}
	return hours
}

// GetSetting -> baca satu setting; key operating-hours dibalas terstruktur
// dengan jadwal default bila belum pernah disimpan.
func (sc *SettingController) GetSetting(c *gin.Context) {
	key := c.Param("key")

	var setting models.Setting
	err := sc.Store.DB.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			utils.RespondError(c, err)
			return
		}
		if key == operatingHoursKey {
			utils.RespondJSON(c, http.StatusOK, defaultOperatingHours())
			return
		}
		utils.RespondError(c, utils.NewNotFoundError("setting tidak ditemukan"))
		return
	}

	if key == operatingHoursKey {
		var hours map[string]DaySchedule
		if err := json.Unmarshal([]byte(setting.Value), &hours); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, hours)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"key":   setting.Key,
		"value": setting.Value,
	})
}

// UpdateSetting -> upsert satu setting; key operating-hours divalidasi
// per hari (open/close HH:MM) sebelum disimpan.
func (sc *SettingController) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	if key == operatingHoursKey {
		sc.updateOperatingHours(c)
		return
	}

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("value wajib diisi"))
		return
	}

	if err := sc.upsert(key, req.Value); err != nil {
		utils.RespondError(c, err)
		return
	}

	sc.Flusher.MarkDirty()
	utils.RespondJSON(c, http.StatusOK, gin.H{"key": key})
}

func (sc *SettingController) updateOperatingHours(c *gin.Context) {
	var hours map[string]DaySchedule
	if err := c.ShouldBindJSON(&hours); err != nil {
		utils.RespondError(c, utils.NewValidationError("jadwal operasional tidak valid"))
		return
	}

	for _, day := range weekdays {
		schedule, ok := hours[day]
		if !ok {
			utils.RespondError(c, utils.NewValidationError("jadwal untuk hari "+day+" belum diisi"))
			return
		}
		if !schedule.Active {
			continue
		}
		if !isValidClock(schedule.Open) || !isValidClock(schedule.Close) {
			utils.RespondError(c, utils.NewValidationError("jam buka/tutup hari "+day+" harus berformat HH:MM"))
			return
		}
	}

	encoded, err := json.Marshal(hours)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := sc.upsert(operatingHoursKey, string(encoded)); err != nil {
		utils.RespondError(c, err)
		return
	}

	sc.Flusher.MarkDirty()
	utils.RespondJSON(c, http.StatusOK, hours)
}

func (sc *SettingController) upsert(key, value string) error {
	var setting models.Setting
	err := sc.Store.DB.Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return sc.Store.DB.Create(&models.Setting{Key: key, Value: value}).Error
	}
	if err != nil {
		return err
	}

	setting.Value = value
	return sc.Store.DB.Save(&setting).Error
}

func isValidClock(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}
