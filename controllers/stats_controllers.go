package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/danuarta/perpustakaan-app/models"
	"github.com/danuarta/perpustakaan-app/utils"
)

type roomCount struct {
	Ruangan string `json:"ruangan"`
	Count   int64  `json:"count"`
}

type facultyCount struct {
	Fakultas string `json:"fakultas"`
	Count    int64  `json:"count"`
}

type genderCount struct {
	Gender string `json:"gender"`
	Count  int64  `json:"count"`
}

type dailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type hourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// GetVisitStats -> agregat untuk dashboard: total, per ruangan, per fakultas,
// per gender, tren 7 hari terakhir, dan 5 jam tersibuk.
//
// Semua sub-agregat dalam window memakai builder WHERE yang sama supaya
// totalVisits selalu sama dengan jumlah byRoom maupun byGender.
func (vc *VisitController) GetVisitStats(c *gin.Context) {
	if !vc.Store.Ready() {
		utils.RespondError(c, utils.NewServiceUnavailableError("store belum siap"))
		return
	}

	days := defaultStatsDays
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = parsed
		}
	}
	if days < 1 {
		days = 1
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	room := c.Query("ruangan")
	now := time.Now()
	since := now.AddDate(0, 0, -days)

	// Satu-satunya konstruksi filter untuk seluruh sub-agregat window
	windowed := func() *gorm.DB {
		q := vc.Store.DB.Model(&models.Visit{}).Where("visit_time >= ?", since)
		if room != "" {
			q = q.Where("ruangan = ?", room)
		}
		return q
	}

	var totalVisits int64
	if err := windowed().Count(&totalVisits).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	var byRoom []roomCount
	if err := windowed().
		Select("ruangan, COUNT(*) as count").
		Group("ruangan").
		Order("count DESC").
		Scan(&byRoom).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	var byFaculty []facultyCount
	if err := windowed().
		Select("fakultas, COUNT(*) as count").
		Group("fakultas").
		Order("count DESC").
		Scan(&byFaculty).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	var byGender []genderCount
	if err := windowed().
		Select("gender, COUNT(*) as count").
		Group("gender").
		Scan(&byGender).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	dailyTrend, err := vc.dailyTrend(room, now)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var peakHours []hourCount
	if err := windowed().
		Select("CAST(strftime('%H', visit_time, 'localtime') AS INTEGER) as hour, COUNT(*) as count").
		Group("hour").
		Order("count DESC").
		Limit(5).
		Scan(&peakHours).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"totalVisits": totalVisits,
		"byRoom":      byRoom,
		"byFaculty":   byFaculty,
		"byGender":    byGender,
		"dailyTrend":  dailyTrend,
		"peakHours":   peakHours,
	})
}

// dailyTrend selalu 7 hari terakhir, terlepas dari parameter days.
// Hari tanpa kunjungan diisi nol supaya grafik dashboard kontinu.
func (vc *VisitController) dailyTrend(room string, now time.Time) ([]dailyCount, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -6)

	q := vc.Store.DB.Model(&models.Visit{}).Where("visit_time >= ?", start)
	if room != "" {
		q = q.Where("ruangan = ?", room)
	}

	var rows []dailyCount
	if err := q.
		Select("date(visit_time, 'localtime') as date, COUNT(*) as count").
		Group("date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Date] = row.Count
	}

	trend := make([]dailyCount, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, dailyCount{Date: day, Count: counts[day]})
	}
	return trend, nil
}
