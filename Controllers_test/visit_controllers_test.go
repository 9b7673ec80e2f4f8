package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/danuarta/perpustakaan-app/controllers"
	"github.com/danuarta/perpustakaan-app/database"
	"github.com/danuarta/perpustakaan-app/models"
	"github.com/danuarta/perpustakaan-app/services"
	"github.com/danuarta/perpustakaan-app/utils"
)

// setupVisitEnv menyiapkan store in-memory + flusher untuk test visit
func setupVisitEnv(t *testing.T) (*database.Store, *services.Flusher) {
	t.Helper()
	store, err := database.Open("")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, services.NewFlusher(store, 50*time.Millisecond)
}

func setupVisitRouter(store *database.Store, flusher *services.Flusher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	visitCtrl := controllers.NewVisitController(store, flusher)
	router.POST("/visits", visitCtrl.CreateVisit)
	router.GET("/visits", visitCtrl.GetVisits)
	router.GET("/visits/stats", visitCtrl.GetVisitStats)
	router.PUT("/visits/return-locker-by-number", visitCtrl.ReturnLockerByNumber)
	router.PUT("/visits/return-locker/:id", visitCtrl.ReturnLockerByID)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest(method, url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateVisitFanOut(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	w := postJSON(t, router, "POST", "/visits", map[string]interface{}{
		"nama":          "Budi Santoso",
		"nim":           "210001",
		"prodi":         "Teknik Informatika",
		"gender":        "L",
		"ruangan":       []string{"karel", "smartlab"},
		"locker_number": "7",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	data := response["data"].(map[string]interface{})
	rooms := data["rooms"].([]interface{})
	assert.Equal(t, []interface{}{"karel", "smartlab"}, rooms)
	assert.Equal(t, "7", data["locker"])

	// Fan-out: satu baris per ruangan, fakultas diturunkan dari prodi
	var visits []models.Visit
	assert.NoError(t, store.DB.Order("ruangan").Find(&visits).Error)
	assert.Len(t, visits, 2)
	assert.Equal(t, "karel", visits[0].Ruangan)
	assert.Equal(t, "smartlab", visits[1].Ruangan)
	assert.Equal(t, "Fakultas Teknik", visits[0].Fakultas)
	assert.Nil(t, visits[0].LockerReturnedAt)
}

func TestCreateVisitSingleRoomString(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	w := postJSON(t, router, "POST", "/visits", map[string]interface{}{
		"nama":    "Sari",
		"nim":     "210002",
		"prodi":   "Manajemen",
		"gender":  "P",
		"ruangan": "referensi",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	store.DB.Model(&models.Visit{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateVisitInvalidRoomRollsBack(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	w := postJSON(t, router, "POST", "/visits", map[string]interface{}{
		"nama":    "Budi",
		"nim":     "210003",
		"prodi":   "Fisika",
		"gender":  "L",
		"ruangan": []string{"karel", "smartlab", "basement"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Contains(t, response["error"], "basement")

	// Tidak ada insert parsial
	var count int64
	store.DB.Model(&models.Visit{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateVisitInvalidGender(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	w := postJSON(t, router, "POST", "/visits", map[string]interface{}{
		"nama":    "Budi",
		"nim":     "210004",
		"prodi":   "Kimia",
		"gender":  "X",
		"ruangan": "karel",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	store.DB.Model(&models.Visit{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateVisitMissingFields(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	w := postJSON(t, router, "POST", "/visits", map[string]interface{}{
		"nama":    "Budi",
		"ruangan": "karel",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReturnLockerByNumberIdempotent(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	w := postJSON(t, router, "POST", "/visits", map[string]interface{}{
		"nama":          "Dewi",
		"nim":           "210005",
		"prodi":         "Psikologi",
		"gender":        "P",
		"ruangan":       "sirkulasi_l2",
		"locker_number": "12",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Pengembalian pertama sukses dan membawa identitas peminjam
	w = postJSON(t, router, "PUT", "/visits/return-locker-by-number", map[string]string{
		"locker_number": "12",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Dewi", data["nama"])
	assert.Equal(t, "210005", data["nim"])

	// Pengembalian kedua untuk loker yang sama -> 404, bukan sukses ganda
	w = postJSON(t, router, "PUT", "/visits/return-locker-by-number", map[string]string{
		"locker_number": "12",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReturnLockerByNumberUnknownLocker(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	w := postJSON(t, router, "PUT", "/visits/return-locker-by-number", map[string]string{
		"locker_number": "99",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReturnLockerByID(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	locker := "3"
	withLocker := models.Visit{
		Nama: "Andi", NIM: "210006", Prodi: "Ilmu Hukum", Fakultas: "Fakultas Hukum",
		Gender: "L", Ruangan: "audiovisual", LockerNumber: &locker, VisitTime: time.Now(),
	}
	noLocker := models.Visit{
		Nama: "Rina", NIM: "210007", Prodi: "Gizi", Fakultas: "Fakultas Kedokteran dan Ilmu Kesehatan",
		Gender: "P", Ruangan: "bicorner", VisitTime: time.Now(),
	}
	store.DB.Create(&withLocker)
	store.DB.Create(&noLocker)

	// Kunjungan tanpa loker -> 400
	w := postJSON(t, router, "PUT", "/visits/return-locker/2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Id tidak ada -> 404
	w = postJSON(t, router, "PUT", "/visits/return-locker/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Sukses
	w = postJSON(t, router, "PUT", "/visits/return-locker/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Sudah dikembalikan -> 409
	w = postJSON(t, router, "PUT", "/visits/return-locker/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetVisitsLimitClamp(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	for i := 0; i < 3; i++ {
		store.DB.Create(&models.Visit{
			Nama: "Visitor", NIM: "21000", Prodi: "Biologi", Fakultas: "Fakultas MIPA",
			Gender: "L", Ruangan: "karel", VisitTime: time.Now(),
		})
	}

	// limit di bawah 1 diklamp ke 1, bukan ditolak
	for _, raw := range []string{"0", "-5"} {
		req, _ := http.NewRequest("GET", "/visits?limit="+raw, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(1), response["count"])
	}

	// limit sangat besar tetap dilayani (diklamp ke 5000)
	req, _ := http.NewRequest("GET", "/visits?limit=999999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(3), response["count"])
}

func TestGetVisitsRoomFilter(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	store.DB.Create(&models.Visit{
		Nama: "A", NIM: "1", Prodi: "Fisika", Fakultas: "Fakultas MIPA",
		Gender: "L", Ruangan: "karel", VisitTime: time.Now(),
	})
	store.DB.Create(&models.Visit{
		Nama: "B", NIM: "2", Prodi: "Fisika", Fakultas: "Fakultas MIPA",
		Gender: "P", Ruangan: "smartlab", VisitTime: time.Now(),
	})

	req, _ := http.NewRequest("GET", "/visits?ruangan=karel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
	rows := response["data"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "karel", first["ruangan"])
}

func TestVisitStatsConsistency(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	seed := []struct {
		room   string
		gender string
		prodi  string
	}{
		{"karel", "L", "Teknik Informatika"},
		{"karel", "P", "Teknik Informatika"},
		{"smartlab", "L", "Manajemen"},
		{"referensi", "P", "Prodi Misterius"},
	}
	for i, s := range seed {
		store.DB.Create(&models.Visit{
			Nama: "V", NIM: "21" + string(rune('0'+i)), Prodi: s.prodi,
			Fakultas: models.FacultyForProdi(s.prodi), Gender: s.gender,
			Ruangan: s.room, VisitTime: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}

	req, _ := http.NewRequest("GET", "/visits/stats?days=30", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})

	total := data["totalVisits"].(float64)
	assert.Equal(t, float64(4), total)

	sumRooms := float64(0)
	for _, row := range data["byRoom"].([]interface{}) {
		sumRooms += row.(map[string]interface{})["count"].(float64)
	}
	assert.Equal(t, total, sumRooms)

	sumGender := float64(0)
	for _, row := range data["byGender"].([]interface{}) {
		sumGender += row.(map[string]interface{})["count"].(float64)
	}
	assert.Equal(t, total, sumGender)

	// Prodi tak dikenal masuk fakultas "Unknown"
	foundUnknown := false
	for _, row := range data["byFaculty"].([]interface{}) {
		if row.(map[string]interface{})["fakultas"] == "Unknown" {
			foundUnknown = true
		}
	}
	assert.True(t, foundUnknown)

	trend := data["dailyTrend"].([]interface{})
	assert.Len(t, trend, 7)

	peak := data["peakHours"].([]interface{})
	assert.LessOrEqual(t, len(peak), 5)
}

func TestVisitStatsRoomFilter(t *testing.T) {
	utils.InitLogger()
	store, flusher := setupVisitEnv(t)
	router := setupVisitRouter(store, flusher)

	store.DB.Create(&models.Visit{
		Nama: "A", NIM: "1", Prodi: "Fisika", Fakultas: "Fakultas MIPA",
		Gender: "L", Ruangan: "karel", VisitTime: time.Now(),
	})
	store.DB.Create(&models.Visit{
		Nama: "B", NIM: "2", Prodi: "Fisika", Fakultas: "Fakultas MIPA",
		Gender: "P", Ruangan: "smartlab", VisitTime: time.Now(),
	})

	req, _ := http.NewRequest("GET", "/visits/stats?ruangan=smartlab", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalVisits"])

	byRoom := data["byRoom"].([]interface{})
	assert.Len(t, byRoom, 1)
	assert.Equal(t, "smartlab", byRoom[0].(map[string]interface{})["ruangan"])
}
