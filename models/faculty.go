package models

import "strings"

// Pemetaan statis program studi → fakultas. Prodi yang tidak dikenal
// dipetakan ke "Unknown", bukan error.
var facultyByProdi = map[string]string{
	// Fakultas Teknik
	"Teknik Informatika":   "Fakultas Teknik",
	"Sistem Informasi":     "Fakultas Teknik",
	"Teknik Elektro":       "Fakultas Teknik",
	"Teknik Mesin":         "Fakultas Teknik",
	"Teknik Sipil":         "Fakultas Teknik",
	"Teknik Industri":      "Fakultas Teknik",
	"Arsitektur":           "Fakultas Teknik",
	"Teknik Lingkungan":    "Fakultas Teknik",
	"Teknik Kimia":         "Fakultas Teknik",
	"Teknik Komputer":      "Fakultas Teknik",

	// Fakultas Ekonomi dan Bisnis
	"Manajemen":            "Fakultas Ekonomi dan Bisnis",
	"Akuntansi":            "Fakultas Ekonomi dan Bisnis",
	"Ekonomi Pembangunan":  "Fakultas Ekonomi dan Bisnis",
	"Bisnis Digital":       "Fakultas Ekonomi dan Bisnis",
	"Kewirausahaan":        "Fakultas Ekonomi dan Bisnis",

	// Fakultas MIPA
	"Matematika":           "Fakultas MIPA",
	"Fisika":               "Fakultas MIPA",
	"Kimia":                "Fakultas MIPA",
	"Biologi":              "Fakultas MIPA",
	"Statistika":           "Fakultas MIPA",

	// Fakultas Ilmu Sosial dan Politik
	"Ilmu Komunikasi":      "Fakultas Ilmu Sosial dan Politik",
	"Administrasi Publik":  "Fakultas Ilmu Sosial dan Politik",
	"Hubungan Internasional": "Fakultas Ilmu Sosial dan Politik",
	"Sosiologi":            "Fakultas Ilmu Sosial dan Politik",
	"Ilmu Politik":         "Fakultas Ilmu Sosial dan Politik",

	// Fakultas Hukum
	"Ilmu Hukum":           "Fakultas Hukum",

	// Fakultas Kedokteran dan Ilmu Kesehatan
	"Kedokteran":           "Fakultas Kedokteran dan Ilmu Kesehatan",
	"Keperawatan":          "Fakultas Kedokteran dan Ilmu Kesehatan",
	"Farmasi":              "Fakultas Kedokteran dan Ilmu Kesehatan",
	"Kesehatan Masyarakat": "Fakultas Kedokteran dan Ilmu Kesehatan",
	"Gizi":                 "Fakultas Kedokteran dan Ilmu Kesehatan",

	// Fakultas Keguruan dan Ilmu Pendidikan
	"Pendidikan Bahasa Inggris":   "Fakultas Keguruan dan Ilmu Pendidikan",
	"Pendidikan Bahasa Indonesia": "Fakultas Keguruan dan Ilmu Pendidikan",
	"Pendidikan Matematika":       "Fakultas Keguruan dan Ilmu Pendidikan",
	"PGSD":                        "Fakultas Keguruan dan Ilmu Pendidikan",
	"Pendidikan Agama Islam":      "Fakultas Keguruan dan Ilmu Pendidikan",

	// Fakultas Pertanian
	"Agroteknologi":        "Fakultas Pertanian",
	"Agribisnis":           "Fakultas Pertanian",
	"Peternakan":           "Fakultas Pertanian",

	// Fakultas Ilmu Budaya
	"Sastra Inggris":       "Fakultas Ilmu Budaya",
	"Sastra Indonesia":     "Fakultas Ilmu Budaya",
	"Ilmu Perpustakaan":    "Fakultas Ilmu Budaya",

	// Fakultas Psikologi
	"Psikologi":            "Fakultas Psikologi",
}

const UnknownFaculty = "Unknown"

// FacultyForProdi menurunkan fakultas dari nama prodi. Pencocokan tidak
// case-sensitive supaya input form kiosk yang bervariasi tetap terpetakan.
func FacultyForProdi(prodi string) string {
	if faculty, ok := facultyByProdi[prodi]; ok {
		return faculty
	}
	normalized := strings.TrimSpace(prodi)
	for name, faculty := range facultyByProdi {
		if strings.EqualFold(name, normalized) {
			return faculty
		}
	}
	return UnknownFaculty
}
