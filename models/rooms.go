package models

// Kode ruangan yang sah. Kode di luar daftar ini ditolak saat input.
const (
	RoomAudiovisual = "audiovisual"
	RoomReferensi   = "referensi"
	RoomSirkulasiL1 = "sirkulasi_l1"
	RoomSirkulasiL2 = "sirkulasi_l2"
	RoomSirkulasiL3 = "sirkulasi_l3"
	RoomKarel       = "karel"
	RoomSmartlab    = "smartlab"
	RoomBicorner    = "bicorner"
)

var validRooms = map[string]bool{
	RoomAudiovisual: true,
	RoomReferensi:   true,
	RoomSirkulasiL1: true,
	RoomSirkulasiL2: true,
	RoomSirkulasiL3: true,
	RoomKarel:       true,
	RoomSmartlab:    true,
	RoomBicorner:    true,
}

func IsValidRoom(code string) bool {
	return validRooms[code]
}

// InvalidRooms mengembalikan kode yang tidak dikenali, untuk pesan error.
func InvalidRooms(codes []string) []string {
	var invalid []string
	for _, code := range codes {
		if !validRooms[code] {
			invalid = append(invalid, code)
		}
	}
	return invalid
}

func IsValidGender(g string) bool {
	return g == "L" || g == "P"
}
