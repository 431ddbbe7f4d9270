package weather

import "strings"

// descriptionToKorean maps OpenWeatherMap English descriptions (lang=en,
// lowercased) to Korean conditions.
var descriptionToKorean = map[string]string{
	"clear sky":        "맑음",
	"few clouds":       "구름 조금",
	"scattered clouds": "구름 조금",
	"broken clouds":    "구름많음",
	"overcast clouds":  "흐림",

	"light rain":           "약한 비",
	"moderate rain":        "비",
	"heavy intensity rain": "강한 비",
	"very heavy rain":      "폭우",
	"extreme rain":         "폭우",
	"freezing rain":        "진눈깨비",

	"light intensity shower rain": "소나기",
	"shower rain":                 "소나기",
	"heavy intensity shower rain": "강한 소나기",
	"ragged shower rain":          "소나기",

	"light snow":         "약한 눈",
	"snow":               "눈",
	"heavy snow":         "폭설",
	"sleet":              "진눈깨비",
	"light shower sleet": "약한 진눈깨비",
	"shower sleet":       "진눈깨비",
	"light shower snow":  "약한 눈",
	"shower snow":        "눈",
	"heavy shower snow":  "폭설",

	"mist":             "안개",
	"smoke":            "연무",
	"haze":             "연무",
	"sand/dust whirls": "황사",
	"fog":              "안개",
	"sand":             "황사",
	"dust":             "황사",

	"thunderstorm with light rain":    "약한 비를 동반한 천둥번개",
	"thunderstorm with rain":          "비를 동반한 천둥번개",
	"thunderstorm with heavy rain":    "폭우를 동반한 천둥번개",
	"light thunderstorm":              "약한 천둥번개",
	"thunderstorm":                    "천둥번개",
	"heavy thunderstorm":              "강한 천둥번개",
	"ragged thunderstorm":             "천둥번개",
	"thunderstorm with light drizzle": "약한 이슬비를 동반한 천둥번개",
	"thunderstorm with drizzle":       "이슬비를 동반한 천둥번개",
	"thunderstorm with heavy drizzle": "강한 이슬비를 동반한 천둥번개",

	"light intensity drizzle":       "약한 이슬비",
	"drizzle":                       "이슬비",
	"heavy intensity drizzle":       "강한 이슬비",
	"light intensity drizzle rain":  "약한 이슬비",
	"drizzle rain":                  "이슬비",
	"heavy intensity drizzle rain":  "강한 이슬비",
	"shower rain and drizzle":       "소나기와 이슬비",
	"heavy shower rain and drizzle": "강한 소나기와 이슬비",
	"shower drizzle":                "이슬비",
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type seededCity struct {
	name   string
	coords Coordinates
}

// seededCities are known without geocoding, in lookup order.
var seededCities = []seededCity{
	{"서울", Coordinates{37.5665, 126.9780}},
	{"부산", Coordinates{35.1796, 129.0756}},
	{"인천", Coordinates{37.4563, 126.7052}},
	{"대구", Coordinates{35.8714, 128.6014}},
	{"대전", Coordinates{36.3504, 127.3845}},
	{"광주", Coordinates{35.1595, 126.8526}},
	{"울산", Coordinates{35.5384, 129.3114}},
	{"세종", Coordinates{36.4800, 127.2890}},
	{"제주", Coordinates{33.4996, 126.5312}},
	{"수원", Coordinates{37.2636, 127.0286}},
	{"성남", Coordinates{37.4449, 127.1388}},
	{"안양", Coordinates{37.3941, 126.9570}},
	{"고양", Coordinates{37.6559, 126.8351}},
	{"용인", Coordinates{37.2344, 127.2011}},
	{"청주", Coordinates{36.6424, 127.4890}},
	{"천안", Coordinates{36.8151, 127.1135}},
	{"전주", Coordinates{35.8242, 127.1480}},
	{"포항", Coordinates{36.0199, 129.3415}},
	{"창원", Coordinates{35.2540, 128.6395}},
	{"김해", Coordinates{35.2282, 128.8812}},
	{"평택", Coordinates{36.9920, 127.0887}},
	{"강릉", Coordinates{37.7556, 128.8961}},
	{"거제", Coordinates{34.8806, 128.6211}},
	{"양산", Coordinates{35.3350, 129.0378}},
}

// hereAliases all mean "the default city".
var hereAliases = map[string]bool{
	"여기":    true,
	"이곳":    true,
	"우리 동네": true,
	"우리동네":  true,
}

var nameAliases = map[string]string{
	"제주도":     "제주",
	"제주특별자치도": "제주",
}

// adminSuffixes are stripped when the remaining stem is a seeded city.
var adminSuffixes = []string{"특별자치시", "특별자치도", "특별시", "광역시"}

// regionKeywords is the ranked list scanned for a location in free text.
// The first entry (in this order) contained in the message wins.
var regionKeywords = []string{
	"서울", "부산", "인천", "대구", "광주", "대전", "울산", "세종",
	"서울특별시", "부산광역시", "인천광역시", "대구광역시", "광주광역시", "대전광역시", "울산광역시", "세종특별자치시",

	"경기", "강원", "충북", "충남", "전북", "전남", "경북", "경남", "제주",
	"경기도", "강원도", "충청북도", "충청남도", "전라북도", "전라남도", "경상북도", "경상남도", "제주도", "제주특별자치도",

	"수원", "성남", "안양", "안산", "고양", "용인", "청주", "천안", "전주", "포항", "창원",
	"김해", "평택", "강릉", "원주", "춘천", "속초", "여수", "순천", "목포", "경주", "구미",
	"거제", "양산", "진주", "파주", "의정부", "남양주", "화성", "시흥", "광명", "하남", "군포",
	"오산", "이천", "안성", "김포", "구리", "여주", "양주", "동두천", "과천",
	"의왕", "포천", "양평", "동해", "태백", "삼척", "정선", "홍천", "횡성", "영월", "평창",
	"정읍", "남원", "김제", "익산", "완주", "진안", "무주", "장수", "임실", "순창", "고창", "부안",
	"나주", "광양", "담양", "곡성", "구례", "고흥", "보성", "화순", "장흥", "강진", "해남",
	"영암", "무안", "함평", "영광", "장성", "완도", "진도", "신안",
	"영덕", "울진", "문경", "예천", "안동", "영양", "영주", "봉화", "울릉", "의성", "청송", "영천",
	"경산", "청도", "고령", "성주", "칠곡", "김천", "군위", "사천", "밀양", "의령", "함안",
	"창녕", "고성", "남해", "하동", "산청", "함양", "거창", "합천", "통영",
}

// RegionKeywords returns a copy of the ranked region list.
func RegionKeywords() []string {
	out := make([]string, len(regionKeywords))
	copy(out, regionKeywords)
	return out
}

// FindRegion returns the first ranked region contained in text.
func FindRegion(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lowered := strings.ToLower(text)
	for _, r := range regionKeywords {
		if strings.Contains(lowered, r) {
			return r, true
		}
	}
	return "", false
}
