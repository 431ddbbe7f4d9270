// internal/workers/analysis/remote-analyzer/config.go
package remoteanalyzer

import "time"

type Config struct {
	Timeout time.Duration
	// Regions is scanned in order when the model returns no location.
	Regions []string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Regions: DefaultRegions(),
	}
}

// DefaultRegions is the ranked region list for the location backstop.
func DefaultRegions() []string {
	return []string{
		"서울", "부산", "인천", "대구", "광주", "대전", "울산", "세종",
		"경기", "강원", "충북", "충남", "전북", "전남", "경북", "경남", "제주",
		"수원", "성남", "안양", "안산", "고양", "용인", "청주", "천안", "전주",
		"포항", "창원",
	}
}
