// internal/common/weather/service.go
package weather

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/httpclient"
	"lasa-chatbot/internal/common/logger"
	"lasa-chatbot/internal/common/metrics"
)

const (
	// UnknownCondition is returned for descriptions missing from the code table.
	UnknownCondition = "알 수 없음"
	// FailedCondition is returned when the lookup itself failed.
	FailedCondition = "알 수 없음 (오류 발생)"

	// TestAPIKey behaves like an empty key: mock mode, no network.
	TestAPIKey = "dummy-api-key-for-tests"

	fallbackCity = "서울"
)

// Provider answers current-weather questions. Implementations never fail:
// they substitute a default city for unknown locations and return
// FailedCondition / 0 when the lookup fails.
type Provider interface {
	Condition(ctx context.Context, location string) string
	TemperatureC(ctx context.Context, location string) int
	Cities() []string
}

// Config wires the OpenWeatherMap service.
type Config struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	DefaultCity string
	Location    *time.Location
	// Now drives mock mode; defaults to time.Now.
	Now   func() time.Time
	Cache *CoordinateCache
}

// Service is the OpenWeatherMap-backed Provider. Without a real API key it
// runs in mock mode and answers from the clock.
type Service struct {
	apiKey      string
	baseURL     string
	defaultCity string
	loc         *time.Location
	now         func() time.Time
	http        *httpclient.Client
	cache       *CoordinateCache
	log         logger.Logger
}

func NewService(cfg Config, log logger.Logger) *Service {
	s := &Service{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		defaultCity: cfg.DefaultCity,
		loc:         cfg.Location,
		now:         cfg.Now,
		http:        httpclient.NewClient(cfg.Timeout),
		cache:       cfg.Cache,
		log:         logger.Component(log, "weather"),
	}
	if s.baseURL == "" {
		s.baseURL = "https://api.openweathermap.org"
	}
	if s.defaultCity == "" {
		s.defaultCity = fallbackCity
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.cache == nil {
		s.cache = NewCoordinateCache(nil, 0, log)
	}

	if s.MockMode() {
		s.log.Warn("OpenWeatherMap API key not set, running in mock mode", nil)
	} else {
		s.log.Info("OpenWeatherMap API key configured", map[string]interface{}{"apiKey": maskAPIKey(s.apiKey)})
	}
	return s
}

// MockMode reports whether lookups are answered without calling the API.
func (s *Service) MockMode() bool {
	return s.apiKey == "" || s.apiKey == TestAPIKey
}

// Cities lists the seeded city names in lookup order.
func (s *Service) Cities() []string {
	out := make([]string, len(seededCities))
	for i, c := range seededCities {
		out[i] = c.name
	}
	return out
}

func (s *Service) Condition(ctx context.Context, location string) string {
	if s.MockMode() {
		return mockCondition(s.now().In(s.loc))
	}

	coords := s.coordinates(ctx, location)
	var resp struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := s.http.GetJSON(ctx, s.weatherURL(coords, "lang", "en"), nil, &resp); err != nil {
		s.fail("Weather lookup failed", location, apperrors.NewWeatherUnavailableError(err))
		return FailedCondition
	}
	if len(resp.Weather) == 0 {
		s.fail("Weather lookup failed", location, apperrors.NewWeatherUnavailableError(fmt.Errorf("response has no weather entries")))
		return FailedCondition
	}

	description := strings.ToLower(resp.Weather[0].Description)
	if korean, ok := descriptionToKorean[description]; ok {
		return korean
	}
	s.log.Debug("Unmapped weather description", map[string]interface{}{"description": description})
	return UnknownCondition
}

func (s *Service) TemperatureC(ctx context.Context, location string) int {
	if s.MockMode() {
		return mockTemperature(s.now().In(s.loc))
	}

	coords := s.coordinates(ctx, location)
	var resp struct {
		Main *struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := s.http.GetJSON(ctx, s.weatherURL(coords, "units", "metric"), nil, &resp); err != nil {
		s.fail("Temperature lookup failed", location, apperrors.NewWeatherUnavailableError(err))
		return 0
	}
	if resp.Main == nil {
		s.fail("Temperature lookup failed", location, apperrors.NewWeatherUnavailableError(fmt.Errorf("response has no main section")))
		return 0
	}
	return int(resp.Main.Temp)
}

// CanonicalName resolves aliases and prefixes to the name used for lookups.
func (s *Service) CanonicalName(location string) string {
	name := strings.TrimSpace(location)
	if i := strings.Index(name, ","); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if name == "" || hereAliases[name] {
		return s.defaultCity
	}
	if alias, ok := nameAliases[name]; ok {
		return alias
	}
	for _, suffix := range adminSuffixes {
		if stem := strings.TrimSuffix(name, suffix); stem != name && isSeeded(stem) {
			return stem
		}
	}

	if !hasAdminUnitSuffix(name) {
		if expanded, ok := s.cache.ExpandPrefix(name); ok {
			return expanded
		}
	}
	return name
}

func (s *Service) coordinates(ctx context.Context, location string) Coordinates {
	name := s.CanonicalName(location)
	if coords, ok := s.cache.Get(ctx, name); ok {
		return coords
	}

	coords, err := s.geocode(ctx, name)
	if err != nil {
		s.fail("Geocoding failed, using default city", name, err)
		return s.defaultCoordinates(ctx)
	}
	s.cache.Put(ctx, name, coords)
	return coords
}

func (s *Service) geocode(ctx context.Context, name string) (Coordinates, error) {
	q := url.Values{}
	q.Set("q", name+",KR")
	q.Set("limit", "1")
	q.Set("appid", s.apiKey)

	var results []Coordinates
	if err := s.http.GetJSON(ctx, s.baseURL+"/geo/1.0/direct?"+q.Encode(), nil, &results); err != nil {
		return Coordinates{}, apperrors.NewGeocodingError(name, err)
	}
	if len(results) == 0 {
		return Coordinates{}, apperrors.NewGeocodingError(name, fmt.Errorf("no match"))
	}
	return results[0], nil
}

func (s *Service) defaultCoordinates(ctx context.Context) Coordinates {
	if coords, ok := s.cache.Get(ctx, s.defaultCity); ok {
		return coords
	}
	return seededCities[0].coords
}

func (s *Service) weatherURL(c Coordinates, key, value string) string {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", c.Lat))
	q.Set("lon", fmt.Sprintf("%g", c.Lon))
	q.Set("appid", s.apiKey)
	q.Set(key, value)
	return s.baseURL + "/data/2.5/weather?" + q.Encode()
}

func (s *Service) fail(msg, location string, err error) {
	code := apperrors.CodeOf(err)
	metrics.CollaboratorErrors.WithLabelValues("weather", string(code)).Inc()
	s.log.Error(msg, map[string]interface{}{
		"location":  location,
		"errorCode": code,
		"error":     err.Error(),
	})
}

func mockCondition(now time.Time) string {
	switch h := now.Hour(); {
	case h >= 6 && h < 12:
		return "맑음"
	case h >= 12 && h < 18:
		return "구름많음"
	case h >= 18 && h < 21:
		return "흐림"
	default:
		return "맑음"
	}
}

func mockTemperature(now time.Time) int {
	afternoon := now.Hour() > 12
	switch m := now.Month(); {
	case m >= time.March && m <= time.May:
		if afternoon {
			return 20
		}
		return 15
	case m >= time.June && m <= time.August:
		if afternoon {
			return 30
		}
		return 25
	case m >= time.September && m <= time.November:
		if afternoon {
			return 18
		}
		return 13
	default:
		if afternoon {
			return 5
		}
		return -3
	}
}

func hasAdminUnitSuffix(name string) bool {
	for _, suffix := range []string{"시", "도", "군", "구"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func isSeeded(name string) bool {
	for _, c := range seededCities {
		if c.name == name {
			return true
		}
	}
	return false
}

func maskAPIKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
