package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode    string `mapstructure:"mode"`
	Catalog struct {
		CitiesPath string `mapstructure:"citiesPath"`
		PlacesPath string `mapstructure:"placesPath"`
	} `mapstructure:"catalog"`
	Recommendation struct {
		WalkMaxKm            float64 `mapstructure:"walkMaxKm"`
		WalkOrRideMaxKm      float64 `mapstructure:"walkOrRideMaxKm"`
		ModerateRideMaxKm    float64 `mapstructure:"moderateRideMaxKm"`
		WalkSpeedKmh         float64 `mapstructure:"walkSpeedKmh"`
		ModerateRideSpeedKmh float64 `mapstructure:"moderateRideSpeedKmh"`
		LongRideSpeedKmh     float64 `mapstructure:"longRideSpeedKmh"`
		RushHourMultiplier   float64 `mapstructure:"rushHourMultiplier"`
		FareLowPerKm         float64 `mapstructure:"fareLowPerKm"`
		FareHighPerKm        float64 `mapstructure:"fareHighPerKm"`
		MinWalkMinutes       int     `mapstructure:"minWalkMinutes"`
	} `mapstructure:"recommendation"`
	Classifier struct {
		NightStartHour     int `mapstructure:"nightStartHour"`
		NightEndHour       int `mapstructure:"nightEndHour"`
		HotStartHour       int `mapstructure:"hotStartHour"`
		HotEndHour         int `mapstructure:"hotEndHour"`
		MorningRushStart   int `mapstructure:"morningRushStart"`
		MorningRushEnd     int `mapstructure:"morningRushEnd"`
		EveningRushStart   int `mapstructure:"eveningRushStart"`
		EveningRushEnd     int `mapstructure:"eveningRushEnd"`
		PreSabbathFriHour  int `mapstructure:"preSabbathFriHour"`
		SabbathEndsSatHour int `mapstructure:"sabbathEndsSatHour"`
	} `mapstructure:"classifier"`
	Geocoder struct {
		Enabled            bool          `mapstructure:"enabled"`
		BaseURL            string        `mapstructure:"baseURL"`
		UserAgent          string        `mapstructure:"userAgent"`
		MinRequestInterval time.Duration `mapstructure:"minRequestInterval"`
	} `mapstructure:"geocoder"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"MetricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
