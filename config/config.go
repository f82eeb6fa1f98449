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
	Mode      string `mapstructure:"mode"`
	Server    Server `mapstructure:"server"`
	Providers struct {
		OpenWeather struct {
			BaseURL string `mapstructure:"baseURL"`
			APIKey  string `mapstructure:"apiKey"`
		} `mapstructure:"openWeather"`
		OpenMeteo struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"openMeteo"`
		Gemini struct {
			APIKey string `mapstructure:"apiKey"`
			Model  string `mapstructure:"model"`
		} `mapstructure:"gemini"`
		// Prediction is the local ML prediction service. An empty baseURL
		// disables the adapter in non-local deployments.
		Prediction struct {
			BaseURL  string        `mapstructure:"baseURL"`
			Country  string        `mapstructure:"country"`
			CacheTTL time.Duration `mapstructure:"cacheTTL"`
		} `mapstructure:"prediction"`
	} `mapstructure:"providers"`
	Session struct {
		IdleTTL time.Duration `mapstructure:"idleTTL"`
	} `mapstructure:"session"`
	Metrics struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

type Server struct {
	HTTPPort string        `mapstructure:"HTTPPort"`
	Timeout  time.Duration `mapstructure:"HTTPTimeout"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Credentials always come from the environment, never from the file.
	v.SetDefault("providers.openWeather.apiKey", "")
	v.SetDefault("providers.gemini.apiKey", "")
	_ = v.BindEnv("providers.openWeather.apiKey", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("providers.gemini.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("providers.prediction.baseURL", "ML_API_BASE")

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
	return config, nil
}
