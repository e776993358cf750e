package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/kaizenlib/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After
// parsing, non-zero values are copied into the runtime Config.
type JsonConfig struct {
	DatabaseDSN string `json:"database_dsn"`

	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	AssistEndpoint string `json:"assist_endpoint"`
	AssistAPIKey   string `json:"assist_api_key"`

	SessionFile   string `json:"session_file"`
	SessionSecret string `json:"session_secret"`

	PageSize int `json:"page_size"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; empty JSON values leave
//     the existing Config value alone.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfPresent(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setIfPresent(&cfg.S3.AccessKey, jc.S3AccessKey)
	setIfPresent(&cfg.S3.SecretKey, jc.S3SecretKey)
	setIfPresent(&cfg.S3.Bucket, jc.S3Bucket)
	setIfPresent(&cfg.S3.Region, jc.S3Region)
	setIfPresent(&cfg.S3.BaseEndpoint, jc.S3BaseEndpoint)
	setIfPresent(&cfg.AssistEndpoint, jc.AssistEndpoint)
	setIfPresent(&cfg.AssistAPIKey, jc.AssistAPIKey)
	setIfPresent(&cfg.SessionFile, jc.SessionFile)
	setIfPresent(&cfg.SessionSecret, jc.SessionSecret)
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
