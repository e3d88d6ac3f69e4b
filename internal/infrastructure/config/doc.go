// Package config handles loading and validating Smart City Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of struct tags via go-playground/validator
//   - Default value handling
//
// Every export sink (MQTT, InfluxDB, Kafka, the SQLite journal) is
// disabled by default. A run without any config file uses Default().
//
// Usage:
//
//	cfg, err := config.LoadOrDefault("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Name)
package config
