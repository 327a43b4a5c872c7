package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Modes the binary can run in.
const (
	ModeDemo   = "demo"
	ModeServe  = "serve"
	ModeWorker = "worker"
)

type Config struct {
	Mode         string       `mapstructure:"mode" validate:"oneof=demo serve worker"`
	Distribution Distribution `mapstructure:"distribution" validate:"required"`
	Demo         Demo         `mapstructure:"demo" validate:"required"`
	Logging      Logging      `mapstructure:"logging" validate:"required"`
	API          API          `mapstructure:"api" validate:"required"`
	Queue        Queue        `mapstructure:"queue" validate:"required"`
}

// Distribution holds the default parameters used by the demonstration.
type Distribution struct {
	Mu    float64 `mapstructure:"mu"`
	Sigma float64 `mapstructure:"sigma" validate:"gt=0"`
}

type Demo struct {
	Samples int    `mapstructure:"samples" validate:"min=1"`
	Seed    uint64 `mapstructure:"seed"`
	// Workers selects the parallel evaluator when non-zero; negative values
	// use GOMAXPROCS.
	Workers      int    `mapstructure:"workers"`
	Repetitions  int    `mapstructure:"repetitions" validate:"min=1"`
	PlotPath     string `mapstructure:"plotPath"`
	KSPercentile string `mapstructure:"ksPercentile" validate:"oneof=p90 p95 p97.5 p99 p99.5 p99.9"`
}

type Logging struct {
	Driver   string    `mapstructure:"driver" validate:"oneof=noop stdout influxdb"`
	InfluxDB *InfluxDB `mapstructure:"influxdb" validate:"required_if=Driver influxdb"`
}

type InfluxDB struct {
	Host   string `mapstructure:"host" validate:"required"`
	Token  string `mapstructure:"token" validate:"required"`
	Org    string `mapstructure:"org" validate:"required"`
	Bucket string `mapstructure:"bucket" validate:"required"`
}

type API struct {
	Addr         string `mapstructure:"addr" validate:"required"`
	TimingWindow int    `mapstructure:"timingWindow" validate:"min=1"`
	// Workers is passed to normal.ParallelCDFArray for batch requests.
	Workers int `mapstructure:"workers"`
}

type Queue struct {
	Redis      Redis  `mapstructure:"redis" validate:"required"`
	Jobs       string `mapstructure:"jobs" validate:"required"`
	Results    string `mapstructure:"results" validate:"required"`
	Prefetch   int64  `mapstructure:"prefetch" validate:"min=1"`
	PollMillis int    `mapstructure:"pollMillis" validate:"min=1"`
	Workers    int    `mapstructure:"workers"`
}

type Redis struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("Mode", ModeDemo)

	v.SetDefault("Distribution.Mu", 0)
	v.SetDefault("Distribution.Sigma", 1)

	v.SetDefault("Demo.Samples", 10)
	v.SetDefault("Demo.Seed", 516)
	v.SetDefault("Demo.Workers", 0)
	v.SetDefault("Demo.Repetitions", 100)
	v.SetDefault("Demo.PlotPath", "")
	v.SetDefault("Demo.KSPercentile", "p95")

	v.SetDefault("Logging.Driver", "stdout")

	v.SetDefault("API.Addr", ":8080")
	v.SetDefault("API.TimingWindow", 100)
	v.SetDefault("API.Workers", 0)

	v.SetDefault("Queue.Redis.Addr", "localhost:6379")
	v.SetDefault("Queue.Redis.DB", 0)
	v.SetDefault("Queue.Jobs", "cdf_jobs")
	v.SetDefault("Queue.Results", "cdf_results")
	v.SetDefault("Queue.Prefetch", 10)
	v.SetDefault("Queue.PollMillis", 100)
	v.SetDefault("Queue.Workers", 0)
}

// Parse unmarshals and validates the configuration held by v.
func Parse(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error occured while reading configuration: err = %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ReadConfig reads config.yaml from the working directory or /app, with
// environment variables (e.g. DEMO_SAMPLES) taking precedence. A missing
// file is not an error. Invalid configuration terminates the process.
func ReadConfig() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("config.yaml not found; using defaults and environment")
		} else {
			log.Fatalf("error when reading config file: err = %s", err)
		}
	}

	config, err := Parse(v)
	if err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			log.Printf("encountered validation errors:\n")
			for _, err := range validationErrs {
				fmt.Printf("\t%s\n", err.Error())
			}
			fmt.Println("Check your configuration file and try again.")
			os.Exit(1)
		}
		log.Fatalf("unable to validate config: err = %s", err)
	}

	return config
}
