package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kcz17/normcdf/config"
	"github.com/kcz17/normcdf/logging"
	"github.com/kcz17/normcdf/queue"
	"github.com/kcz17/normcdf/serving"
	"github.com/kcz17/normcdf/timing"
)

func main() {
	conf := config.ReadConfig()

	var influx logging.InfluxDBOptions
	if conf.Logging.InfluxDB != nil {
		influx = logging.InfluxDBOptions{
			Host:   conf.Logging.InfluxDB.Host,
			Token:  conf.Logging.InfluxDB.Token,
			Org:    conf.Logging.InfluxDB.Org,
			Bucket: conf.Logging.InfluxDB.Bucket,
		}
	}
	logger, err := logging.New(conf.Logging.Driver, influx)
	if err != nil {
		log.Fatalf("expected logging.New() returns nil err; got err = %v", err)
	}
	defer logger.Close()

	switch conf.Mode {
	case config.ModeDemo:
		if err := runDemo(conf, logger, os.Stdout); err != nil {
			log.Fatalf("demo failed: err = %v", err)
		}
	case config.ModeServe:
		api := &serving.APIServer{
			Logger:    logger,
			Collector: timing.NewTachymeterCollector(conf.API.TimingWindow),
			Workers:   conf.API.Workers,
		}
		log.Printf("serving CDF API on %s\n", conf.API.Addr)
		if err := api.ListenAndServe(conf.API.Addr); err != nil {
			log.Fatalf("fasthttp: server error: %v", err)
		}
	case config.ModeWorker:
		runWorker(conf, logger)
	default:
		log.Fatalf("expected mode one of {demo|serve|worker}; got %s", conf.Mode)
	}
}

func runWorker(conf *config.Config, logger logging.Logger) {
	worker, err := queue.NewWorker(&queue.Options{
		RedisAddr:     conf.Queue.Redis.Addr,
		RedisPassword: conf.Queue.Redis.Password,
		RedisDB:       conf.Queue.Redis.DB,
		JobsQueue:     conf.Queue.Jobs,
		ResultsQueue:  conf.Queue.Results,
		Prefetch:      conf.Queue.Prefetch,
		PollDuration:  time.Duration(conf.Queue.PollMillis) * time.Millisecond,
		Workers:       conf.Queue.Workers,
	}, logger, timing.NewTachymeterCollector(conf.API.TimingWindow))
	if err != nil {
		log.Fatalf("expected queue.NewWorker() returns nil err; got err = %v", err)
	}
	if err := worker.Start(); err != nil {
		log.Fatalf("expected worker.Start() returns nil err; got err = %v", err)
	}
	log.Printf("consuming jobs from %s, publishing results to %s\n", conf.Queue.Jobs, conf.Queue.Results)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	log.Printf("stopping worker\n")
	worker.Stop()
}
