// Package queue evaluates batch CDF jobs delivered through a Redis-backed
// rmq queue.
package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/adjust/rmq/v3"
	"github.com/go-redis/redis/v7"
	"github.com/kcz17/normcdf/logging"
	"github.com/kcz17/normcdf/normal"
	"github.com/kcz17/normcdf/timing"
)

// Job is a batch evaluation request.
type Job struct {
	ID    string    `json:"id"`
	Mu    float64   `json:"mu"`
	Sigma float64   `json:"sigma"`
	Input []float64 `json:"input"`
}

// Result carries either the output buffer of a Job or the reason it failed.
// Output is null when Error is set.
type Result struct {
	ID     string    `json:"id"`
	Output []float64 `json:"output"`
	Error  string    `json:"error,omitempty"`
}

// Publisher is the subset of rmq.Queue used to emit results.
type Publisher interface {
	PublishBytes(payload ...[]byte) error
}

// BatchConsumer implements rmq.Consumer.
type BatchConsumer struct {
	results   Publisher
	logger    logging.Logger
	collector timing.Collector
	workers   int
}

func NewBatchConsumer(results Publisher, logger logging.Logger, collector timing.Collector, workers int) *BatchConsumer {
	return &BatchConsumer{
		results:   results,
		logger:    logger,
		collector: collector,
		workers:   workers,
	}
}

// Consume evaluates one job. Undecodable payloads are rejected. Jobs that
// decode but fail validation are acked with an error result, since
// redelivering them cannot succeed.
func (c *BatchConsumer) Consume(delivery rmq.Delivery) {
	var job Job
	if err := json.Unmarshal([]byte(delivery.Payload()), &job); err != nil {
		log.Printf("queue: rejecting undecodable job: %v\n", err)
		if err := delivery.Reject(); err != nil {
			log.Printf("queue: could not reject delivery: %v\n", err)
		}
		return
	}

	result := c.evaluate(&job)
	payload, err := json.Marshal(result)
	if err != nil {
		panic(fmt.Errorf("unexpected err in BatchConsumer.Consume() while marshalling result: %w", err))
	}
	if err := c.results.PublishBytes(payload); err != nil {
		// Leave the delivery unacked so rmq returns it to the queue once the
		// connection is cleaned up.
		log.Printf("queue: could not publish result for job %s: %v\n", job.ID, err)
		return
	}
	if err := delivery.Ack(); err != nil {
		log.Printf("queue: could not ack job %s: %v\n", job.ID, err)
	}
}

func (c *BatchConsumer) evaluate(job *Job) *Result {
	output := make([]float64, len(job.Input))
	startTime := time.Now()
	if err := normal.ParallelCDFArray(c.workers, job.Mu, job.Sigma, job.Input, output); err != nil {
		return &Result{ID: job.ID, Error: err.Error()}
	}
	elapsed := time.Now().Sub(startTime)
	c.collector.Add(elapsed)
	c.logger.LogEvaluation(job.Mu, job.Sigma, len(job.Input), elapsed)
	return &Result{ID: job.ID, Output: output}
}

// Options configures a Worker.
type Options struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JobsQueue     string
	ResultsQueue  string
	Prefetch      int64
	PollDuration  time.Duration
	Workers       int
}

// Worker owns the rmq connection and consumes jobs until stopped.
type Worker struct {
	connection rmq.Connection
	jobs       rmq.Queue
	results    rmq.Queue
	consumer   *BatchConsumer
	options    *Options
}

func NewWorker(options *Options, logger logging.Logger, collector timing.Collector) (*Worker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     options.RedisAddr,
		Password: options.RedisPassword,
		DB:       options.RedisDB,
	})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("NewWorker() could not reach redis at %s: %w", options.RedisAddr, err)
	}

	// Create a goroutine for reading and logging async connection errors.
	errorsCh := make(chan error, 10)
	go func() {
		for err := range errorsCh {
			log.Printf("rmq connection error: %v\n", err)
		}
	}()

	connection, err := rmq.OpenConnectionWithRedisClient("normcdf", client, errorsCh)
	if err != nil {
		close(errorsCh)
		_ = client.Close()
		return nil, fmt.Errorf("NewWorker() could not open rmq connection: %w", err)
	}

	// errorsCh stays open once the connection exists as its heartbeat may
	// still report on it.
	closeConnection := func() {
		<-connection.StopAllConsuming()
		_ = client.Close()
	}
	jobs, err := connection.OpenQueue(options.JobsQueue)
	if err != nil {
		closeConnection()
		return nil, fmt.Errorf("NewWorker() could not open queue %s: %w", options.JobsQueue, err)
	}
	results, err := connection.OpenQueue(options.ResultsQueue)
	if err != nil {
		closeConnection()
		return nil, fmt.Errorf("NewWorker() could not open queue %s: %w", options.ResultsQueue, err)
	}

	return &Worker{
		connection: connection,
		jobs:       jobs,
		results:    results,
		consumer:   NewBatchConsumer(results, logger, collector, options.Workers),
		options:    options,
	}, nil
}

// Start begins consuming jobs in background goroutines managed by rmq.
func (w *Worker) Start() error {
	if err := w.jobs.StartConsuming(w.options.Prefetch, w.options.PollDuration); err != nil {
		return fmt.Errorf("Worker.Start() could not start consuming: %w", err)
	}
	if _, err := w.jobs.AddConsumer("normcdf-batch", w.consumer); err != nil {
		return fmt.Errorf("Worker.Start() could not add consumer: %w", err)
	}
	return nil
}

// Stop waits for in-flight deliveries to finish.
func (w *Worker) Stop() {
	<-w.connection.StopAllConsuming()
}
