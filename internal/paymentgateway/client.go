package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/cigarcraft/cigar-commerce/internal"
	gatewaytypes "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/paymentgateway"
)

// sessionResult is the outcome of one hosted-session request. Exactly one of
// response or err is set.
type sessionResult struct {
	response *gatewaytypes.TransactionResponse
	err      error
}

// SessionJob carries one hosted-session request through the worker pool. The
// result channel is buffered and resolved at most once, so a worker finishing
// after the caller gave up never blocks.
type SessionJob struct {
	Request *gatewaytypes.TransactionRequest
	ctx     context.Context
	result  chan sessionResult
	once    sync.Once
}

func newSessionJob(ctx context.Context, req *gatewaytypes.TransactionRequest) *SessionJob {
	return &SessionJob{
		Request: req,
		ctx:     ctx,
		result:  make(chan sessionResult, 1),
	}
}

// resolve delivers the outcome exactly once. Later calls are dropped.
func (j *SessionJob) resolve(resp *gatewaytypes.TransactionResponse, err error) {
	j.once.Do(func() {
		j.result <- sessionResult{response: resp, err: err}
	})
}

type Worker struct {
	ID         int
	WorkerPool chan chan *SessionJob
	JobChannel chan *SessionJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan *SessionJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan *SessionJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(*SessionJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing session job", "worker_id", w.ID, "invoice", job.Request.Invoice)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client talks to the hosted-checkout gateway. Session requests run through a
// worker pool so a slow gateway degrades into queueing instead of unbounded
// goroutine growth; each caller still waits synchronously with a bounded
// timeout.
type Client struct {
	apiURL         string
	merchantName   string
	transactionKey string
	requestTimeout time.Duration
	httpClient     *http.Client
	logger         *slog.Logger

	jobQueue   chan *SessionJob
	workerPool chan chan *SessionJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	APIURL         string
	MerchantName   string
	TransactionKey string
	RequestTimeout time.Duration
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

func NewClient(config Config, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	requestTimeout := config.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	client := &Client{
		apiURL:         config.APIURL,
		merchantName:   config.MerchantName,
		transactionKey: config.TransactionKey,
		requestTimeout: requestTimeout,
		httpClient:     &http.Client{Timeout: requestTimeout},
		logger:         logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan *SessionJob, jobQueueSize),
		workerPool: make(chan chan *SessionJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {

		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processSessionJob)
		}

		go c.dispatch()

		c.logger.Info("payment gateway worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	c.wg.Add(1)
	defer c.wg.Done()

	for {
		select {
		case job := <-c.jobQueue:

			select {
			case jobChannel := <-c.workerPool:

				select {
				case jobChannel <- job:

				case <-c.ctx.Done():
					c.logger.Info("dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down payment gateway client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("payment gateway client shutdown complete")
}

// CreateHostedSession requests a one-time checkout token from the gateway.
// The request is credentialed and dispatched to the worker pool; the caller
// blocks until the gateway answers, the context is cancelled, or the request
// timeout elapses. A timeout surfaces as a gateway timeout error, never as a
// half-resolved session.
func (c *Client) CreateHostedSession(ctx context.Context, req *gatewaytypes.TransactionRequest) (*gatewaytypes.TransactionResponse, error) {
	req.Merchant = gatewaytypes.MerchantAuthentication{
		Name:           c.merchantName,
		TransactionKey: c.transactionKey,
	}

	if err := req.Validate(); err != nil {
		c.logger.Error("transaction request validation failed", "error", err, "invoice", req.Invoice)
		return nil, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeValidationFailed)
	}

	c.logger.Info("requesting hosted checkout session",
		"invoice", req.Invoice,
		"amount", req.Amount)

	job := newSessionJob(ctx, req)

	select {
	case c.jobQueue <- job:
	default:
		c.logger.Warn("gateway job queue full, rejecting session request",
			"invoice", req.Invoice,
			"queue_capacity", cap(c.jobQueue))
		return nil, apperrors.NewGatewayError("payment gateway is busy, please try again later")
	}

	timer := time.NewTimer(c.requestTimeout)
	defer timer.Stop()

	select {
	case res := <-job.result:
		return res.response, res.err
	case <-ctx.Done():
		job.resolve(nil, apperrors.NewGatewayTimeoutError("checkout session request cancelled", ctx.Err()))
		res := <-job.result
		return res.response, res.err
	case <-timer.C:
		job.resolve(nil, apperrors.NewGatewayTimeoutError("payment gateway did not respond in time", nil))
		res := <-job.result
		return res.response, res.err
	}
}

func (c *Client) processSessionJob(job *SessionJob) {
	resp, err := c.requestTransactionToken(job.ctx, job.Request)
	job.resolve(resp, err)
}

func (c *Client) requestTransactionToken(ctx context.Context, req *gatewaytypes.TransactionRequest) (*gatewaytypes.TransactionResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction request: %w", err)
	}

	reqCtx, cancel := apperrors.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if reqCtx.Err() != nil {
			c.logger.Error("gateway request timed out", "invoice", req.Invoice, "error", err)
			return nil, apperrors.NewGatewayTimeoutError("payment gateway did not respond in time", err)
		}
		c.logger.Error("gateway request failed", "invoice", req.Invoice, "error", err)
		return nil, apperrors.NewGatewayError("payment gateway is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("gateway returned unexpected status",
			"invoice", req.Invoice,
			"status_code", resp.StatusCode)
		return nil, apperrors.NewGatewayError(fmt.Sprintf("payment gateway returned status %d", resp.StatusCode))
	}

	var txnResp gatewaytypes.TransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&txnResp); err != nil {
		c.logger.Error("failed to decode gateway response", "invoice", req.Invoice, "error", err)
		return nil, apperrors.NewGatewayError("payment gateway returned an unreadable response")
	}

	c.logger.Info("gateway responded",
		"invoice", req.Invoice,
		"result_code", txnResp.ResultCode)

	return &txnResp, nil
}
