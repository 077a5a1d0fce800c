package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"github.com/go-playground/validator/v10"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type Logger interface {
	Error(msg string, args ...any)
}

type Config struct {
	// Url of the push endpoint, e.g. https://logs.example.com/loki/api/v1/push
	Url string `validate:"required,url"`

	// BatchMaxSize is the maximum number of entries sent in one request.
	BatchMaxSize int `validate:"gte=1"`

	// BatchMaxWait is the longest an entry waits before the batch is flushed.
	BatchMaxWait time.Duration `validate:"gte=1"`

	// BufferSize bounds the queue between Push and the sender. Entries pushed
	// while the queue is full are dropped.
	BufferSize int `validate:"gte=1"`

	// Labels are attached to every stream next to the level label.
	Labels map[string]string

	// TenantID is sent as X-Scope-OrgID when set.
	TenantID string

	Username string
	Password string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchMaxSize == 0 {
		cfg.BatchMaxSize = 500
	}
	if cfg.BatchMaxWait == 0 {
		cfg.BatchMaxWait = 5 * time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 1024
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

type Entry struct {
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
	Caller    string    `json:"caller,omitempty"`
	ErrorType string    `json:"error_type,omitempty"`
	Time      time.Time `json:"-"`
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// Pusher batches entries and ships them to Loki from a single goroutine.
type Pusher struct {
	config  Config
	client  *http.Client
	logger  Logger
	entries chan Entry
	batch   []Entry
	ctx     context.Context
	cancel  context.CancelFunc
	done    sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

func New(ctx context.Context, cfg Config, logger Logger) (*Pusher, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pusher{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
		entries: make(chan Entry, cfg.BufferSize),
		batch:   make([]Entry, 0, cfg.BatchMaxSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.done.Add(1)
	go p.run()
	return p, nil
}

// Push queues an entry without blocking. It reports false when the entry was dropped.
func (p *Pusher) Push(e Entry) bool {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}

	select {
	case p.entries <- e:
		return true
	default:
		return false
	}
}

// Stop flushes what is queued and waits for the sender to exit.
func (p *Pusher) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.entries)
	p.mu.Unlock()

	p.done.Wait()
	p.cancel()
}

func (p *Pusher) run() {
	defer p.done.Done()

	ticker := time.NewTicker(p.config.BatchMaxWait)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case entry, ok := <-p.entries:
			if !ok {
				p.flush()
				return
			}
			p.batch = append(p.batch, entry)
			if len(p.batch) >= p.config.BatchMaxSize {
				p.flush()
			}
		case <-ticker.C:
			p.flush()
		}
	}
}

func (p *Pusher) flush() {
	if len(p.batch) == 0 {
		return
	}
	if err := p.send(p.buildRequest(p.batch)); err != nil {
		p.logger.Error("failed to send logs to loki", "error", err, "entries", len(p.batch))
	}
	p.batch = p.batch[:0]
}

// buildRequest groups entries into one stream per level.
func (p *Pusher) buildRequest(entries []Entry) pushRequest {
	byLevel := map[string]*stream{}
	var order []string

	for _, entry := range entries {
		s, ok := byLevel[entry.Level]
		if !ok {
			labels := make(map[string]string, len(p.config.Labels)+1)
			for k, v := range p.config.Labels {
				labels[k] = v
			}
			labels["level"] = entry.Level
			s = &stream{Stream: labels}
			byLevel[entry.Level] = s
			order = append(order, entry.Level)
		}

		line, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		s.Values = append(s.Values, [2]string{strconv.FormatInt(entry.Time.UnixNano(), 10), string(line)})
	}

	req := pushRequest{Streams: make([]stream, 0, len(order))}
	for _, level := range order {
		req.Streams = append(req.Streams, *byLevel[level])
	}
	return req
}

func (p *Pusher) send(body pushRequest) error {
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	if err := json.NewEncoder(gz).Encode(body); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(p.ctx, http.MethodPost, p.config.Url, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if p.config.TenantID != "" {
		req.Header.Set("X-Scope-OrgID", p.config.TenantID)
	}
	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected response from loki: %s, body: %s", resp.Status, string(body))
	}
	return nil
}
