// Package audit provides audit logging for request outcomes.
//
// It implements a publish-subscribe pattern: an AuditLogger publishes events to a
// source channel, a Broadcaster fans them out, and subscribers persist them to the
// logs table or to a file.
package audit

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	models "github.com/Schera-ole/empstatus/internal/model"
)

const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Outcome categories recorded for GetEmpStatus requests.
const (
	MsgCacheHit           = "cache_hit"
	MsgUserNotFound       = "user_not_found"
	MsgUserInactive       = "user_inactive"
	MsgInsufficientData   = "insufficient_salary_rows"
	MsgSuccess            = "success"
	MsgLookupFailed       = "lookup_failed"
	MsgComputationFailure = "computation_failed"
)

// AuditLogger is an interface for logging audit events.
type AuditLogger interface {
	// Log publishes an event with the given level, outcome category and context.
	Log(level, message string, context map[string]any)
}

// auditLogger is a concrete implementation of AuditLogger that sends events to a channel.
type auditLogger struct {
	eventChan chan<- models.AuditEvent
	logger    *zap.SugaredLogger
}

// NewAuditLogger creates a new AuditLogger that sends events to the provided channel.
func NewAuditLogger(eventChan chan<- models.AuditEvent, logger *zap.SugaredLogger) AuditLogger {
	return &auditLogger{
		eventChan: eventChan,
		logger:    logger,
	}
}

func (a *auditLogger) Log(level, message string, context map[string]any) {
	event := models.AuditEvent{
		ID:      uuid.NewString(),
		TS:      time.Now().UTC(),
		Level:   strings.ToUpper(level),
		Message: message,
		Context: context,
	}

	select {
	case a.eventChan <- event:
	default:
		// never block the request path
		a.logger.Warnw("audit event dropped, channel is full", "message", message)
	}
}

// Broadcaster distributes audit events to multiple subscriber channels.
//
// A subscriber whose channel is full misses the event instead of blocking the others.
// Subscriber channels are closed once source is closed.
func Broadcaster(source <-chan models.AuditEvent, logger *zap.SugaredLogger, subs ...chan<- models.AuditEvent) {
	defer func() {
		for _, subChan := range subs {
			close(subChan)
		}
	}()
	for evt := range source {
		for _, subChan := range subs {
			select {
			case subChan <- evt:
			default:
				logger.Warnw("dropped audit event for blocked subscriber", "id", evt.ID)
			}
		}
	}
}

// LogWriter persists audit events.
type LogWriter interface {
	WriteLog(ctx context.Context, event models.AuditEvent) error
}

// RepositorySubscriber writes audit events to the logs table.
func RepositorySubscriber(events <-chan models.AuditEvent, writer LogWriter, logger *zap.SugaredLogger) {
	for evt := range events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := writer.WriteLog(ctx, evt); err != nil {
			logger.Errorw("failed to persist audit event", "id", evt.ID, "error", err)
		}
		cancel()
	}
}

// FileSubscriber appends audit events to a file as JSON lines.
func FileSubscriber(events <-chan models.AuditEvent, path string, logger *zap.SugaredLogger) {
	for evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			logger.Errorw("failed to marshal audit event", "id", evt.ID, "error", err)
			continue
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logger.Errorw("failed to open audit file", "path", path, "error", err)
			continue
		}
		if _, err = f.Write(append(data, '\n')); err != nil {
			logger.Errorw("failed to write audit event", "path", path, "error", err)
		}
		f.Close()
	}
}

// Subscriber consumes events until its channel is closed.
type Subscriber func(events <-chan models.AuditEvent)

// Pipeline wires an AuditLogger to a set of subscribers.
type Pipeline struct {
	AuditLogger
	source chan models.AuditEvent
	wg     sync.WaitGroup
	once   sync.Once

	mu     sync.RWMutex
	closed bool
}

// Start launches the broadcaster and one goroutine per subscriber.
func Start(logger *zap.SugaredLogger, bufferSize int, subscribers ...Subscriber) *Pipeline {
	p := &Pipeline{source: make(chan models.AuditEvent, bufferSize)}
	p.AuditLogger = NewAuditLogger(p.source, logger)

	subs := make([]chan<- models.AuditEvent, 0, len(subscribers))
	for _, subscriber := range subscribers {
		ch := make(chan models.AuditEvent, bufferSize)
		subs = append(subs, ch)
		p.wg.Add(1)
		go func(run Subscriber) {
			defer p.wg.Done()
			run(ch)
		}(subscriber)
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		Broadcaster(p.source, logger, subs...)
	}()
	return p
}

// Log publishes the event unless the pipeline is closed, in which case it is dropped.
func (p *Pipeline) Log(level, message string, context map[string]any) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	p.AuditLogger.Log(level, message, context)
}

// Close stops accepting events and waits until subscribers have drained their queues.
// Events logged after Close are dropped.
func (p *Pipeline) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.source)
		p.mu.Unlock()
		p.wg.Wait()
	})
}
