package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atnz/at-engine/src/common/types"
	"github.com/atnz/at-engine/src/common/utils"
)

const (
	// BoardsQueue is the RabbitMQ queue board views are published to.
	BoardsQueue = "boards"

	// StopsDirectoryKey is the redis key holding the cached stop directory.
	StopsDirectoryKey = "stops:directory"

	// hourRange is the lookahead window requested from the stoptrips
	// endpoint.
	hourRange = 24

	// boardTTL lets redis self-clean boards whose monitor stopped
	// publishing.
	boardTTL = 24 * time.Hour
)

// BoardKey is the redis key holding the published board view for a stop.
func BoardKey(stopID string) string {
	return "board:" + stopID
}

// TripSource is the slice of the AT API a monitor needs.
type TripSource interface {
	StopTrips(ctx context.Context, stopID string, date time.Time, startHour, hourRange int) ([]types.ScheduledTrip, error)
	TripUpdates(ctx context.Context, tripIDs []string) map[string]types.RealtimeUpdate
}

// Monitor polls one stop and owns its departure board. Monitors share no
// state with each other.
type Monitor struct {
	stop     types.Stop
	window   QuietWindow
	interval time.Duration
	maxShown int

	source  TripSource
	rdb     *redis.Client
	channel *amqp.Channel
	logger  *zap.SugaredLogger

	mu    sync.RWMutex
	board types.DepartureBoard

	// sink delivers rendered views; swapped out in tests
	sink func(ctx context.Context, body []byte)
}

func NewMonitor(stop types.Stop, window QuietWindow, interval time.Duration, maxShown int, source TripSource, rdb *redis.Client, channel *amqp.Channel) *Monitor {
	m := &Monitor{
		stop:     stop,
		window:   window,
		interval: interval,
		maxShown: maxShown,
		source:   source,
		rdb:      rdb,
		channel:  channel,
		logger:   utils.GetLogger(),
	}
	m.sink = m.deliver
	return m
}

// Board returns the current board. Ticks swap the board wholesale, so a
// reader never sees a partial update.
func (m *Monitor) Board() types.DepartureBoard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.board
}

// View renders the consumer-facing state and attributes for the current
// board.
func (m *Monitor) View(now time.Time) types.BoardView {
	board := m.Board()
	return types.BoardView{
		StopID:     m.stop.ID,
		State:      board.State(),
		Attributes: board.Attributes(m.stop, m.window.Start.String(), m.window.End.String(), m.window.Contains(now), m.maxShown),
		UpdatedAt:  board.FetchedAt,
	}
}

// Tick runs one poll cycle. Inside the quiet window no network calls are
// made and the held board is kept unchanged, but its view is republished
// so the gate state stays current. On a fetch failure the previous board
// is retained; a failed poll never blanks the sensor.
func (m *Monitor) Tick(ctx context.Context, now time.Time) {
	if m.window.Contains(now) {
		m.logger.Debugw("inside quiet window, skipping poll", "stop", m.stop.ID)
		// no upstream calls, but re-render the held board so consumers
		// see the gate state flip
		m.publish(ctx, now)
		return
	}

	trips, err := m.source.StopTrips(ctx, m.stop.ID, now, now.Hour(), hourRange)
	if err != nil {
		m.logger.Warnw("stop trips fetch failed, keeping previous board", "stop", m.stop.ID, "error", err)
		return
	}

	tripIDs := make([]string, 0, len(trips))
	for _, trip := range trips {
		tripIDs = append(tripIDs, trip.TripID)
	}

	realtime := map[string]types.RealtimeUpdate{}
	if len(tripIDs) > 0 {
		realtime = m.source.TripUpdates(ctx, tripIDs)
	}

	board := Reconcile(trips, realtime, now)

	m.mu.Lock()
	m.board = board
	m.mu.Unlock()

	m.logger.Debugw("board updated", "stop", m.stop.ID, "departures", len(board.Departures), "state", board.State())

	m.publish(ctx, now)
}

func (m *Monitor) publish(ctx context.Context, now time.Time) {
	body, err := json.Marshal(m.View(now))
	if err != nil {
		m.logger.Warnw("failed to marshal board view", "stop", m.stop.ID, "error", err)
		return
	}

	m.sink(ctx, body)
}

func (m *Monitor) deliver(ctx context.Context, body []byte) {
	if m.rdb != nil {
		if err := m.rdb.Set(ctx, BoardKey(m.stop.ID), body, boardTTL).Err(); err != nil {
			m.logger.Warnw("failed to write board to redis", "stop", m.stop.ID, "error", err)
		}
	}

	if m.channel != nil {
		err := m.channel.Publish(
			"",
			BoardsQueue,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
		if err != nil {
			m.logger.Warnw("error publishing board to RabbitMQ", "queue", BoardsQueue, "stop", m.stop.ID, "error", err)
		}
	}
}

// Run polls at the configured interval until the context is cancelled.
// The first poll happens immediately.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Tick(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(ctx, time.Now())
		}
	}
}
