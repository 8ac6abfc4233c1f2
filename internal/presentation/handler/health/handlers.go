package health

import (
	"context"
	"net/http"
	"time"

	"github.com/murmurchat/murmur/internal/infrastructure/json"
)

var startTime = time.Now()

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnChecker reports whether a broker connection is live.
type ConnChecker interface {
	IsConnected() bool
}

type Handler struct {
	db     Pinger
	broker ConnChecker
}

func NewHandler(db Pinger, broker ConnChecker) *Handler {
	return &Handler{db: db, broker: broker}
}

// GetHealth reports service status. The database is required for a healthy
// verdict, the broker is best effort and only reflected in the services map.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{}
	status := "ok"
	code := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			services["database"] = "unreachable"
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		} else {
			services["database"] = "ok"
		}
	}

	if h.broker != nil {
		if h.broker.IsConnected() {
			services["rabbitmq"] = "ok"
		} else {
			services["rabbitmq"] = "disconnected"
		}
	}

	json.Write(w, code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Services:  services,
	})
}
