package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	ws "github.com/coder/websocket"
)

// OriginPatterns converts allowed origins such as "http://localhost:3000"
// into the host patterns the upgrader matches against.
func OriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}

// Handler upgrades the request and runs it as a hub client. Same-host
// requests are always accepted; other origins must match allowedOrigins.
func Handler(hub *Hub, allowedOrigins []string, logger *slog.Logger) http.HandlerFunc {
	patterns := OriginPatterns(allowedOrigins)
	return func(w http.ResponseWriter, r *http.Request) {
		// The server's read/write timeouts would otherwise cut long-lived connections.
		rc := http.NewResponseController(w)
		_ = rc.SetReadDeadline(time.Time{})
		_ = rc.SetWriteDeadline(time.Time{})

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{OriginPatterns: patterns})
		if err != nil {
			logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.CloseNow()

		NewClient(hub, conn).Run(r.Context())
		conn.Close(ws.StatusNormalClosure, "")
	}
}
