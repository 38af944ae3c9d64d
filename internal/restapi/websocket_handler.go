package restapi

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"metrolive.dev/internal/appconf"
	"metrolive.dev/internal/broadcast"
	"metrolive.dev/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// checkOrigin accepts same-origin and non-browser clients, any origin outside
// production, and the configured origins in production.
func (api *RestAPI) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || api.Config.Env != appconf.Production {
		return true
	}
	return len(api.Config.AllowedOrigins) == 0 || slices.Contains(api.Config.AllowedOrigins, origin)
}

// trainsWebSocketHandler subscribes the client to fleet updates. The client
// gets a snapshot straight away and then every scheduled broadcast until it
// disconnects.
func (api *RestAPI) trainsWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	logger := logging.ForComponent(api.Logger, "websocket")

	u := upgrader
	u.CheckOrigin = api.checkOrigin
	conn, err := u.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.LogError(logger, "websocket upgrade failed", err)
		return
	}

	// The server's read timeout would otherwise end the subscription.
	_ = conn.SetReadDeadline(time.Time{})

	sub := broadcast.NewWebSocketSubscriber(conn, broadcast.DefaultWriteTimeout)
	api.Subscribers.Register(sub)
	defer logging.SafeCloseWithLogging(sub, logger, "websocket_connection")
	defer api.Subscribers.Unregister(sub)

	logger.Info("websocket connected",
		slog.String("subscriber", sub.ID()),
		slog.Int("subscribers", api.Subscribers.Count()))

	if err := sub.Send(r.Context(), api.Scheduler.Update()); err != nil {
		logging.LogError(logger, "initial update failed", err, slog.String("subscriber", sub.ID()))
		return
	}

	err = sub.Drain()
	logger.Info("websocket disconnected",
		slog.String("subscriber", sub.ID()),
		slog.String("reason", disconnectReason(err)))
}

func disconnectReason(err error) string {
	if err == nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return "closed by client"
	}
	return err.Error()
}
