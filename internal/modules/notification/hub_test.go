package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelhub/internal/domain"
	"travelhub/internal/pkg/jwt"
)

func TestHub_PushesToConnectedRecipient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("ws-secret", time.Hour, "travelhub")
	hub := NewHub(zerolog.Nop())
	h := NewHandler(nil, hub, tokens, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/ws/notifications", h.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token, err := tokens.GenerateToken(11, string(domain.RoleAgent))
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Connected(11) == 1 }, time.Second, 10*time.Millisecond)

	hub.Push(domain.Notification{ID: 5, RecipientID: 12, Title: "not for you"})
	hub.Push(domain.Notification{ID: 6, RecipientID: 11, Title: "Package approved"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventNotification, ev.Type)
	assert.Equal(t, int64(6), ev.Payload.ID)

	_ = conn.Close()
	require.Eventually(t, func() bool { return hub.Connected(11) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RejectsMissingOrBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, NewHub(zerolog.Nop()), jwt.New("s", time.Hour, "travelhub"), nil, zerolog.Nop())
	r := gin.New()
	r.GET("/ws/notifications", h.HandleWebSocket)

	for _, q := range []string{"", "?token=garbage"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/notifications"+q, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}
