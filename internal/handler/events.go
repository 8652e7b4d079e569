package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"nodepilot/internal/schema"
	"nodepilot/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// EventHub 把工作区变化推送给已连接的画布
type EventHub struct {
	mu       sync.RWMutex
	clients  map[*eventClient]struct{}
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

type eventClient struct {
	conn *websocket.Conn
	send chan service.Event
}

// NewEventHub 创建事件中心，allowedOrigins 为空时只接受同源连接
func NewEventHub(logger zerolog.Logger, allowedOrigins []string) *EventHub {
	origins := schema.Origin(allowedOrigins)
	return &EventHub{
		clients: make(map[*eventClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins.Allows(origin)
			},
		},
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Publish 非阻塞推送，客户端缓冲区满时丢弃该事件
func (h *EventHub) Publish(e service.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- e:
		default:
			h.logger.Warn().Str("event", e.Type).Str("remote", client.conn.RemoteAddr().String()).Msg("client too slow, event dropped")
		}
	}
}

// Count 当前连接数
func (h *EventHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 断开全部连接
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// Serve 升级为 websocket 并先推送 initial
func (h *EventHub) Serve(w http.ResponseWriter, r *http.Request, initial service.Event) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &eventClient{conn: conn, send: make(chan service.Event, sendBuffer)}
	client.send <- initial

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	go h.writePump(client)
	go h.readPump(client)
	return nil
}

func (h *EventHub) unregister(client *eventClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// readPump 只处理控制帧，读到错误即视为断开
func (h *EventHub) readPump(client *eventClient) {
	defer func() {
		h.unregister(client)
		client.conn.Close()
		h.logger.Debug().Str("remote", client.conn.RemoteAddr().String()).Msg("client disconnected")
	}()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventHub) writePump(client *eventClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case e, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := client.conn.WriteJSON(e); err != nil {
				h.logger.Debug().Err(err).Msg("write failed")
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// EventsHandler websocket 入口
type EventsHandler struct {
	hub             *EventHub
	workflowService *service.WorkflowService
}

// NewEventsHandler 创建事件处理器
func NewEventsHandler(hub *EventHub, workflowService *service.WorkflowService) *EventsHandler {
	return &EventsHandler{
		hub:             hub,
		workflowService: workflowService,
	}
}

// Stream 建立事件流，首条消息为当前快照
func (h *EventsHandler) Stream(c *gin.Context) {
	snap := h.workflowService.Snapshot()
	initial := service.Event{
		Type:     "workflow.snapshot",
		Valid:    len(snap.ValidationErrors) == 0,
		Errors:   snap.ValidationErrors,
		Snapshot: snap,
	}
	if err := h.hub.Serve(c.Writer, c.Request, initial); err != nil {
		// Upgrade 已写出错误响应
		h.hub.logger.Warn().Err(err).Msg("websocket upgrade failed")
	}
}
