package chat

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"SProject/logger"
	"SProject/tools/errs"
	"SProject/tools/ids"
	"SProject/tools/safe"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096, CheckOrigin: func(r *http.Request) bool { return true }}

// handshakeToken reads the session token from the ?token= query parameter,
// falling back to an Authorization: Bearer header.
func handshakeToken(c *gin.Context) string {
	if tok := strings.TrimSpace(c.Query("token")); tok != "" {
		return tok
	}
	if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return strings.TrimSpace(authz[len("bearer "):])
		}
	}
	return ""
}

// HandleWS upgrades the connection, authenticates it, registers the session
// and then reads inbound events until disconnect.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error: %v", err)
		return
	}

	userID, aerr := s.auth.Authenticate(c.Request.Context(), handshakeToken(c))
	if aerr != nil {
		s.refuse(ws, aerr)
		return
	}

	connID := ids.GenerateString()
	client := NewClient(connID, userID, ws, s.conf.SendQueueSize)

	sessions := s.reg.Register(client)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		s.presence.OnConnect(ctx, userID, sessions)
		cancel()
	}
	logger.Infof("[ws] connected user=%s conn=%s sessions=%d", userID, connID, sessions)

	s.startWriter(client)

	if data, merr := MarshalEvent(BuildConnectedAck(connID, userID)); merr == nil {
		select {
		case client.Send <- data:
		default:
		}
	}

	s.readLoop(client)

	// Disconnect: remove the session first so no new dispatch targets this
	// connection, then stop the writer. In-flight fanout to other recipients
	// of an already dispatched event is unaffected.
	if user, remaining, ok := s.reg.Unregister(connID); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		s.presence.OnDisconnect(ctx, user, remaining)
		cancel()
		logger.Infof("[ws] disconnected user=%s conn=%s remaining=%d", user, connID, remaining)
	}
	client.CloseSend()
}

// refuse writes a single connect_error envelope and closes. No session was
// created and no side effects occurred.
func (s *Server) refuse(ws *websocket.Conn, cerr *errs.CodeError) {
	if data, err := MarshalEvent(BuildConnectError(cerr)); err == nil {
		_ = ws.SetWriteDeadline(time.Now().Add(s.conf.WriteWait))
		_ = ws.WriteMessage(websocket.TextMessage, data)
	}
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, cerr.Msg),
		time.Now().Add(s.conf.WriteWait))
	_ = ws.Close()
	logger.Infof("[ws] handshake refused: %s", cerr.Msg)
}

func (s *Server) readLoop(client *Client) {
	ws := client.WS
	_ = ws.SetReadDeadline(time.Now().Add(s.conf.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(s.conf.PongWait))
	})

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s err=%v", client.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s err=%v", client.ConnID, rerr)
			} else {
				logger.Infof("[ws] read err conn=%s err=%v", client.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		evt, perr := ParseEventJSON(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Debugf("[ws] drop unparsable frame conn=%s err=%v sample=%q", client.ConnID, perr, sample)
			continue
		}

		// Conversation lookups inside resolution are the only suspension
		// points; events from other connections keep flowing meanwhile.
		s.DispatchEvent(context.Background(), client, evt)
	}
}

// startWriter runs the single writer goroutine for one connection: it drains
// the send queue and keeps the connection alive with periodic pings.
func (s *Server) startWriter(client *Client) {
	safe.Go(func() {
		ticker := time.NewTicker(s.conf.PingInterval)
		defer func() {
			ticker.Stop()
			_ = client.WS.SetWriteDeadline(time.Now().Add(s.conf.WriteWait))
			_ = client.WS.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = client.WS.Close()
		}()

		for {
			select {
			case <-client.Done():
				return

			case payload := <-client.Send:
				_ = client.WS.SetWriteDeadline(time.Now().Add(s.conf.WriteWait))
				if err := client.WS.WriteMessage(websocket.TextMessage, payload); err != nil {
					logger.Infof("[ws] write err conn=%s user=%s err=%v", client.ConnID, client.UserID, err)
					return
				}

			case <-ticker.C:
				_ = client.WS.SetWriteDeadline(time.Now().Add(s.conf.WriteWait))
				if err := client.WS.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(s.conf.WriteWait)); err != nil {
					logger.Infof("[ws] ping err conn=%s user=%s err=%v", client.ConnID, client.UserID, err)
					return
				}
			}
		}
	})
}
