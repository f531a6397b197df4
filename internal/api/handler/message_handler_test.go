package handler

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// stubMessageService 非法参数应在进入 service 前被拦截，未实现的方法被调用即 panic
type stubMessageService struct {
	service.MessageService
}

func TestGetChatHistoryRejectsBadPeerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMessageHandler(stubMessageService{})

	r := gin.New()
	r.GET("/api/im/history", func(c *gin.Context) {
		c.Set("userID", uint64(1))
		h.GetChatHistory(c)
	})

	for _, query := range []string{"", "peer_id=abc", "peer_id=0", "peer_id=-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/im/history?"+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("query %q: http status = %d", query, w.Code)
		}
		var resp dto.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("query %q: bad body: %v", query, err)
		}
		if resp.Code != 400 {
			t.Errorf("query %q: code = %d, want 400", query, resp.Code)
		}
	}
}
