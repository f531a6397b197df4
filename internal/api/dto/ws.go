package dto

// ClientFrame 客户端上行帧
type ClientFrame struct {
	Type      string `json:"type"` // join_project/leave_project/typing_start/typing_stop
	ProjectID uint64 `json:"project_id,omitempty"`
	PeerID    uint64 `json:"peer_id,omitempty"`
}

// ServerFrame 服务端下行帧
type ServerFrame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// TypingDTO 正在输入推送
type TypingDTO struct {
	UserID uint64 `json:"user_id"`
	Typing bool   `json:"typing"`
}
