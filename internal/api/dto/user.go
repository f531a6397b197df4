package dto

// UserDTO 用户简要信息
type UserDTO struct {
	UserID    *uint64 `json:"user_id,omitempty"`
	Nickname  *string `json:"nickname,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}
