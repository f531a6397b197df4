package consts

const (
	// MaxMessageContentLen 单条消息正文长度上限
	MaxMessageContentLen = 2000
	// MaxNotifyTitleLen 通知标题长度上限
	MaxNotifyTitleLen = 120
	// MaxNotifyBodyLen 通知正文长度上限
	MaxNotifyBodyLen = 1000

	// MessageEditWindowHours 消息可编辑时间窗口（小时）
	MessageEditWindowHours = 24
)

const (
	DefaultAvatarURL = "default_avatar.png"
)
