package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrMsgContentTooLong    = errors.New("消息内容超出长度限制")
	ErrMsgTypeInvalid       = errors.New("不支持的消息类型")
	ErrMessageNotFound      = errors.New("消息不存在")
	ErrReplyNotFound        = errors.New("被回复的消息不存在")
	ErrEditWindowClosed     = errors.New("消息已超出可编辑时间窗口")
	ErrTargetUserInvalid    = errors.New("目标用户无效")
	ErrNotifyTypeInvalid    = errors.New("不支持的通知类型")
	ErrNotifyContentTooLong = errors.New("通知标题或正文超出长度限制")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrNotProjectMember     = errors.New("不是项目成员")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrMsgContentTooLong:    BadRequest,
	ErrMsgTypeInvalid:       BadRequest,
	ErrMessageNotFound:      NotFound,
	ErrReplyNotFound:        NotFound,
	ErrEditWindowClosed:     Conflict,
	ErrTargetUserInvalid:    BadRequest,
	ErrNotifyTypeInvalid:    BadRequest,
	ErrNotifyContentTooLong: BadRequest,
	ErrNotificationNotFound: NotFound,
	ErrNotProjectMember:     Unauthorized,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
