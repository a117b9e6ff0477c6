package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrReceiverNotFound     = errors.New("receiver user does not exist")
	ErrRoomNotFound         = errors.New("room does not exist")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: email or nickname already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidDm            = errors.New("cannot send a dm to yourself")
	ErrDmBlocked            = errors.New("dm is not allowed between these users")
	ErrInvalidBlock         = errors.New("cannot block yourself")
	ErrNotBlocked           = errors.New("user is not blocked")
	ErrInternalServer       = errors.New("internal server error")
)

// IsNotFound 报告 err 是否属于 "资源不存在" 一类, 供接口层统一映射为 404。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrReceiverNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrNotBlocked)
}
