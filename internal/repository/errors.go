package repository

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrCommunityNotFound  = errors.New("community not found")
	ErrMemberNotFound     = errors.New("community member not found")
	ErrTopicNotFound      = errors.New("topic not found")
	ErrDuplicateFollow    = errors.New("already following")
	ErrDuplicateMember    = errors.New("already a member")
	ErrSuperAdminLeave    = errors.New("super admin cannot leave the community")
	ErrDuplicateShare     = errors.New("post already shared")
)
