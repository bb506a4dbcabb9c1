package domain

import "time"

type SessionID string
type MessageID string

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Timestamp = time.Time
