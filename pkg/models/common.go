package models

import (
	"github.com/google/uuid"
)

// NewRunID generates the id that tags one report run in logs and responses
func NewRunID() string {
	return uuid.New().String()
}
