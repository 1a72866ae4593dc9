package controller

import "time"

const requestTimeout = 3 * time.Second

type relationRequest struct {
	UserID string `json:"userId" binding:"required"`
}
