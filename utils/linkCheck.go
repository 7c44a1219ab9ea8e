package utils

import (
	"log"
	"net/http"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// CheckContentUrl verifies that a lesson's content URL answers an HTTP HEAD
// request. Best effort: an unreachable URL is logged and reported, never
// blocks the save.
func CheckContentUrl(contentUrl string) bool {
	if contentUrl == "" {
		return true
	}

	client := resty.New().
		SetTimeout(time.Duration(config.AppConfig.LinkCheckTimeout) * time.Second)

	resp, err := client.R().Head(contentUrl)
	if err != nil {
		log.Printf("[LINK-CHECK] Content URL unreachable: %s (%v)", contentUrl, err)
		return false
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		log.Printf("[LINK-CHECK] Content URL returned %d: %s", resp.StatusCode(), contentUrl)
		return false
	}

	return true
}
