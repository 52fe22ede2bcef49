// Package utils holds the logger constructor shared by cmd/termscan and its tests.
package utils

import "go.uber.org/zap"

// LoggerName is the name every termscan logger carries.
const LoggerName = "termscan"

// NewLogger returns a zap logger named LoggerName. With debug it is a development
// logger at debug level; otherwise a JSON production logger at info level.
func NewLogger(debug bool) (*zap.Logger, error) {
	build := zap.NewProduction
	if debug {
		build = zap.NewDevelopment
	}
	l, err := build()
	if err != nil {
		return nil, err
	}
	return l.Named(LoggerName), nil
}
