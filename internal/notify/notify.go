// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify delivers short user-facing notifications (the terminal's
// equivalent of a toast). The session layer only produces (outcome, message)
// pairs and hands them to whichever Notifier it was built with.
package notify

import (
	"sync"

	"github.com/pterm/pterm"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// Terminal prints notifications with pterm prefix printers.
type Terminal struct{}

func (Terminal) Success(msg string) { pterm.Success.Println(msg) }
func (Terminal) Info(msg string)    { pterm.Info.Println(msg) }
func (Terminal) Error(msg string)   { pterm.Error.Println(msg) }

// Nop discards every notification.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Info(string)    {}
func (Nop) Error(string)   {}

// Event is one recorded notification.
type Event struct {
	Level   Level
	Message string
}

// Recorder keeps notifications in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Level: level, Message: msg})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Last returns the most recent event and whether there was one.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}
