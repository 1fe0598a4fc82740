package bucket

import (
	"github.com/desksprite/desksprite/engine/sprite"
	"github.com/desksprite/desksprite/engine/window"
)

// message is the sealed set of commands a bucket worker understands. Payloads
// move with the message: a window sent in addMessage belongs to the worker
// from the moment the send succeeds.
type message interface {
	isMessage()
}

// addMessage hands the worker a new sprite to drive.
type addMessage struct {
	win  window.Window
	data *sprite.Data
}

// resizedMessage tells the worker one of its windows changed size.
type resizedMessage struct {
	id     window.ID
	width  int
	height int
}

// removeMessage tells the worker to tear one of its sprites down.
type removeMessage struct {
	id window.ID
}

func (addMessage) isMessage()     {}
func (resizedMessage) isMessage() {}
func (removeMessage) isMessage()  {}
