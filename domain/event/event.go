// Package event defines the inbound events consumed by a room broker.
// A broker processes these one at a time, in arrival order, which is the only
// synchronization around a room's member set.
package event

// Event is one unit of work submitted to a room broker's inbound queue.
type Event interface {
	Username() string
}

// Join adds a member to the room. Sink is the member's connection writer
// queue; the broker binds a fresh delivery worker between its private member
// queue and this sink. Notice is the already formatted join line to fan out.
type Join struct {
	User   string
	Sink   chan<- string
	Notice string
}

func (j Join) Username() string { return j.User }

// Leave removes a member. Closing the member queue is the delivery worker's
// only termination signal.
type Leave struct {
	User   string
	Notice string
}

func (l Leave) Username() string { return l.User }

// Chat fans the formatted line to every member except the author.
type Chat struct {
	User string
	Line string
}

func (c Chat) Username() string { return c.User }
