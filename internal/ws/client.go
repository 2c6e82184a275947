package ws

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// SendBuffer is how many messages may wait for a slow connection before the
// client is dropped.
const SendBuffer = 256

// Conn is the write side of a websocket connection.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Client is the single writer of one connection. Messages passed to Send
// are written in the order they were queued by one goroutine.
type Client struct {
	conn      Conn
	send      chan Message
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewClient(conn Conn) *Client {
	c := &Client{
		conn:    conn,
		send:    make(chan Message, SendBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// Send queues msg without blocking. It returns false once the client is
// closed; a full buffer closes the client.
func (c *Client) Send(msg Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		log.Warnf("send buffer full, dropping client")
		c.stop()
		return false
	}
}

// Close writes what is already queued and waits for the writer to exit.
// The connection must stay open until Close returns.
func (c *Client) Close() {
	c.stop()
	<-c.stopped
}

func (c *Client) stop() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) writeLoop() {
	defer close(c.stopped)
	for {
		select {
		case msg := <-c.send:
			if !c.write(msg) {
				return
			}
		case <-c.done:
			for {
				select {
				case msg := <-c.send:
					if !c.write(msg) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (c *Client) write(msg Message) bool {
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Debugf("write %s message: %v", msg.Type, err)
		c.stop()
		return false
	}
	return true
}
