package rabbitmq

import (
	"errors"
	"fmt"
	"mensa-go-worker/services/trackLog"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// Connection is a named AMQP connection with its channel and declared queues.
type Connection struct {
	sync.Mutex
	name    string
	url     string
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Queues  []string
	Err     chan error
	ApiErr  chan error
}

var (
	poolMutex      sync.Mutex
	connectionPool = make(map[string]*Connection)
	retryInterval  = 60 * time.Second
)

// NewConnection returns the pooled connection for name, creating it if needed.
func NewConnection(name, url string, queues []string) *Connection {
	poolMutex.Lock()
	defer poolMutex.Unlock()
	if c, ok := connectionPool[name]; ok {
		return c
	}
	c := &Connection{
		name:   name,
		url:    url,
		Queues: queues,
		Err:    make(chan error, 1),
		ApiErr: make(chan error, 1),
	}
	connectionPool[name] = c
	return c
}

// GetConnection returns the connection which was instantiated
func GetConnection(name string) *Connection {
	poolMutex.Lock()
	defer poolMutex.Unlock()
	return connectionPool[name]
}

func (c *Connection) Connect() error {
	c.Lock()
	defer c.Unlock()
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("Error in creating rabbitmq connection with %s : %s", c.name, err.Error())
	}
	c.Conn = conn
	go func() {
		<-conn.NotifyClose(make(chan *amqp.Error))
		notify(c.Err, errors.New("Connection Closed"))
		notify(c.ApiErr, errors.New("Api detect Connection Closed"))
	}()
	c.Channel, err = conn.Channel()
	if err != nil {
		return fmt.Errorf("Channel: %s", err)
	}
	return nil
}

func notify(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func (c *Connection) BindQueue() error {
	for _, q := range c.Queues {
		if _, err := c.Channel.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("error in declaring the queue %s", err)
		}
	}
	return nil
}

// Reconnect reconnects the connection
func (c *Connection) Reconnect() error {
	if err := c.Connect(); err != nil {
		return err
	}
	return c.BindQueue()
}

func (c *Connection) Consume() (map[string]<-chan amqp.Delivery, error) {
	m := make(map[string]<-chan amqp.Delivery)
	for _, q := range c.Queues {
		deliveries, err := c.Channel.Consume(q, "", true, false, false, false, nil)
		if err != nil {
			return nil, err
		}
		m[q] = deliveries
	}
	return m, nil
}

// HandleConsumedDeliveries feeds deliveries of q to fn, one at a time, and
// resubscribes after the connection drops.
func (c *Connection) HandleConsumedDeliveries(q string, delivery <-chan amqp.Delivery, fn func(string, amqp.Delivery)) {
	for {
		go func(deliveries <-chan amqp.Delivery) {
			for d := range deliveries {
				fn(q, d)
			}
		}(delivery)

		err := <-c.Err
		trackLog.Error(fmt.Sprintf("Queue[%s]: %s", q, err.Error()), true)
		for {
			if err := c.Reconnect(); err != nil {
				trackLog.Error(err.Error(), true)
				time.Sleep(retryInterval)
				continue
			}
			deliveries, err := c.Consume()
			if err != nil {
				trackLog.Error(err.Error(), true)
				time.Sleep(retryInterval)
				continue
			}
			delivery = deliveries[q]
			break
		}
	}
}
