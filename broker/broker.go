// Package broker publishes ledger events over STOMP. Publishing is a no-op
// until Connect succeeds.
package broker

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-stomp/stomp/v3"
	"github.com/gofiber/fiber/v2/log"
)

var (
	conn   *stomp.Conn
	connMu sync.Mutex
)

func Connect(network, host string) error {
	c, err := stomp.Dial(network, host, stomp.ConnOpt.HeartBeat(0, 0))
	if err != nil {
		return fmt.Errorf("connect to message broker %s: %w", host, err)
	}

	connMu.Lock()
	conn = c
	connMu.Unlock()

	log.Infof("Connected to message broker at %s", host)
	return nil
}

func Disconnect() {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.Disconnect(); err != nil {
		log.Warnf("Message broker disconnect: %v", err)
	}
	conn = nil
}

func Connected() bool {
	connMu.Lock()
	defer connMu.Unlock()
	return conn != nil
}

// sendReliable waits for the broker receipt.
func sendReliable(destination string, payload interface{}) error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", destination, err)
	}
	if err := conn.Send(destination, "application/json", body, stomp.SendOpt.Receipt); err != nil {
		return fmt.Errorf("send to %s: %w", destination, err)
	}
	return nil
}
