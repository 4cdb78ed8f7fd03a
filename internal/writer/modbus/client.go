// internal/writer/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// RegisterClient owns one Modbus TCP connection used to publish the status block.
// Requests are serialized since the unit id lives on the shared handler.
type RegisterClient struct {
	endpoint string

	mu sync.Mutex
	h  *modbus.TCPClientHandler
	mb modbus.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Dial connects to cfg.Endpoint. The connection is verified here so a wrong
// address shows up at startup instead of on the first tick.
func Dial(cfg Config) (*RegisterClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("writer modbus: dial %s: %w", cfg.Endpoint, err)
	}

	return &RegisterClient{
		endpoint: cfg.Endpoint,
		h:        h,
		mb:       modbus.NewClient(h),
	}, nil
}

// Endpoint returns the address the client was dialled with.
func (c *RegisterClient) Endpoint() string {
	return c.endpoint
}

// WriteRegisters issues FC16 (write multiple holding registers) to unitID.
// After a failure the connection is dropped; the handler re-dials on the next write.
func (c *RegisterClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.h.SlaveId = unitID
	if _, err := c.mb.WriteMultipleRegisters(addr, uint16(len(regs)), registerBytes(regs)); err != nil {
		_ = c.h.Close()
		return fmt.Errorf("writer modbus: %s unit %d addr %d: %w", c.endpoint, unitID, addr, err)
	}
	return nil
}

func (c *RegisterClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h.Close()
}

// registerBytes lays registers out in wire order (big-endian, high byte first).
func registerBytes(regs []uint16) []byte {
	b := make([]byte, 0, 2*len(regs))
	for _, r := range regs {
		b = binary.BigEndian.AppendUint16(b, r)
	}
	return b
}
