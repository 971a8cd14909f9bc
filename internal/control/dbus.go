package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/genricoloni/randpaper/internal/lock"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	// BusName is the well-known name owned by a running daemon
	BusName = "org.randpaper.Daemon"
	// ObjectPath is where the control object is exported
	ObjectPath dbus.ObjectPath = "/org/randpaper/Daemon"
	// Interface holds the Skip method
	Interface = "org.randpaper.Daemon"
)

// BusConn defines the D-Bus operations the service needs.
// This abstraction allows us to fake the bus in tests.
type BusConn interface {
	// Export publishes v's methods at path under iface
	Export(v any, path dbus.ObjectPath, iface string) error

	// RequestName asks the bus for a well-known name
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)

	// ReleaseName gives a well-known name back
	ReleaseName(name string) (dbus.ReleaseNameReply, error)

	// Close closes the connection
	Close() error
}

// ConnectSessionBus opens a private session bus connection
func ConnectSessionBus() (*dbus.Conn, error) {
	return dbus.ConnectSessionBus()
}

// Service exports the Skip method on the session bus
type Service struct {
	logger  *zap.Logger
	conn    BusConn
	skipper *Skipper
}

// NewService creates a D-Bus control service
func NewService(logger *zap.Logger, conn BusConn, skipper *Skipper) *Service {
	return &Service{logger: logger, conn: conn, skipper: skipper}
}

// skipObject is the exported D-Bus object
type skipObject struct {
	logger  *zap.Logger
	skipper *Skipper
}

// Skip is called over D-Bus
func (o skipObject) Skip() *dbus.Error {
	if o.skipper.Trigger() {
		o.logger.Info("Skip requested via D-Bus")
	} else {
		o.logger.Debug("Skip already pending, D-Bus request ignored")
	}
	return nil
}

// Start exports the control object and claims BusName
func (s *Service) Start() error {
	obj := skipObject{logger: s.logger, skipper: s.skipper}
	if err := s.conn.Export(obj, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export control object: %w", err)
	}

	reply, err := s.conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%s is already owned", BusName)
	}

	s.logger.Info("D-Bus control service ready", zap.String("name", BusName))
	return nil
}

// Stop releases the name and closes the connection
func (s *Service) Stop() error {
	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Debug("Failed to release bus name", zap.Error(err))
	}
	return s.conn.Close()
}

// Client asks a running daemon to rotate now.
// It tries D-Bus first and falls back to SIGUSR1 at the pid in the lock file.
type Client struct {
	logger   *zap.Logger
	call     func(ctx context.Context) error
	lockPath string
	signal   func(pid int) error
}

// NewClient creates a skip client. conn may be nil when no session bus is available.
func NewClient(logger *zap.Logger, conn *dbus.Conn, lockPath string) *Client {
	c := &Client{
		logger:   logger,
		lockPath: lockPath,
		signal: func(pid int) error {
			return unix.Kill(pid, unix.SIGUSR1)
		},
		call: func(context.Context) error {
			return errors.New("no session bus")
		},
	}
	if conn != nil {
		c.call = func(ctx context.Context) error {
			return conn.Object(BusName, ObjectPath).CallWithContext(ctx, Interface+".Skip", 0).Err
		}
	}
	return c
}

// Skip delivers one skip request
func (c *Client) Skip(ctx context.Context) error {
	err := c.call(ctx)
	if err == nil {
		c.logger.Debug("Skip delivered via D-Bus")
		return nil
	}
	c.logger.Debug("D-Bus skip failed, falling back to SIGUSR1", zap.Error(err))

	if c.lockPath == "" {
		return fmt.Errorf("no running instance reachable: %w", err)
	}

	pid, perr := lock.ReadPID(c.lockPath)
	if perr != nil {
		return fmt.Errorf("no running instance found: %w", perr)
	}

	if err := c.signal(pid); err != nil {
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}

	c.logger.Debug("Skip delivered via SIGUSR1", zap.Int("pid", pid))
	return nil
}
