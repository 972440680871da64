package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrUnavailable is returned when no shell bridge is reachable.
var ErrUnavailable = errors.New("shell bridge unavailable")

// CommandError is a command the bridge answered with ok=false.
type CommandError struct {
	Cmd     string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Cmd, e.Message)
}

// SocketPath returns the default bridge socket path.
func SocketPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "bloom", "shell.sock")
}

// Client communicates with the shell bridge over a Unix socket.
type Client struct {
	conn    net.Conn
	scanner *bufio.Scanner
	mu      sync.Mutex
}

// Connect dials the bridge Unix socket.
func Connect(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to shell bridge: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Client{conn: conn, scanner: scanner}, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SendCommand sends a command and reads one response line.
func (c *Client) SendCommand(ctx context.Context, cmd Command) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}
	defer c.conn.SetDeadline(time.Time{})

	data, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("marshal command: %w", err)
	}

	data = append(data, '\n')
	if _, err := c.conn.Write(data); err != nil {
		return Response{}, fmt.Errorf("write command: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Response{}, fmt.Errorf("read response: %w", err)
		}
		return Response{}, fmt.Errorf("connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return Response{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return resp, nil
}

// ReadEvent reads the next NDJSON event line. Blocks until data arrives.
// After calling Subscribe, use this in a loop to receive events.
func (c *Client) ReadEvent() (Event, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Event{}, fmt.Errorf("read event: %w", err)
		}
		return Event{}, fmt.Errorf("connection closed")
	}

	var ev Event
	if err := json.Unmarshal(c.scanner.Bytes(), &ev); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}

	return ev, nil
}

// call sends cmd and turns a rejected response into a *CommandError.
func (c *Client) call(ctx context.Context, cmd Command) (Response, error) {
	resp, err := c.SendCommand(ctx, cmd)
	if err != nil {
		return Response{}, err
	}
	if !resp.OK {
		return resp, &CommandError{Cmd: cmd.Cmd, Message: resp.Error}
	}
	return resp, nil
}

// NotificationsPermitted reports whether the user allowed local notifications.
func (c *Client) NotificationsPermitted(ctx context.Context) (bool, error) {
	resp, err := c.call(ctx, Command{Cmd: CmdNotifyPermission})
	if err != nil {
		return false, err
	}
	return resp.Granted != nil && *resp.Granted, nil
}

// Schedule asks the bridge to deliver n at n.At, repeating daily if requested.
func (c *Client) Schedule(ctx context.Context, n Notification) error {
	_, err := c.call(ctx, Command{
		Cmd:         CmdNotifySchedule,
		ID:          IntPtr(n.ID),
		Title:       n.Title,
		Body:        n.Body,
		At:          n.At.Format(time.RFC3339),
		RepeatDaily: BoolPtr(n.RepeatDaily),
	})
	return err
}

// Cancel cancels a previously scheduled notification.
func (c *Client) Cancel(ctx context.Context, id int) error {
	_, err := c.call(ctx, Command{Cmd: CmdNotifyCancel, ID: IntPtr(id)})
	return err
}

// StartBackground registers payload with the background runner under label.
func (c *Client) StartBackground(ctx context.Context, label, payload string) error {
	_, err := c.call(ctx, Command{Cmd: CmdBackgroundStart, Label: label, Payload: payload})
	return err
}

// StopBackground cancels the background task registered under label.
func (c *Client) StopBackground(ctx context.Context, label string) error {
	_, err := c.call(ctx, Command{Cmd: CmdBackgroundStop, Label: label})
	return err
}

// BackgroundActive reports whether the task under label is running.
func (c *Client) BackgroundActive(ctx context.Context, label string) (bool, error) {
	resp, err := c.call(ctx, Command{Cmd: CmdBackgroundStatus, Label: label})
	if err != nil {
		return false, err
	}
	return resp.Active != nil && *resp.Active, nil
}

// MotionPermission requests access to the motion sensor.
func (c *Client) MotionPermission(ctx context.Context) (MotionAccess, error) {
	resp, err := c.call(ctx, Command{Cmd: CmdMotionPermission})
	if err != nil {
		return MotionUnavailable, err
	}
	if resp.Available != nil && !*resp.Available {
		return MotionUnavailable, nil
	}
	if resp.Granted == nil || !*resp.Granted {
		return MotionDenied, nil
	}
	return MotionGranted, nil
}

// Subscribe starts the motion event stream on this connection. Use a
// dedicated connection: after Subscribe the connection only carries events.
func (c *Client) Subscribe(ctx context.Context) error {
	_, err := c.call(ctx, Command{Cmd: CmdSubscribe, Events: []string{EventMotion}})
	return err
}
